package catalog

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/alchimist/internal/game/check"
	"github.com/cory-johannsen/alchimist/internal/game/formula"
	"github.com/cory-johannsen/alchimist/internal/game/harvest"
)

// Recipe is one entry of the recipe table.
//
// Precondition: ID and Name must be non-empty and Attributes must name three
// attributes after loading.
type Recipe struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Difficulty  int      `yaml:"difficulty"`
	Attributes  []string `yaml:"attributes"`
	// CostFormula is evaluated with the check's extra points, e.g. "16-ZfP/2".
	CostFormula string `yaml:"cost_formula"`
	BaseCost    int    `yaml:"base_cost"`
	// OnFailure is "half", "third" or "full"; empty means half.
	OnFailure string `yaml:"on_failure"`
	// QualityBonus is added to the brewing quality points.
	QualityBonus int    `yaml:"quality_bonus"`
	Yield        string `yaml:"yield"`
	ShelfLife    string `yaml:"shelf_life"`

	// Items is Yield parsed without applying conditions.
	Items []harvest.Item `yaml:"-"`
	// Cost is the posted cost ready for check.CostRule.Cost.
	Cost check.CostRule `yaml:"-"`
	// FormulaValid is false when CostFormula is set but does not compile; the
	// base cost alone applies then.
	FormulaValid bool `yaml:"-"`
}

func (r *Recipe) prepare() error {
	if r.ID == "" || r.Name == "" {
		return errors.New("recipe id and name must not be empty")
	}
	if len(r.Attributes) != 3 {
		return fmt.Errorf("recipe %s: attributes must name exactly 3 attributes, got %d", r.ID, len(r.Attributes))
	}
	policy, err := check.ParseFailurePolicy(r.OnFailure)
	if err != nil {
		return fmt.Errorf("recipe %s: %w", r.ID, err)
	}
	r.Cost = check.CostRule{Formula: r.CostFormula, BaseCost: r.BaseCost, OnFailure: policy}
	if r.CostFormula == "" {
		r.FormulaValid = true
	} else {
		_, err = formula.Parse(r.CostFormula)
		r.FormulaValid = err == nil
	}
	r.Items = harvest.Parse(r.Yield, harvest.ParseOptions{})
	return nil
}

// LoadRecipes reads all .yaml files in dir and parses each as a Recipe.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed recipes (may be empty slice) or a non-nil error.
func LoadRecipes(dir string) ([]*Recipe, error) {
	return loadDir(dir, "recipe", (*Recipe).prepare)
}
