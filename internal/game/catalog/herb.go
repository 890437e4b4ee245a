package catalog

import (
	"errors"

	"github.com/cory-johannsen/alchimist/internal/game/harvest"
)

// Herb is one entry of the herb table.
//
// Precondition: ID and Name must be non-empty after loading.
type Herb struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Difficulty is the foraging check modifier.
	Difficulty int `yaml:"difficulty"`
	// Yield is the free-text harvest description, e.g. "2 Blätter und eine Samenkapsel".
	Yield string `yaml:"yield"`
	// ShelfLife is the duration text, e.g. "W3+1 Monate".
	ShelfLife string `yaml:"shelf_life"`

	// Items is Yield parsed without applying conditions.
	Items []harvest.Item `yaml:"-"`
}

func (h *Herb) prepare() error {
	if h.ID == "" || h.Name == "" {
		return errors.New("herb id and name must not be empty")
	}
	h.Items = harvest.Parse(h.Yield, harvest.ParseOptions{})
	return nil
}

// LoadHerbs reads all .yaml files in dir and parses each as a Herb.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed herbs (may be empty slice) or a non-nil error.
func LoadHerbs(dir string) ([]*Herb, error) {
	return loadDir(dir, "herb", (*Herb).prepare)
}
