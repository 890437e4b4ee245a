package rules

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/alchimist/internal/game/calendar"
	"github.com/cory-johannsen/alchimist/internal/game/catalog"
	"github.com/cory-johannsen/alchimist/internal/game/check"
	"github.com/cory-johannsen/alchimist/internal/game/harvest"
)

// CostScope and CostHook name the script hook that may adjust brewing costs.
// The hook receives the recipe ID and the computed cost and returns the new cost.
const (
	CostScope = "costs"
	CostHook  = "cost_modifier"
)

// Attempt describes who attempts a brew or a forage.
type Attempt struct {
	Rating     int
	Boost      int
	Attributes [3]int
	// Modifier is added to the entry's difficulty.
	Modifier int
	// Reducers counts cost-reducing traits; only brewing uses it.
	Reducers int
}

func (a Attempt) check(difficulty int) check.Check {
	return check.Check{
		Rating:     a.Rating,
		Boost:      a.Boost,
		Difficulty: difficulty + a.Modifier,
		Attributes: a.Attributes,
	}
}

// BrewResult is the outcome of one brewing attempt. Products and Expires are
// set only when the check succeeded.
type BrewResult struct {
	CheckRecord
	Recipe      *catalog.Recipe
	Cost        int
	Quality     check.Quality
	QualityDice [2]int
	Products    []harvest.RolledItem
	Expires     calendar.Date
}

// Brew resolves a recipe check, prices it, grades the product and rolls the
// yield and its shelf life.
//
// Postcondition: Cost >= 1 on success; the error wraps ErrUnknownEntry,
// check.ErrInvalidCheck or check.ErrInvalidArgument.
func (s *Service) Brew(recipeID string, a Attempt) (BrewResult, error) {
	r, err := s.recipe(recipeID)
	if err != nil {
		return BrewResult{}, err
	}
	rec, err := s.ResolveCheck(a.check(r.Difficulty))
	if err != nil {
		return BrewResult{}, err
	}

	rule := r.Cost
	if !r.FormulaValid {
		s.logger.Debug("recipe cost formula invalid, base cost applies",
			zap.String("recipe", r.ID),
			zap.String("formula", r.CostFormula),
		)
		rule.Formula = ""
	}
	if s.policy != nil {
		rule.OnFailure = *s.policy
	}
	cost, err := rule.CostWith(s.formulas, rec.Outcome, a.Reducers)
	if err != nil {
		return BrewResult{}, err
	}
	if s.hooks != nil {
		cost = max(s.hooks.AdjustInt(CostScope, CostHook, cost, r.ID), 1)
	}

	res := BrewResult{CheckRecord: rec, Recipe: r, Cost: cost}
	res.Quality, res.QualityDice = check.BrewQuality(rec.Outcome, r.QualityBonus, s.roller)
	if rec.Outcome.Success {
		res.Products = harvest.RollItems(harvest.Gate(r.Items, rec.Outcome.ExtraPoints), s.roller)
		res.Expires = s.Expiry(s.today, r.ShelfLife)
	}

	s.logger.Info("brew resolved",
		zap.String("check_id", rec.ID.String()),
		zap.String("recipe", r.ID),
		zap.Int("cost", res.Cost),
		zap.Stringer("quality", res.Quality),
		zap.String("products", harvest.Summary(res.Products)),
	)
	return res, nil
}

// ForageResult is the outcome of one foraging attempt. Items and Expires are
// set only when the check succeeded.
type ForageResult struct {
	CheckRecord
	Herb    *catalog.Herb
	Items   []harvest.RolledItem
	Expires calendar.Date
}

// Forage resolves a search for a herb and rolls what was found. Conditional
// yield segments are gated by the check's extra points.
func (s *Service) Forage(herbID string, a Attempt) (ForageResult, error) {
	h, err := s.herb(herbID)
	if err != nil {
		return ForageResult{}, err
	}
	rec, err := s.ResolveCheck(a.check(h.Difficulty))
	if err != nil {
		return ForageResult{}, err
	}
	res := ForageResult{CheckRecord: rec, Herb: h}
	if rec.Outcome.Success {
		res.Items = harvest.RollItems(harvest.Gate(h.Items, rec.Outcome.ExtraPoints), s.roller)
		res.Expires = s.Expiry(s.today, h.ShelfLife)
	}
	s.logger.Info("forage resolved",
		zap.String("check_id", rec.ID.String()),
		zap.String("herb", h.ID),
		zap.String("items", harvest.Summary(res.Items)),
	)
	return res, nil
}
