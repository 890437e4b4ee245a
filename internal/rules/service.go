// Package rules binds the dice, formula, harvest, calendar and check
// components into one service the CLI and scripts call.
package rules

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/alchimist/internal/game/calendar"
	"github.com/cory-johannsen/alchimist/internal/game/catalog"
	"github.com/cory-johannsen/alchimist/internal/game/check"
	"github.com/cory-johannsen/alchimist/internal/game/dice"
	"github.com/cory-johannsen/alchimist/internal/game/formula"
	"github.com/cory-johannsen/alchimist/internal/game/harvest"
)

// ErrUnknownEntry is returned when a recipe or herb ID is not in the catalog.
var ErrUnknownEntry = errors.New("unknown catalog entry")

// Hooks adjusts intermediate results from rule scripts.
// *scripting.Manager satisfies it.
type Hooks interface {
	AdjustInt(scope, hook string, value int, args ...string) int
}

// Option configures a Service.
type Option func(*Service)

// WithHooks routes cost adjustments through h.
func WithHooks(h Hooks) Option {
	return func(s *Service) { s.hooks = h }
}

// WithToday sets the campaign date expiries are counted from.
func WithToday(d calendar.Date) Option {
	return func(s *Service) { s.today = d }
}

// WithFailurePolicy replaces every recipe's own failure policy.
func WithFailurePolicy(p check.FailurePolicy) Option {
	return func(s *Service) { s.policy = &p }
}

// Service resolves rule text and checks. It is safe for concurrent use when its
// dice source is.
type Service struct {
	roller   *dice.Roller
	formulas *formula.Cache
	catalog  *catalog.Registry
	logger   *zap.Logger
	hooks    Hooks
	today    calendar.Date
	policy   *check.FailurePolicy
}

// NewService creates a Service.
//
// Precondition: roller, formulas, reg and logger must be non-nil.
// Postcondition: Returns a non-nil *Service dated 1 Praios 1040 BF unless
// WithToday is given.
func NewService(roller *dice.Roller, formulas *formula.Cache, reg *catalog.Registry, logger *zap.Logger, opts ...Option) *Service {
	if roller == nil || formulas == nil || reg == nil || logger == nil {
		panic("rules.NewService: roller, formulas, registry and logger must be non-nil")
	}
	s := &Service{
		roller:   roller,
		formulas: formulas,
		catalog:  reg,
		logger:   logger,
		today:    calendar.Date{Day: 1, Month: calendar.Praios, Year: 1040},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the campaign date.
func (s *Service) Today() calendar.Date { return s.today }

// Catalog returns the herb and recipe registry.
func (s *Service) Catalog() *catalog.Registry { return s.catalog }

// RollDice rolls dice notation such as "2W6+5".
func (s *Service) RollDice(text string) (dice.RollResult, error) {
	return s.roller.RollExpr(text)
}

// EvaluateFormula evaluates a cost formula at points extra points. ok is
// false for empty or malformed text.
func (s *Service) EvaluateFormula(text string, points int) (int, bool) {
	return s.formulas.Evaluate(text, points)
}

// ParseYield parses quantity text. With non-nil points, conditional segments
// the points do not satisfy are dropped.
func (s *Service) ParseYield(text string, points *int) []harvest.Item {
	return harvest.Parse(text, harvest.ParseOptions{ApplyCondition: points != nil, Points: points})
}

// RollYield parses quantity text and rolls every dice quantity.
func (s *Service) RollYield(text string, points *int) []harvest.RolledItem {
	return harvest.RollItems(s.ParseYield(text, points), s.roller)
}

// Expiry returns from shifted by the duration text; unparseable text leaves
// from unchanged.
func (s *Service) Expiry(from calendar.Date, duration string) calendar.Date {
	return calendar.ExpiryDate(from, duration, s.roller)
}

// ExpiryText is Expiry over a date string, for scripts.
func (s *Service) ExpiryText(from, duration string) string {
	return calendar.ExpiryText(from, duration, s.roller)
}

// CheckRecord is one resolved check with its audit ID.
type CheckRecord struct {
	ID      uuid.UUID
	Check   check.Check
	Outcome check.Outcome
}

// ResolveCheck validates c, rolls it and logs the outcome.
//
// Postcondition: Returns a record with a fresh ID, or an error wrapping
// check.ErrInvalidCheck.
func (s *Service) ResolveCheck(c check.Check) (CheckRecord, error) {
	o, err := check.Resolve(c, s.roller)
	if err != nil {
		return CheckRecord{}, err
	}
	rec := CheckRecord{ID: uuid.New(), Check: c, Outcome: o}
	s.logger.Info("check resolved",
		zap.String("check_id", rec.ID.String()),
		zap.Int("rating", c.EffectiveRating()),
		zap.Int("difficulty", c.Difficulty),
		zap.Ints("rolls", o.Rolls[:]),
		zap.Bool("success", o.Success),
		zap.Int("extra_points", o.ExtraPoints),
		zap.Stringer("tier", o.Tier()),
	)
	return rec, nil
}

// CheckResult adapts ResolveCheck for scripts: success and extra points of a
// check without boost.
func (s *Service) CheckResult(rating, difficulty int, attrs [3]int) (bool, int, error) {
	rec, err := s.ResolveCheck(check.Check{Rating: rating, Difficulty: difficulty, Attributes: attrs})
	if err != nil {
		return false, 0, err
	}
	return rec.Outcome.Success, rec.Outcome.ExtraPoints, nil
}

func (s *Service) recipe(id string) (*catalog.Recipe, error) {
	r, ok := s.catalog.Recipe(id)
	if !ok {
		return nil, fmt.Errorf("rules: recipe %q: %w", id, ErrUnknownEntry)
	}
	return r, nil
}

func (s *Service) herb(id string) (*catalog.Herb, error) {
	h, ok := s.catalog.Herb(id)
	if !ok {
		return nil, fmt.Errorf("rules: herb %q: %w", id, ErrUnknownEntry)
	}
	return h, nil
}
