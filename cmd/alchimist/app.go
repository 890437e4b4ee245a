package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/alchimist/internal/config"
	"github.com/cory-johannsen/alchimist/internal/game/calendar"
	"github.com/cory-johannsen/alchimist/internal/game/catalog"
	"github.com/cory-johannsen/alchimist/internal/game/check"
	"github.com/cory-johannsen/alchimist/internal/game/dice"
	"github.com/cory-johannsen/alchimist/internal/game/formula"
	"github.com/cory-johannsen/alchimist/internal/observability"
	"github.com/cory-johannsen/alchimist/internal/rules"
	"github.com/cory-johannsen/alchimist/internal/scripting"
)

// app holds everything a subcommand needs.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	svc     *rules.Service
	scripts *scripting.Manager
}

// globalFlags are the persistent root flags.
type globalFlags struct {
	configPath string
	seed       uint64
	seeded     bool
	today      string
	verbose    bool
}

// newApp wires the services for one command run. Log entries go to logOut.
func newApp(f globalFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if f.seeded {
		cfg.Dice.Source = "seeded"
		cfg.Dice.Seed = f.seed
	}
	if f.today != "" {
		cfg.Rules.Today = f.today
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := observability.NewLoggerTo(cfg.Logging, zapcore.AddSync(logOut))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	var src dice.Source
	switch cfg.Dice.Source {
	case "seeded":
		src = dice.NewSeededSource(cfg.Dice.Seed)
	default:
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	cache, err := formula.NewCache(cfg.Formula.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating formula cache: %w", err)
	}

	reg, err := catalog.Load(cfg.Content.HerbsDir, cfg.Content.RecipesDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Debug("catalog loaded",
		zap.Int("herbs", len(reg.Herbs())),
		zap.Int("recipes", len(reg.Recipes())),
	)

	today, err := calendar.ParseDate(cfg.Rules.Today)
	if err != nil {
		return nil, fmt.Errorf("parsing today: %w", err)
	}

	scripts := scripting.NewManager(roller, logger, cfg.Scripting.InstructionLimit)
	opts := []rules.Option{rules.WithToday(today), rules.WithHooks(scripts)}
	if cfg.Rules.FailurePolicy != "" {
		policy, err := check.ParseFailurePolicy(cfg.Rules.FailurePolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rules.WithFailurePolicy(policy))
	}
	svc := rules.NewService(roller, cache, reg, logger, opts...)

	scripts.Formula = svc.EvaluateFormula
	scripts.Check = svc.CheckResult
	scripts.Expiry = svc.ExpiryText
	if cfg.Content.ScriptsDir != "" {
		if err := scripts.Load(scripting.GlobalScope, cfg.Content.ScriptsDir); err != nil {
			scripts.Close()
			return nil, err
		}
	}

	return &app{cfg: cfg, logger: logger, svc: svc, scripts: scripts}, nil
}

func (a *app) close() {
	a.scripts.Close()
	_ = a.logger.Sync()
}
