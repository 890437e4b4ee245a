// Package config provides Viper-based configuration loading for the rules core
// and its command-line front end.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/alchimist/internal/game/calendar"
	"github.com/cory-johannsen/alchimist/internal/game/check"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DiceConfig selects the randomness source.
type DiceConfig struct {
	// Source is "crypto" for live play or "seeded" for replayable sessions.
	Source string `mapstructure:"source"`
	// Seed initializes the seeded source; ignored for crypto.
	Seed uint64 `mapstructure:"seed"`
}

// FormulaConfig holds the compiled-formula cache settings.
type FormulaConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// ContentConfig locates the reference tables and rule scripts. Empty paths
// disable the corresponding table.
type ContentConfig struct {
	HerbsDir   string `mapstructure:"herbs_dir"`
	RecipesDir string `mapstructure:"recipes_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// ScriptingConfig bounds rule script execution.
type ScriptingConfig struct {
	// InstructionLimit caps the Lua opcodes a script VM may run; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// RulesConfig holds campaign-wide rule settings.
type RulesConfig struct {
	// Today is the campaign date used when none is given, e.g. "1 Praios 1040 BF".
	Today string `mapstructure:"today"`
	// FailurePolicy, when set, replaces every recipe's own failure policy:
	// "half", "third" or "full". Empty keeps each recipe's policy.
	FailurePolicy string `mapstructure:"failure_policy"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dice      DiceConfig      `mapstructure:"dice"`
	Formula   FormulaConfig   `mapstructure:"formula"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Rules     RulesConfig     `mapstructure:"rules"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDice(c.Dice); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Formula.CacheSize < 1 {
		errs = append(errs, fmt.Sprintf("formula.cache_size must be >= 1, got %d", c.Formula.CacheSize))
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDice(d DiceConfig) error {
	switch d.Source {
	case "crypto", "seeded":
		return nil
	default:
		return fmt.Errorf("dice.source must be one of [crypto, seeded], got %q", d.Source)
	}
}

func validateRules(r RulesConfig) error {
	var errs []string
	if _, err := calendar.ParseDate(r.Today); err != nil {
		errs = append(errs, fmt.Sprintf("rules.today must be a date like \"1 Praios 1040 BF\", got %q", r.Today))
	}
	if r.FailurePolicy != "" {
		if _, err := check.ParseFailurePolicy(r.FailurePolicy); err != nil {
			errs = append(errs, fmt.Sprintf("rules.failure_policy must be one of [half, third, full], got %q", r.FailurePolicy))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ALCHIMIST_ prefix
	v.SetEnvPrefix("ALCHIMIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("dice.source", "crypto")
	v.SetDefault("dice.seed", 0)

	v.SetDefault("formula.cache_size", 512)

	v.SetDefault("content.herbs_dir", "content/herbs")
	v.SetDefault("content.recipes_dir", "content/recipes")
	v.SetDefault("content.scripts_dir", "content/scripts")

	v.SetDefault("scripting.instruction_limit", 100_000)

	v.SetDefault("rules.today", "1 Praios 1040 BF")
	v.SetDefault("rules.failure_policy", "")
}
