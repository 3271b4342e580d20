package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override; EnvConfigFile names the YAML file.
const (
	EnvPrefix     = "FEESHOCK_"
	EnvConfigFile = "FEESHOCK_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FEESHOCK_CONFIG is set
//  3. env (prefix FEESHOCK_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, path, err)
		}
	}

	// FEESHOCK_BASELINE_FEE -> baseline_fee; underscores are kept to match koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	// the config file path itself is not a field
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the pipeline relies on.
func (c *Config) Validate() error {
	switch {
	case c.BaselineFee == 0:
		return fmt.Errorf("%w: %w: baseline_fee must not be zero", ErrInvalidConfig, ErrInvalidFee)
	case c.BaselineFee < 0 || c.TargetFee < 0:
		return fmt.Errorf("%w: %w: fees must not be negative", ErrInvalidConfig, ErrInvalidFee)
	case !finite(c.BaselineFee) || !finite(c.TargetFee) || !finite(c.Elasticity):
		return fmt.Errorf("%w: fees and elasticity must be finite", ErrInvalidConfig)
	case strings.TrimSpace(c.PetitionGlob) == "":
		return fmt.Errorf("%w: petition_glob must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.OPTPath) == "" || strings.TrimSpace(c.CPTPath) == "":
		return fmt.Errorf("%w: opt_path and cpt_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.YearSummaryPath) == "" || strings.TrimSpace(c.SectorPath) == "":
		return fmt.Errorf("%w: year_summary_path and sector_summary_path must not be empty", ErrInvalidConfig)
	case c.Serve && strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TopEmployers < 0 || c.MaxTopEmployers < 1:
		return fmt.Errorf("%w: top_employers must be >= 0 and max_top_employers >= 1", ErrInvalidConfig)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
