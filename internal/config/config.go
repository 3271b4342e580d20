// Package config defines pipeline configuration and its loading hooks.
//
// Conventions:
//   - Defaults live in New; Load layers a YAML file and env vars on top.
//   - Validation errors wrap ErrInvalidConfig, loader failures wrap ErrLoadConfig.
package config

import (
	"path/filepath"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Serve keeps the process alive after the batch run and exposes the read API.
	Serve bool `koanf:"serve"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding input files.
	DataDir string `koanf:"data_dir"`

	// PetitionGlob matches the yearly petition exports inside DataDir.
	PetitionGlob string `koanf:"petition_glob"`

	// OPTPath, CPTPath and Fortune500Path locate the employer lists. Relative
	// paths resolve against DataDir. Fortune500Path may be empty.
	OPTPath        string `koanf:"opt_path"`
	CPTPath        string `koanf:"cpt_path"`
	Fortune500Path string `koanf:"fortune500_path"`

	// OutputDir is where summaries are written. Relative output paths resolve
	// against it. Empty FlexibilityPath or ManifestPath disables that output.
	OutputDir       string `koanf:"output_dir"`
	YearSummaryPath string `koanf:"year_summary_path"`
	SectorPath      string `koanf:"sector_summary_path"`
	FlexibilityPath string `koanf:"flexibility_path"`
	ManifestPath    string `koanf:"manifest_path"`

	// Elasticity is the constant fee elasticity applied to every year and sector.
	Elasticity float64 `koanf:"elasticity"`

	// BaselineFee and TargetFee are in USD. BaselineFee must be positive.
	BaselineFee float64 `koanf:"baseline_fee"`
	TargetFee   float64 `koanf:"target_fee"`

	// IncludeListingOnly also emits employers that appear only in the lists.
	IncludeListingOnly bool `koanf:"include_listing_only"`

	// TopEmployers is the size of the console ranking; MaxTopEmployers caps
	// GET /employers?limit.
	TopEmployers    int `koanf:"top_employers"`
	MaxTopEmployers int `koanf:"max_top_employers"`

	// Report prints the console summary after a run.
	Report bool `koanf:"report"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Serve:           false,
		Addr:            ":9080",
		DataDir:         "data",
		PetitionGlob:    "h1b_datahubexport-*.csv",
		OPTPath:         "opt_employers_scraped.csv",
		CPTPath:         "cpt_employers_day1cptuniversities_bs4.csv",
		Fortune500Path:  "",
		OutputDir:       "out",
		YearSummaryPath: "year_summary.csv",
		SectorPath:      "sector_summary.csv",
		FlexibilityPath: "flexibility_projection.csv",
		ManifestPath:    "run_manifest.yaml",
		Elasticity:      -0.3,
		BaselineFee:     25_000,
		TargetFee:       100_000,
		TopEmployers:    10,
		MaxTopEmployers: 100,
		Report:          true,
	}
}

// InputPath resolves p against DataDir unless it is empty or absolute.
func (c *Config) InputPath(p string) string {
	return resolve(c.DataDir, p)
}

// OutputPath resolves p against OutputDir unless it is empty or absolute.
func (c *Config) OutputPath(p string) string {
	return resolve(c.OutputDir, p)
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
