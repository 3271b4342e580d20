package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/feeshock/internal/domain/elasticity"
)

// Manifest records what one pipeline run read, dropped and wrote.
type Manifest struct {
	RunID      string            `yaml:"run_id"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Params     elasticity.Params `yaml:"params"`
	ChangePct  float64           `yaml:"change_pct"`
	Impact     string            `yaml:"impact"`
	Inputs     []Input           `yaml:"inputs"`
	Skipped    map[string]int    `yaml:"skipped,omitempty"`
	Counts     Counts            `yaml:"counts"`
	Outputs    []Output          `yaml:"outputs"`
}

// Input is one file the run read.
type Input struct {
	Path     string   `yaml:"path"`
	Kind     string   `yaml:"kind"`
	Year     int      `yaml:"year,omitempty"`
	Encoding string   `yaml:"encoding"`
	Rows     int      `yaml:"rows"`
	Dropped  int      `yaml:"dropped,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
}

// Counts are the sizes of the run's intermediate tables.
type Counts struct {
	Petitions   int `yaml:"petitions"`
	Listings    int `yaml:"listings"`
	Employers   int `yaml:"employers"`
	ListingOnly int `yaml:"listing_only"`
	Years       int `yaml:"years"`
	Sectors     int `yaml:"sectors"`
}

// Output is one file the run wrote.
type Output struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
	Rows int    `yaml:"rows"`
}

// Manifest writes m as YAML.
func (w *Writer) Manifest(path string, m Manifest) error {
	return w.atomic(path, func(out io.Writer) error {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	})
}
