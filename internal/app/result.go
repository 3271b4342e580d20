package service

import (
	"time"

	"github.com/okian/feeshock/internal/adapters/export"
	"github.com/okian/feeshock/internal/adapters/ingest"
	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/internal/domain/normalize"
)

// Result describes one completed run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Params     elasticity.Params

	Files       []ingest.FileStat
	Petitions   int // petition rows after normalization
	Listings    int // listing rows after normalization
	Skipped     normalize.Skips
	Employers   int
	ListingOnly int

	Years        []model.YearSummary
	Sectors      []model.SectorSummary
	Flexibility  []model.FlexibilityProjection
	TopEmployers []model.EmployerProfile
	Outputs      []export.Output
}

// Duration is the wall time of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Totals sums baseline and projected applications over every year.
func (r *Result) Totals() (baseline, projected float64) {
	for _, y := range r.Years {
		baseline += float64(y.Applications)
		projected += y.ProjectedApplications
	}
	return baseline, projected
}

// ChangePct is the realized change over every year, after clamping.
func (r *Result) ChangePct() float64 {
	return elasticity.ChangePct(r.Totals())
}

// Impact classifies the scenario's change.
func (r *Result) Impact() elasticity.Impact {
	return r.Params.Impact()
}

func (r *Result) manifest() export.Manifest {
	inputs := make([]export.Input, 0, len(r.Files))
	for _, f := range r.Files {
		inputs = append(inputs, export.Input{
			Path:     f.Path,
			Kind:     f.Kind,
			Year:     f.Year,
			Encoding: f.Encoding,
			Rows:     f.Rows,
			Dropped:  f.Dropped,
			Warnings: f.Warnings,
		})
	}
	return export.Manifest{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Params:     r.Params,
		ChangePct:  r.Params.ChangePct(),
		Impact:     string(r.Impact()),
		Inputs:     inputs,
		Skipped:    r.Skipped,
		Counts: export.Counts{
			Petitions:   r.Petitions,
			Listings:    r.Listings,
			Employers:   r.Employers,
			ListingOnly: r.ListingOnly,
			Years:       len(r.Years),
			Sectors:     len(r.Sectors),
		},
		Outputs: r.Outputs,
	}
}
