// Package repository holds the results of the last completed pipeline run for
// the read API.
package repository

import (
	"context"
	"time"

	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
)

// Snapshot is everything one run produced that the API serves.
type Snapshot struct {
	RunID       string
	CompletedAt time.Time
	Params      elasticity.Params
	Years       []model.YearSummary
	Sectors     []model.SectorSummary
	Profiles    []model.EmployerProfile
}

// Entry is a ranked employer row.
type Entry struct {
	Rank int `json:"rank"`
	model.EmployerProfile
}

// Store provides access to the last completed run.
type Store interface {
	// Replace swaps in the results of a newer run.
	Replace(ctx context.Context, snap Snapshot) error

	// Snapshot returns the current run. Returns ErrNoSnapshot before the first Replace.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Employer returns the ranked profile for a raw or normalized name.
	// Returns ErrNotFound if the employer is unknown.
	Employer(ctx context.Context, name string) (Entry, error)

	// TopN returns the top-N employers ordered by approvals desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of employers in the current run.
	Count(ctx context.Context) int
}
