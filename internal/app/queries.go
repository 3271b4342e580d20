package service

import (
	"context"

	"github.com/okian/feeshock/internal/adapters/repository"
	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/internal/domain/summary"
	"github.com/okian/feeshock/pkg/metrics"
)

// Years returns the year summary of the last completed run.
func (s *Service) Years(ctx context.Context) ([]model.YearSummary, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Years, nil
}

// Sectors returns the sector summary of the last completed run.
func (s *Service) Sectors(ctx context.Context) ([]model.SectorSummary, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sectors, nil
}

// Params returns the parameters the last completed run projected with.
func (s *Service) Params(ctx context.Context) (elasticity.Params, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return elasticity.Params{}, err
	}
	return snap.Params, nil
}

// TopEmployers returns the n employers with the most approvals.
func (s *Service) TopEmployers(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Employer looks up one employer by any spelling of its name.
func (s *Service) Employer(ctx context.Context, name string) (repository.Entry, error) {
	return s.store.Employer(ctx, name)
}

// Simulate reprojects the stored yearly baselines under p without touching
// the stored results or the outputs.
func (s *Service) Simulate(ctx context.Context, p elasticity.Params) ([]model.YearSummary, error) {
	pr, err := elasticity.NewProjector(p)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordSimulation()
	return summary.Reproject(snap.Years, pr), nil
}
