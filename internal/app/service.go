// Package service runs the fee-shock pipeline and serves its results to the
// HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/feeshock/internal/adapters/export"
	"github.com/okian/feeshock/internal/adapters/ingest"
	"github.com/okian/feeshock/internal/adapters/repository"
	"github.com/okian/feeshock/internal/config"
	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/merge"
	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/internal/domain/normalize"
	"github.com/okian/feeshock/internal/domain/summary"
	"github.com/okian/feeshock/pkg/logger"
	"github.com/okian/feeshock/pkg/metrics"
)

// Pipeline stage names, used in logs and metrics.
const (
	StageIngest    = "ingest"
	StageNormalize = "normalize"
	StageMerge     = "merge"
	StageDerive    = "derive"
	StageExport    = "export"
	StageStore     = "store"
)

// Service executes pipeline runs and answers read queries about the last one.
// Runs are serialized; reads go to the store and never block on a run.
type Service struct {
	runMu sync.Mutex

	// Components
	cfg        *config.Config
	reader     *ingest.Reader
	normalizer *normalize.Normalizer
	writer     *export.Writer
	store      repository.Store

	// State
	mu      sync.RWMutex
	runs    int
	failed  int
	lastRun *Result

	logger logger.Logger
	now    func() time.Time
}

// New constructs a Service. Components not set through options get defaults.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.normalizer == nil {
		s.normalizer = normalize.New()
	}
	if s.reader == nil {
		s.reader = ingest.NewReader()
	}
	if s.writer == nil {
		s.writer = export.NewWriter()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithKeyFunc(s.normalizer.Key))
	}
	return s
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Named("pipeline")
}

// params builds the projection parameters from the config.
func (s *Service) params() elasticity.Params {
	return elasticity.NewParams(
		elasticity.WithElasticity(s.cfg.Elasticity),
		elasticity.WithBaselineFee(s.cfg.BaselineFee),
		elasticity.WithTargetFee(s.cfg.TargetFee),
	)
}

// Run executes ingest, normalize, merge, derive, export and store once.
// A failed run leaves the previous outputs and the stored results untouched,
// except for outputs already renamed into place before the failure.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Params:    s.params(),
	}
	log := s.log().With(logger.String("run_id", res.RunID))

	log.Info(ctx, "pipeline run started",
		logger.Float64("elasticity", res.Params.Elasticity),
		logger.Float64("baselineFee", res.Params.BaselineFee),
		logger.Float64("targetFee", res.Params.TargetFee),
	)

	err := s.run(ctx, log, res)
	res.FinishedAt = s.now()
	durationMs := float64(res.Duration().Milliseconds())

	s.mu.Lock()
	s.runs++
	if err != nil {
		s.failed++
	} else {
		s.lastRun = res
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordRun("failed", durationMs)
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	metrics.RecordRun("success", durationMs)
	baseline, projected := res.Totals()
	metrics.UpdateRunTotals(res.Employers, len(res.Years), len(res.Sectors), baseline, projected, res.ChangePct())
	log.Info(ctx, "pipeline run finished",
		logger.Int("employers", res.Employers),
		logger.Int("years", len(res.Years)),
		logger.Int("sectors", len(res.Sectors)),
		logger.Int("skipped", res.Skipped.Total()),
		logger.Float64("changePct", res.ChangePct()),
		logger.String("impact", string(res.Impact())),
		logger.Int64("durationMs", res.Duration().Milliseconds()),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, res *Result) error {
	projector, err := elasticity.NewProjector(res.Params)
	if err != nil {
		metrics.RecordErrorByComponent("pipeline", "invalid_params")
		return err
	}

	var (
		petitions []model.PetitionRecord
		listings  []model.EmployerListing
		merged    merge.Result
	)

	stages := []struct {
		name string
		fn   func() error
	}{
		{StageIngest, func() (err error) {
			petitions, listings, err = s.ingest(ctx, log, res)
			return err
		}},
		{StageNormalize, func() error {
			petitions, listings = s.normalizeAll(ctx, log, res, petitions, listings)
			return nil
		}},
		{StageMerge, func() error {
			merged = merge.Merge(petitions, listings, merge.WithListingOnly(s.cfg.IncludeListingOnly))
			res.Employers = len(merged.Profiles)
			res.ListingOnly = merged.ListingOnly
			return nil
		}},
		{StageDerive, func() error {
			res.Years = summary.Years(petitions, projector)
			res.Sectors = summary.Sectors(merged.Profiles)
			res.Flexibility = summary.Flexibility(petitions, merged.Profiles, projector)
			res.TopEmployers = summary.TopEmployers(merged.Profiles, s.cfg.TopEmployers)
			return nil
		}},
		{StageExport, func() error {
			return s.export(res)
		}},
		{StageStore, func() error {
			return s.store.Replace(ctx, repository.Snapshot{
				RunID:       res.RunID,
				CompletedAt: s.now(),
				Params:      res.Params,
				Years:       res.Years,
				Sectors:     res.Sectors,
				Profiles:    merged.Profiles,
			})
		}},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := st.fn(); err != nil {
			metrics.RecordErrorByComponent("pipeline", st.name)
			return fmt.Errorf("%s: %w", st.name, err)
		}
		elapsed := time.Since(start)
		metrics.RecordStage(st.name, float64(elapsed.Milliseconds()))
		log.Debug(ctx, "stage finished",
			logger.String("stage", st.name),
			logger.Int64("durationMs", elapsed.Milliseconds()),
		)
	}
	return nil
}

func (s *Service) ingest(ctx context.Context, log logger.Logger, res *Result) ([]model.PetitionRecord, []model.EmployerListing, error) {
	petitions, stats, err := s.reader.Petitions(ctx, s.cfg.DataDir, s.cfg.PetitionGlob)
	if err != nil {
		return nil, nil, err
	}
	for _, st := range stats {
		s.recordFile(ctx, log, st)
	}
	res.Files = append(res.Files, stats...)

	lists := []struct {
		path string
		list model.List
	}{
		{s.cfg.OPTPath, model.ListOPT},
		{s.cfg.CPTPath, model.ListCPT},
		{s.cfg.Fortune500Path, model.ListFortune500},
	}
	var listings []model.EmployerListing
	for _, l := range lists {
		if l.path == "" {
			continue
		}
		rows, st, err := s.reader.Listings(ctx, s.cfg.InputPath(l.path), l.list)
		if err != nil {
			return nil, nil, err
		}
		s.recordFile(ctx, log, st)
		res.Files = append(res.Files, st)
		listings = append(listings, rows...)
	}
	return petitions, listings, nil
}

func (s *Service) recordFile(ctx context.Context, log logger.Logger, st ingest.FileStat) {
	metrics.RecordFileRead(st.Kind)
	metrics.RecordRecordsLoaded(st.Kind, st.Rows)
	log.Info(ctx, "input read",
		logger.String("path", st.Path),
		logger.String("kind", st.Kind),
		logger.String("encoding", st.Encoding),
		logger.Int("rows", st.Rows),
		logger.Int("dropped", st.Dropped),
	)
	for _, w := range st.Warnings {
		log.Warn(ctx, w, logger.String("path", st.Path))
	}
}

func (s *Service) normalizeAll(ctx context.Context, log logger.Logger, res *Result, petitions []model.PetitionRecord, listings []model.EmployerListing) ([]model.PetitionRecord, []model.EmployerListing) {
	petitions, petitionSkips := s.normalizer.Petitions(petitions)
	listings, listingSkips := s.normalizer.Listings(listings)

	res.Skipped = make(normalize.Skips, len(petitionSkips)+len(listingSkips))
	for _, skips := range []normalize.Skips{petitionSkips, listingSkips} {
		for source, n := range skips {
			res.Skipped[source] += n
		}
	}
	for source, n := range res.Skipped {
		metrics.RecordRecordsSkipped(source, n)
		log.Warn(ctx, "rows with unusable employer names skipped",
			logger.String("source", source),
			logger.Int("rows", n),
		)
	}
	res.Petitions = len(petitions)
	res.Listings = len(listings)
	return petitions, listings
}

func (s *Service) export(res *Result) error {
	type output struct {
		kind  string
		path  string
		rows  int
		write func(string) error
	}
	outputs := []output{
		{export.KindYearSummary, s.cfg.YearSummaryPath, len(res.Years), func(p string) error {
			return s.writer.YearSummary(p, res.Years)
		}},
		{export.KindSectorSummary, s.cfg.SectorPath, len(res.Sectors), func(p string) error {
			return s.writer.SectorSummary(p, res.Sectors)
		}},
		{export.KindFlexibility, s.cfg.FlexibilityPath, len(res.Flexibility), func(p string) error {
			return s.writer.Flexibility(p, res.Flexibility)
		}},
	}

	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		path := s.cfg.OutputPath(o.path)
		if err := o.write(path); err != nil {
			return err
		}
		metrics.RecordOutputWritten(o.kind)
		res.Outputs = append(res.Outputs, export.Output{Kind: o.kind, Path: path, Rows: o.rows})
	}

	if s.cfg.ManifestPath == "" {
		return nil
	}
	path := s.cfg.OutputPath(s.cfg.ManifestPath)
	m := res.manifest()
	m.FinishedAt = s.now()
	if err := s.writer.Manifest(path, m); err != nil {
		return err
	}
	metrics.RecordOutputWritten(export.KindManifest)
	res.Outputs = append(res.Outputs, export.Output{Kind: export.KindManifest, Path: path})
	return nil
}

// LastRun returns the most recent successful run, or nil.
func (s *Service) LastRun() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"runs":        s.runs,
		"failedRuns":  s.failed,
		"elasticity":  s.cfg.Elasticity,
		"baselineFee": s.cfg.BaselineFee,
		"targetFee":   s.cfg.TargetFee,
	}
	if r := s.lastRun; r != nil {
		baseline, projected := r.Totals()
		stats["lastRunId"] = r.RunID
		stats["lastRunAt"] = r.FinishedAt.UTC().Format(time.RFC3339)
		stats["lastRunDurationMs"] = r.Duration().Milliseconds()
		stats["employers"] = r.Employers
		stats["years"] = len(r.Years)
		stats["sectors"] = len(r.Sectors)
		stats["skippedRows"] = r.Skipped.Total()
		stats["baselineApplications"] = baseline
		stats["projectedApplications"] = projected
		stats["impact"] = string(r.Impact())
	}
	return stats
}
