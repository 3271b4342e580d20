package service

import (
	"time"

	"github.com/okian/feeshock/internal/adapters/export"
	"github.com/okian/feeshock/internal/adapters/ingest"
	"github.com/okian/feeshock/internal/adapters/repository"
	"github.com/okian/feeshock/internal/config"
	"github.com/okian/feeshock/internal/domain/normalize"
	"github.com/okian/feeshock/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the run configuration. The default is config.New().
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNormalizer sets the employer name normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithReader sets the input file reader.
func WithReader(r *ingest.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.reader = r
		}
	}
}

// WithWriter sets the output file writer.
func WithWriter(w *export.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithStore sets where completed runs are published.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock replaces time.Now, for deterministic manifests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
