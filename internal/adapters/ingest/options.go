package ingest

import "github.com/okian/feeshock/pkg/logger"

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithLogger sets the logger used for per-file warnings.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTruthyMarks replaces the values that mark an employer as friendly in a
// listing's friendliness column. Matching ignores case and surrounding space.
func WithTruthyMarks(marks ...string) Option {
	return func(r *Reader) {
		if len(marks) == 0 {
			return
		}
		r.truthy = make(map[string]struct{}, len(marks))
		for _, m := range marks {
			r.truthy[normalizeMark(m)] = struct{}{}
		}
	}
}
