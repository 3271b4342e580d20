// Package ingest reads the petition exports and employer lists from disk.
package ingest

import (
	"strings"

	"github.com/okian/feeshock/pkg/logger"
)

var defaultTruthyMarks = []string{"✓", "✔", "yes", "true", "y", "x", "1"}

// FileStat describes one file read by the Reader.
type FileStat struct {
	Path     string
	Kind     string
	Year     int
	Encoding string
	Rows     int
	// Dropped counts rows the file's own columns filtered out: unknown list
	// labels and rows not marked friendly.
	Dropped  int
	Warnings []string
}

// Reader parses input files into records. It holds no state between calls.
type Reader struct {
	logger logger.Logger
	truthy map[string]struct{}
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{truthy: make(map[string]struct{}, len(defaultTruthyMarks))}
	for _, m := range defaultTruthyMarks {
		r.truthy[normalizeMark(m)] = struct{}{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) log() logger.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logger.Named("ingest")
}

func (r *Reader) isTruthy(v string) bool {
	_, ok := r.truthy[normalizeMark(v)]
	return ok
}

func normalizeMark(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
