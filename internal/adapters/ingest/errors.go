package ingest

import (
	"errors"
	"fmt"
)

// Sentinel kinds for ingestion failures. Both abort the run.
var (
	ErrMissingInputFile = errors.New("missing input file")
	ErrSchemaMismatch   = errors.New("schema mismatch")
)

// SchemaError names the required column a file lacks.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s: required column %q not found", ErrSchemaMismatch, e.Path, e.Column)
}

// Unwrap lets errors.Is match ErrSchemaMismatch.
func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}
