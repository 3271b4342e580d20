// Package export writes the derived tables and the run manifest to disk.
// Every file is written to a temporary sibling and renamed into place, so a
// reader never sees a partial file. Concurrent writes to one path are not
// supported.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/feeshock/internal/domain/model"
)

const (
	defaultPrecision = 4
	defaultFileMode  = 0o644
)

// Output kinds, used in the manifest and in metrics labels.
const (
	KindYearSummary   = "year_summary"
	KindSectorSummary = "sector_summary"
	KindFlexibility   = "flexibility_projection"
	KindManifest      = "run_manifest"
)

// Column headers of each CSV output.
var (
	yearHeader   = []string{"year", "approvals", "denials", "applications", "projected_applications", "change_pct"}
	sectorHeader = []string{"sector", "employers", "total_approvals", "opt_rate", "cpt_rate",
		"fortune500_rate", "avg_flexibility_index", "adaptive_score"}
	flexibilityHeader = []string{"year", "flexibility_index", "employers", "applications",
		"projected_applications", "change_pct"}
)

// Writer writes output files.
type Writer struct {
	precision int
	mode      uint32
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{precision: defaultPrecision, mode: defaultFileMode}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// YearSummary writes one row per year.
func (w *Writer) YearSummary(path string, rows []model.YearSummary) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			strconv.FormatInt(r.Approvals, 10),
			strconv.FormatInt(r.Denials, 10),
			strconv.FormatInt(r.Applications, 10),
			w.float(r.ProjectedApplications),
			w.float(r.ChangePct),
		})
	}
	return w.writeCSV(path, yearHeader, records)
}

// SectorSummary writes one row per sector.
func (w *Writer) SectorSummary(path string, rows []model.SectorSummary) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Sector,
			strconv.Itoa(r.Employers),
			strconv.FormatInt(r.TotalApprovals, 10),
			w.float(r.OPTRate),
			w.float(r.CPTRate),
			w.float(r.Fortune500Rate),
			w.float(r.AvgFlexibilityIndex),
			w.float(r.AdaptiveScore),
		})
	}
	return w.writeCSV(path, sectorHeader, records)
}

// Flexibility writes one row per (year, flexibility index).
func (w *Writer) Flexibility(path string, rows []model.FlexibilityProjection) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.FlexibilityIndex),
			strconv.Itoa(r.Employers),
			strconv.FormatInt(r.Applications, 10),
			w.float(r.ProjectedApplications),
			w.float(r.ChangePct),
		})
	}
	return w.writeCSV(path, flexibilityHeader, records)
}

func (w *Writer) float(f float64) string {
	return strconv.FormatFloat(f, 'f', w.precision, 64)
}

func (w *Writer) writeCSV(path string, header []string, records [][]string) error {
	return w.atomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(records); err != nil {
			return err
		}
		return cw.Error()
	})
}

// atomic writes through fill into a temp file next to path and renames it
// over path once fill and the flush succeed.
func (w *Writer) atomic(path string, fill func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = fill(buf); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err = tmp.Chmod(os.FileMode(w.mode)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}
