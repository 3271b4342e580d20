package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/pkg/logger"
)

// KindPetitions labels petition files in FileStat.
const KindPetitions = "petitions"

// h1b_datahubexport-2019.csv -> 2019
var fileYear = regexp.MustCompile(`(?i)-(\d{4})\.csv$`)

// First digit run of a year cell: "2019", "FY19", "FY2019-20", "2019.0".
var cellYear = regexp.MustCompile(`\d+`)

// Accepted fiscal years; two-digit years are read as 20YY.
const (
	minYear = 1900
	maxYear = 2100
)

// Column aliases, compared after columnKey normalization.
var (
	employerColumns     = []string{"Employer", "Employer Name", "EMPLOYER_NAME", "Employer (Petitioner) Name"}
	approvalsColumns    = []string{"Approvals", "Total Approvals"}
	denialsColumns      = []string{"Denials", "Total Denials"}
	initialApprovals    = []string{"Initial Approval"}
	continuingApprovals = []string{"Continuing Approval"}
	initialDenials      = []string{"Initial Denial"}
	continuingDenials   = []string{"Continuing Denial"}
	naicsColumns        = []string{"NAICS", "Industry (NAICS) Code", "NAICS Code"}
	yearColumns         = []string{"Year", "Fiscal Year"}
)

// Petitions reads every file in dir matching pattern, in name order.
// No match is ErrMissingInputFile.
func (r *Reader) Petitions(ctx context.Context, dir, pattern string) ([]model.PetitionRecord, []FileStat, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: no file matches %s", ErrMissingInputFile, filepath.Join(dir, pattern))
	}
	sort.Strings(paths)

	var (
		records []model.PetitionRecord
		stats   = make([]FileStat, 0, len(paths))
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		recs, stat, err := r.PetitionFile(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, recs...)
		stats = append(stats, stat)
	}
	return records, stats, nil
}

// PetitionFile reads one yearly petition export. The year comes from the
// file name's -YYYY.csv suffix, else from a Year or Fiscal Year column.
// Approvals come from an Approvals column or from the sum of initial and
// continuing approvals; denials likewise. Missing denials read as zero.
func (r *Reader) PetitionFile(ctx context.Context, path string) ([]model.PetitionRecord, FileStat, error) {
	stat := FileStat{Path: path, Kind: KindPetitions}

	rows, enc, err := readTable(path)
	if err != nil {
		return nil, stat, err
	}
	stat.Encoding = enc
	if len(rows) == 0 {
		return nil, stat, &SchemaError{Path: path, Column: "Employer"}
	}
	h := newHeader(rows[0])

	employerCol := h.find(employerColumns...)
	if employerCol < 0 {
		return nil, stat, &SchemaError{Path: path, Column: "Employer"}
	}

	approvals, ok := countColumn(h, approvalsColumns, initialApprovals, continuingApprovals)
	if !ok {
		return nil, stat, &SchemaError{Path: path, Column: "Approvals"}
	}
	denials, ok := countColumn(h, denialsColumns, initialDenials, continuingDenials)
	if !ok {
		stat.Warnings = append(stat.Warnings, "no denials column, denials read as zero")
		r.log().Warn(ctx, "denials column not found",
			logger.String("path", path),
		)
	}

	year, yearCol := 0, -1
	if m := fileYear.FindStringSubmatch(filepath.Base(path)); m != nil {
		year, _ = strconv.Atoi(m[1])
		stat.Year = year
	} else if yearCol = h.find(yearColumns...); yearCol < 0 {
		return nil, stat, &SchemaError{Path: path, Column: "Year"}
	}
	naicsCol := h.find(naicsColumns...)

	records := make([]model.PetitionRecord, 0, len(rows)-1)
	badYears := 0
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := model.PetitionRecord{
			Year:      year,
			Employer:  cell(row, employerCol),
			NAICS:     cell(row, naicsCol),
			Approvals: approvals(row),
			Denials:   denials(row),
			Source:    path,
		}
		if yearCol >= 0 {
			y, ok := parseYear(cell(row, yearCol))
			if !ok {
				stat.Dropped++
				badYears++
				continue
			}
			rec.Year = y
		}
		records = append(records, rec)
	}
	if badYears > 0 {
		stat.Warnings = append(stat.Warnings, fmt.Sprintf("%d rows without a usable year dropped", badYears))
		r.log().Warn(ctx, "rows without a usable year dropped",
			logger.String("path", path),
			logger.Int("rows", badYears),
		)
	}
	stat.Rows = len(records)
	return records, stat, nil
}

// parseYear reads a fiscal year cell. Two-digit years such as FY19 expand to
// 2019; anything outside [minYear, maxYear] is rejected.
func parseYear(s string) (int, bool) {
	digits := cellYear.FindString(s)
	var y int
	switch len(digits) {
	case 2:
		n, _ := strconv.Atoi(digits)
		y = 2000 + n
	case 4:
		y, _ = strconv.Atoi(digits)
	default:
		return 0, false
	}
	if y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}

// countColumn builds a row reader for a count that is either a single column
// or a sum of initial and continuing columns. ok is false when none exist;
// the returned func then reads zero.
func countColumn(h header, direct, initial, continuing []string) (func([]string) int64, bool) {
	if i := h.find(direct...); i >= 0 {
		return func(row []string) int64 { return number(cell(row, i)) }, true
	}
	ii := h.findContaining(initial...)
	ci := h.findContaining(continuing...)
	if ii < 0 && ci < 0 {
		return func([]string) int64 { return 0 }, false
	}
	return func(row []string) int64 {
		return number(cell(row, ii)) + number(cell(row, ci))
	}, true
}
