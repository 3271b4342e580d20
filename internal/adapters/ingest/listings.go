package ingest

import (
	"context"

	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/pkg/logger"
)

var (
	listingEmployerColumns = []string{"Employer_std", "Employer", "Company", "Company Name", "Employer Name"}
	listColumns            = []string{"List", "List Type", "Program"}
	friendlyColumns        = []string{"CPT Friendly", "OPT Friendly", "Friendly"}
)

// Listings reads an employer list. Rows belong to list unless the file has
// a List column, in which case each row names its own list and rows with an
// unknown label are dropped. When the file has a friendliness column only rows
// marked with a truthy value are kept.
func (r *Reader) Listings(ctx context.Context, path string, list model.List) ([]model.EmployerListing, FileStat, error) {
	stat := FileStat{Path: path, Kind: string(list)}

	rows, enc, err := readTable(path)
	if err != nil {
		return nil, stat, err
	}
	stat.Encoding = enc
	if len(rows) == 0 {
		return nil, stat, &SchemaError{Path: path, Column: "Employer"}
	}
	h := newHeader(rows[0])

	employerCol := h.find(listingEmployerColumns...)
	if employerCol < 0 {
		employerCol = h.findContaining("company")
	}
	if employerCol < 0 {
		return nil, stat, &SchemaError{Path: path, Column: "Employer"}
	}
	listCol := h.find(listColumns...)
	friendlyCol := h.find(friendlyColumns...)

	listings := make([]model.EmployerListing, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowList := list
		if listCol >= 0 {
			l, ok := model.ParseList(cell(row, listCol))
			if !ok {
				stat.Dropped++
				continue
			}
			rowList = l
		}
		if friendlyCol >= 0 && !r.isTruthy(cell(row, friendlyCol)) {
			stat.Dropped++
			continue
		}
		listings = append(listings, model.EmployerListing{
			Employer: cell(row, employerCol),
			List:     rowList,
			Source:   path,
		})
	}
	stat.Rows = len(listings)

	r.log().Debug(ctx, "employer list read",
		logger.String("path", path),
		logger.String("list", string(list)),
		logger.Int("rows", stat.Rows),
		logger.Int("dropped", stat.Dropped),
	)
	return listings, stat, nil
}
