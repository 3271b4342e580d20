// Package summary derives the per-year, per-sector and per-flexibility tables
// from merged employer data.
package summary

import (
	"sort"

	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
)

// Smallest min-max spread used when normalizing sector columns.
const minSpread = 1e-9

// Years totals petitions per year and projects each year's applications.
// The result is ascending and covers every year between the first and last
// one seen; years without rows are zero.
func Years(petitions []model.PetitionRecord, pr *elasticity.Projector) []model.YearSummary {
	if len(petitions) == 0 {
		return []model.YearSummary{}
	}

	totals := make(map[int]*model.YearSummary)
	first, last := petitions[0].Year, petitions[0].Year
	for _, p := range petitions {
		y, ok := totals[p.Year]
		if !ok {
			y = &model.YearSummary{Year: p.Year}
			totals[p.Year] = y
		}
		y.Approvals += p.Approvals
		y.Denials += p.Denials
		first = min(first, p.Year)
		last = max(last, p.Year)
	}

	out := make([]model.YearSummary, 0, last-first+1)
	for year := first; year <= last; year++ {
		y := model.YearSummary{Year: year}
		if t, ok := totals[year]; ok {
			y = *t
		}
		y.Applications = y.Approvals + y.Denials
		y.ProjectedApplications = pr.Project(float64(y.Applications))
		y.ChangePct = elasticity.ChangePct(float64(y.Applications), y.ProjectedApplications)
		out = append(out, y)
	}
	return out
}

// Reproject recomputes the projection of existing year rows with pr.
// years is not modified.
func Reproject(years []model.YearSummary, pr *elasticity.Projector) []model.YearSummary {
	out := make([]model.YearSummary, len(years))
	for i, y := range years {
		y.ProjectedApplications = pr.Project(float64(y.Applications))
		y.ChangePct = elasticity.ChangePct(float64(y.Applications), y.ProjectedApplications)
		out[i] = y
	}
	return out
}

// Sectors rolls profiles up by sector. Rates are shares of the sector's
// employers. AdaptiveScore is the mean of the four rate columns after each is
// min-max scaled across sectors. Rows are ordered by total approvals, highest
// first, then by name.
func Sectors(profiles []model.EmployerProfile) []model.SectorSummary {
	type acc struct {
		employers                    int
		approvals                    int64
		opt, cpt, fortune500, flexes int
	}
	groups := make(map[string]*acc)
	for _, p := range profiles {
		a, ok := groups[p.Sector]
		if !ok {
			a = &acc{}
			groups[p.Sector] = a
		}
		a.employers++
		a.approvals += p.TotalApprovals
		a.flexes += p.FlexibilityIndex
		if p.IsOPTFriendly {
			a.opt++
		}
		if p.IsCPTFriendly {
			a.cpt++
		}
		if p.IsFortune500 {
			a.fortune500++
		}
	}

	out := make([]model.SectorSummary, 0, len(groups))
	for name, a := range groups {
		n := float64(a.employers)
		out = append(out, model.SectorSummary{
			Sector:              name,
			Employers:           a.employers,
			TotalApprovals:      a.approvals,
			OPTRate:             float64(a.opt) / n,
			CPTRate:             float64(a.cpt) / n,
			Fortune500Rate:      float64(a.fortune500) / n,
			AvgFlexibilityIndex: float64(a.flexes) / n,
		})
	}
	scoreSectors(out)

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalApprovals != out[j].TotalApprovals {
			return out[i].TotalApprovals > out[j].TotalApprovals
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

func scoreSectors(rows []model.SectorSummary) {
	if len(rows) == 0 {
		return
	}
	columns := []func(model.SectorSummary) float64{
		func(s model.SectorSummary) float64 { return s.AvgFlexibilityIndex },
		func(s model.SectorSummary) float64 { return s.OPTRate },
		func(s model.SectorSummary) float64 { return s.CPTRate },
		func(s model.SectorSummary) float64 { return s.Fortune500Rate },
	}
	scores := make([]float64, len(rows))
	for _, col := range columns {
		lo, hi := col(rows[0]), col(rows[0])
		for _, r := range rows[1:] {
			lo = min(lo, col(r))
			hi = max(hi, col(r))
		}
		spread := hi - lo
		if spread == 0 {
			spread = minSpread
		}
		for i, r := range rows {
			scores[i] += (col(r) - lo) / spread
		}
	}
	for i := range rows {
		rows[i].AdaptiveScore = scores[i] / float64(len(columns))
	}
}

// Flexibility totals applications per (year, flexibility index) and projects
// each cell. Petitions whose key has no profile are ignored. Rows are ordered
// by year, then index.
func Flexibility(petitions []model.PetitionRecord, profiles []model.EmployerProfile, pr *elasticity.Projector) []model.FlexibilityProjection {
	index := make(map[string]int, len(profiles))
	for _, p := range profiles {
		index[p.Key] = p.FlexibilityIndex
	}

	type cell struct{ year, flex int }
	cells := make(map[cell]*model.FlexibilityProjection)
	employers := make(map[cell]map[string]struct{})
	for _, p := range petitions {
		flex, ok := index[p.Key]
		if !ok {
			continue
		}
		c := cell{p.Year, flex}
		row, ok := cells[c]
		if !ok {
			row = &model.FlexibilityProjection{Year: p.Year, FlexibilityIndex: flex}
			cells[c] = row
			employers[c] = make(map[string]struct{})
		}
		row.Applications += p.Applications()
		employers[c][p.Key] = struct{}{}
	}

	out := make([]model.FlexibilityProjection, 0, len(cells))
	for c, row := range cells {
		row.Employers = len(employers[c])
		row.ProjectedApplications = pr.Project(float64(row.Applications))
		row.ChangePct = elasticity.ChangePct(float64(row.Applications), row.ProjectedApplications)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].FlexibilityIndex < out[j].FlexibilityIndex
	})
	return out
}

// TopEmployers returns up to n profiles with the most approvals, ties broken
// by key. n <= 0 yields an empty slice.
func TopEmployers(profiles []model.EmployerProfile, n int) []model.EmployerProfile {
	if n <= 0 {
		return []model.EmployerProfile{}
	}
	ranked := make([]model.EmployerProfile, len(profiles))
	copy(ranked, profiles)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalApprovals != ranked[j].TotalApprovals {
			return ranked[i].TotalApprovals > ranked[j].TotalApprovals
		}
		return ranked[i].Key < ranked[j].Key
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
