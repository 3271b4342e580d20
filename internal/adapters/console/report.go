// Package console renders a run summary as terminal tables.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
)

const defaultTopSectors = 5

// Report is what the console summary shows.
type Report struct {
	RunID        string
	Duration     time.Duration
	Params       elasticity.Params
	Employers    int
	Skipped      int
	Years        []model.YearSummary
	Sectors      []model.SectorSummary
	TopEmployers []model.EmployerProfile
}

// Reporter writes reports to one output.
type Reporter struct {
	out        io.Writer
	renderer   *lipgloss.Renderer
	topSectors int
}

// NewReporter creates a Reporter for out. Colors are used only when out is a
// terminal.
func NewReporter(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:        out,
		renderer:   lipgloss.NewRenderer(out),
		topSectors: defaultTopSectors,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Print renders rep to the output.
func (r *Reporter) Print(rep Report) error {
	_, err := fmt.Fprintln(r.out, r.Render(rep))
	return err
}

// Render returns rep as a block of text.
func (r *Reporter) Render(rep Report) string {
	title := r.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("H-1B FEE SHOCK · " + rep.RunID)

	p := rep.Params
	impact := p.Impact()
	params := r.renderer.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(fmt.Sprintf("fee $%s → $%s · elasticity %.2f · change %+.1f%% · %s · %d employers · %d rows skipped · %s",
			money(p.BaselineFee), money(p.TargetFee), p.Elasticity, p.ChangePct(),
			r.impactStyle(impact).Render(strings.ToUpper(string(impact))),
			rep.Employers, rep.Skipped, rep.Duration.Round(time.Millisecond)))

	blocks := []string{title, params, r.yearTable(rep.Years)}
	if len(rep.Sectors) > 0 {
		blocks = append(blocks, r.sectorTable(rep.Sectors))
	}
	if len(rep.TopEmployers) > 0 {
		blocks = append(blocks, r.employerTable(rep.TopEmployers))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (r *Reporter) newTable(headers ...string) *table.Table {
	header := r.renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := r.renderer.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.renderer.NewStyle().Foreground(lipgloss.Color("#444444"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func (r *Reporter) yearTable(years []model.YearSummary) string {
	t := r.newTable("Year", "Approvals", "Denials", "Applications", "Projected", "Change")
	for _, y := range years {
		t.Row(
			strconv.Itoa(y.Year),
			count(y.Approvals),
			count(y.Denials),
			count(y.Applications),
			fmt.Sprintf("%.0f", y.ProjectedApplications),
			fmt.Sprintf("%+.1f%%", y.ChangePct),
		)
	}
	return t.String()
}

func (r *Reporter) sectorTable(sectors []model.SectorSummary) string {
	t := r.newTable("Sector", "Employers", "Approvals", "OPT", "CPT", "F500", "Flex", "Adaptive")
	for _, s := range sectors[:min(r.topSectors, len(sectors))] {
		t.Row(
			s.Sector,
			strconv.Itoa(s.Employers),
			count(s.TotalApprovals),
			pct(s.OPTRate),
			pct(s.CPTRate),
			pct(s.Fortune500Rate),
			fmt.Sprintf("%.2f", s.AvgFlexibilityIndex),
			fmt.Sprintf("%.2f", s.AdaptiveScore),
		)
	}
	return t.String()
}

func (r *Reporter) employerTable(profiles []model.EmployerProfile) string {
	t := r.newTable("#", "Employer", "Sector", "Approvals", "Flex")
	for i, p := range profiles {
		t.Row(strconv.Itoa(i+1), p.Name, p.Sector, count(p.TotalApprovals), strconv.Itoa(p.FlexibilityIndex))
	}
	return t.String()
}

func (r *Reporter) impactStyle(i elasticity.Impact) lipgloss.Style {
	color := "#5FD787"
	switch i {
	case elasticity.ImpactModerate:
		color = "#FFD75F"
	case elasticity.ImpactSevere:
		color = "#FF6B6B"
	}
	return r.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// count formats n with thousands separators.
func count(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func money(f float64) string {
	return count(int64(f))
}

func pct(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}
