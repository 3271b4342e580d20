package model

// EmployerProfile is the merged per-employer row.
// FlexibilityIndex always equals the number of true flags among OPT and CPT.
type EmployerProfile struct {
	Key              string `json:"key" yaml:"key"`
	Name             string `json:"name" yaml:"name"`
	IsOPTFriendly    bool   `json:"is_opt_friendly" yaml:"is_opt_friendly"`
	IsCPTFriendly    bool   `json:"is_cpt_friendly" yaml:"is_cpt_friendly"`
	IsFortune500     bool   `json:"is_fortune500" yaml:"is_fortune500"`
	FlexibilityIndex int    `json:"flexibility_index" yaml:"flexibility_index"`
	NAICS            string `json:"naics,omitempty" yaml:"naics,omitempty"`
	Sector           string `json:"sector" yaml:"sector"`
	TotalApprovals   int64  `json:"total_approvals" yaml:"total_approvals"`
	TotalDenials     int64  `json:"total_denials" yaml:"total_denials"`
}

// FlexibilityIndexOf counts OPT and CPT memberships.
func FlexibilityIndexOf(opt, cpt bool) int {
	n := 0
	if opt {
		n++
	}
	if cpt {
		n++
	}
	return n
}

// YearSummary aggregates one petition year and its projection at the target fee.
type YearSummary struct {
	Year                  int     `json:"year"`
	Approvals             int64   `json:"approvals"`
	Denials               int64   `json:"denials"`
	Applications          int64   `json:"applications"`
	ProjectedApplications float64 `json:"projected_applications"`
	ChangePct             float64 `json:"change_pct"`
}

// SectorSummary aggregates employer profiles of one sector.
type SectorSummary struct {
	Sector              string  `json:"sector"`
	Employers           int     `json:"employers"`
	TotalApprovals      int64   `json:"total_approvals"`
	OPTRate             float64 `json:"opt_rate"`
	CPTRate             float64 `json:"cpt_rate"`
	Fortune500Rate      float64 `json:"fortune500_rate"`
	AvgFlexibilityIndex float64 `json:"avg_flexibility_index"`
	AdaptiveScore       float64 `json:"adaptive_score"`
}

// FlexibilityProjection is the projection for one (year, flexibility index) cell.
type FlexibilityProjection struct {
	Year                  int     `json:"year"`
	FlexibilityIndex      int     `json:"flexibility_index"`
	Employers             int     `json:"employers"`
	Applications          int64   `json:"applications"`
	ProjectedApplications float64 `json:"projected_applications"`
	ChangePct             float64 `json:"change_pct"`
}
