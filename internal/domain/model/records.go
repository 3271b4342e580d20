// Package model contains the tables passed between pipeline stages.
package model

import "strings"

// List names an employer list an employer can appear on.
type List string

// Known employer lists. Fortune500 is a reference list and never counts
// toward the flexibility index.
const (
	ListOPT        List = "OPT"
	ListCPT        List = "CPT"
	ListFortune500 List = "FORTUNE500"
)

// ParseList maps a free-form list label to a List. The second result is
// false for labels that name no known list.
func ParseList(s string) (List, bool) {
	switch strings.ToUpper(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(s))) {
	case "OPT":
		return ListOPT, true
	case "CPT":
		return ListCPT, true
	case "FORTUNE500", "F500":
		return ListFortune500, true
	}
	return "", false
}

// PetitionRecord is one employer row of a yearly petition export.
// Key is empty until the normalizer has run.
type PetitionRecord struct {
	Year      int
	Employer  string // raw name as it appears in the export
	Key       string // normalized employer key
	NAICS     string
	Approvals int64
	Denials   int64
	Source    string // file the row came from
}

// Applications returns approvals plus denials.
func (r PetitionRecord) Applications() int64 {
	return r.Approvals + r.Denials
}

// EmployerListing is one employer entry of an employer list.
type EmployerListing struct {
	Employer string
	Key      string
	List     List
	Source   string
}
