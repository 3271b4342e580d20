// Package merge joins normalized petition records and employer listings into
// one profile per employer key.
package merge

import (
	"sort"

	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/internal/domain/sector"
)

// Result is the output of Merge.
type Result struct {
	// Profiles is sorted by key with one row per key.
	Profiles []model.EmployerProfile

	// Distinct keys seen per side and keys found only in the lists.
	PetitionKeys int
	ListingKeys  int
	ListingOnly  int
}

type merger struct {
	listingOnly bool
	classify    func(string) string
}

type petitionAgg struct {
	name      string
	nameYear  int
	naics     string
	naicsYear int
	approvals int64
	denials   int64
}

type flags struct {
	name       string
	opt        bool
	cpt        bool
	fortune500 bool
}

// Merge joins petitions and listings on their normalized keys. Records must
// already carry a Key. Duplicate petition keys are summed and duplicate
// listings OR their flags. Merge does not modify its inputs.
func Merge(petitions []model.PetitionRecord, listings []model.EmployerListing, opts ...Option) Result {
	m := &merger{classify: sector.Classify}
	for _, opt := range opts {
		opt(m)
	}

	byKey := make(map[string]*petitionAgg)
	for _, p := range petitions {
		if p.Key == "" {
			continue
		}
		a, ok := byKey[p.Key]
		if !ok {
			a = &petitionAgg{nameYear: p.Year, name: p.Employer}
			byKey[p.Key] = a
		}
		a.approvals += p.Approvals
		a.denials += p.Denials
		if p.Year > a.nameYear {
			a.name, a.nameYear = p.Employer, p.Year
		}
		if p.NAICS != "" && (a.naics == "" || p.Year > a.naicsYear) {
			a.naics, a.naicsYear = p.NAICS, p.Year
		}
	}

	listed := make(map[string]*flags)
	for _, l := range listings {
		if l.Key == "" {
			continue
		}
		f, ok := listed[l.Key]
		if !ok {
			f = &flags{name: l.Employer}
			listed[l.Key] = f
		}
		switch l.List {
		case model.ListOPT:
			f.opt = true
		case model.ListCPT:
			f.cpt = true
		case model.ListFortune500:
			f.fortune500 = true
		}
	}

	res := Result{PetitionKeys: len(byKey), ListingKeys: len(listed)}
	res.Profiles = make([]model.EmployerProfile, 0, len(byKey))

	for key, a := range byKey {
		p := model.EmployerProfile{
			Key:            key,
			Name:           a.name,
			NAICS:          a.naics,
			Sector:         m.classify(a.naics),
			TotalApprovals: a.approvals,
			TotalDenials:   a.denials,
		}
		if f, ok := listed[key]; ok {
			applyFlags(&p, f)
		}
		res.Profiles = append(res.Profiles, p)
	}

	for key, f := range listed {
		if _, ok := byKey[key]; ok {
			continue
		}
		res.ListingOnly++
		if !m.listingOnly {
			continue
		}
		p := model.EmployerProfile{Key: key, Name: f.name, Sector: m.classify("")}
		applyFlags(&p, f)
		res.Profiles = append(res.Profiles, p)
	}

	sort.Slice(res.Profiles, func(i, j int) bool {
		return res.Profiles[i].Key < res.Profiles[j].Key
	})
	return res
}

func applyFlags(p *model.EmployerProfile, f *flags) {
	p.IsOPTFriendly = f.opt
	p.IsCPTFriendly = f.cpt
	p.IsFortune500 = f.fortune500
	p.FlexibilityIndex = model.FlexibilityIndexOf(f.opt, f.cpt)
}
