// Package normalize turns raw employer names into canonical join keys.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/feeshock/internal/domain/model"
)

// Values scraped tables and pandas exports use for "no name".
var defaultPlaceholders = []string{"", "nan", "n/a", "null", "none", "-", "--", "?"}

// Normalizer maps employer names to keys. Two names that differ only in case,
// whitespace, punctuation or diacritics map to the same key. It is safe for
// concurrent use.
type Normalizer struct {
	placeholders map[string]struct{}
}

// New creates a Normalizer with the default placeholder set.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{placeholders: make(map[string]struct{}, len(defaultPlaceholders))}
	for _, p := range defaultPlaceholders {
		n.placeholders[p] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Key returns the canonical key for raw: diacritics stripped, case folded and
// everything but letters and digits removed.
func (n *Normalizer) Key(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if _, ok := n.placeholders[strings.ToLower(trimmed)]; ok {
		return "", fmt.Errorf("%w: %q", ErrUnnormalizable, raw)
	}

	// Transformers and casers carry state, so each call builds its own.
	stripped, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnnormalizable, raw, err)
	}
	folded := cases.Fold().String(stripped)

	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, folded)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrUnnormalizable, raw)
	}
	return key, nil
}

// Display returns a readable form of raw: NFC, trimmed, inner whitespace collapsed.
func (n *Normalizer) Display(raw string) string {
	return strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
}

// Skips counts dropped rows per source.
type Skips map[string]int

// Total sums skips over every source.
func (s Skips) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Petitions sets Key on every record it can normalize and drops the rest.
// Dropped rows are counted under each record's Source.
func (n *Normalizer) Petitions(in []model.PetitionRecord) ([]model.PetitionRecord, Skips) {
	out := make([]model.PetitionRecord, 0, len(in))
	skips := make(Skips)
	for _, r := range in {
		key, err := n.Key(r.Employer)
		if err != nil {
			skips[r.Source]++
			continue
		}
		r.Key = key
		r.Employer = n.Display(r.Employer)
		out = append(out, r)
	}
	return out, skips
}

// Listings sets Key on every listing it can normalize and drops the rest.
func (n *Normalizer) Listings(in []model.EmployerListing) ([]model.EmployerListing, Skips) {
	out := make([]model.EmployerListing, 0, len(in))
	skips := make(Skips)
	for _, l := range in {
		key, err := n.Key(l.Employer)
		if err != nil {
			skips[l.Source]++
			continue
		}
		l.Key = key
		l.Employer = n.Display(l.Employer)
		out = append(out, l)
	}
	return out, skips
}
