package merge

// Option applies a configuration option to a merge.
type Option func(*merger)

// WithListingOnly also emits employers that appear on a list but filed no
// petitions. They carry zero totals and the Other sector.
func WithListingOnly(enabled bool) Option {
	return func(m *merger) {
		m.listingOnly = enabled
	}
}

// WithClassifier replaces the NAICS to sector mapping.
func WithClassifier(fn func(naics string) string) Option {
	return func(m *merger) {
		if fn != nil {
			m.classify = fn
		}
	}
}
