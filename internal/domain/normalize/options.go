package normalize

import "strings"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithPlaceholders adds values that are treated as a missing employer name.
// Matching is case-insensitive on the trimmed raw value.
func WithPlaceholders(values ...string) Option {
	return func(n *Normalizer) {
		for _, v := range values {
			n.placeholders[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
		}
	}
}
