package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithKeyFunc sets how lookup names are turned into employer keys. It should
// be the same function that keyed the stored profiles.
func WithKeyFunc(fn func(name string) (string, error)) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.keyOf = fn
		}
	}
}
