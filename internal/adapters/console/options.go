package console

// Option applies a configuration option to the Reporter.
type Option func(*Reporter)

// WithTopSectors sets how many sectors the report lists.
func WithTopSectors(n int) Option {
	return func(r *Reporter) {
		if n > 0 {
			r.topSectors = n
		}
	}
}
