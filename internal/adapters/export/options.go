package export

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithPrecision sets how many decimals float columns are written with.
func WithPrecision(decimals int) Option {
	return func(w *Writer) {
		if decimals >= 0 {
			w.precision = decimals
		}
	}
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode uint32) Option {
	return func(w *Writer) {
		if mode != 0 {
			w.mode = mode
		}
	}
}
