package dedupe

// Option applies a configuration option to the in-memory memo.
type Option func(*inMemoryMemo)

// WithMaxSize sets the maximum number of assessments kept in memory.
// Values <= 0 are ignored.
func WithMaxSize(maxSize int) Option {
	return func(m *inMemoryMemo) {
		if maxSize > 0 {
			m.maxSize = maxSize
		}
	}
}
