package names

// Option applies a configuration option to the in-memory index.
type Option func(*inMemoryIndex)

// WithCaseInsensitive makes "amy" and "Amy" collide.
func WithCaseInsensitive() Option {
	return func(i *inMemoryIndex) {
		i.fold = true
	}
}
