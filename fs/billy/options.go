package billy

// DefaultTempPattern names ephemeral transfer area directories.
const DefaultTempPattern = "__crashplanfs__*"

// Option configures transfer area creation.
type Option func(*config)

type config struct {
	tempDir string
	pattern string
}

func newConfig(opts ...Option) *config {
	cfg := &config{pattern: DefaultTempPattern}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTempDir sets the parent directory for NewTemp. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// WithPattern sets the os.MkdirTemp pattern used by NewTemp.
func WithPattern(pattern string) Option {
	return func(c *config) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}
