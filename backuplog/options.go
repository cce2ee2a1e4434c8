package backuplog

import "log/slog"

const (
	// DefaultDir is where CrashPlan writes its logs.
	DefaultDir = "/usr/local/crashplan/log"

	// FilePattern selects backup logs inside the log directory.
	FilePattern = "backup_files.log.*"
)

// Option configures Open.
type Option func(*config)

type config struct {
	file    string
	dir     string
	pattern string
	logger  *slog.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		dir:     DefaultDir,
		pattern: FilePattern,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithFile reads exactly one log file and skips discovery.
func WithFile(path string) Option {
	return func(c *config) {
		c.file = path
	}
}

// WithDir sets the directory searched for backup logs.
func WithDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithPattern overrides FilePattern for discovery.
func WithPattern(pattern string) Option {
	return func(c *config) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}

// WithLogger sets the logger for discovery and parse summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
