package crashplanfs

import (
	"log/slog"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// Option configures New.
type Option func(*config)

type config struct {
	root        string
	logFile     string
	logDir      string
	create      bool
	area        core.TransferArea
	preferLocal bool
	localRoot   string
	tempDir     string
	logger      *slog.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{root: "/"}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithRoot exposes the subtree at root of the backup as the view root.
// The default is "/".
func WithRoot(root string) Option {
	return func(c *config) {
		if root != "" {
			c.root = root
		}
	}
}

// WithLogFile reads exactly one backup log instead of discovering them.
func WithLogFile(path string) Option {
	return func(c *config) {
		c.logFile = path
	}
}

// WithLogDir sets the directory searched for backup_files.log.* files.
// The default is backuplog.DefaultDir.
func WithLogDir(dir string) Option {
	return func(c *config) {
		c.logDir = dir
	}
}

// WithCreate creates the root in the transfer area when it does not exist
// instead of failing.
func WithCreate(create bool) Option {
	return func(c *config) {
		c.create = create
	}
}

// WithTransferArea stages files in area. The caller keeps ownership: Close
// does not close it.
func WithTransferArea(area core.TransferArea) Option {
	return func(c *config) {
		c.area = area
	}
}

// WithPreferLocal lets strictly newer staged entries shadow the log in Stat
// and adds staged children to ReadDir.
func WithPreferLocal(prefer bool) Option {
	return func(c *config) {
		c.preferLocal = prefer
	}
}

// WithLocalRoot names a host directory that may already mirror the backed-up
// tree. When no transfer area is given and the directory contains the
// common parent of the logged paths, it is used as the transfer area.
func WithLocalRoot(dir string) Option {
	return func(c *config) {
		c.localRoot = dir
	}
}

// WithTempDir sets where the ephemeral transfer area is created when one is
// needed. The default is os.TempDir.
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
