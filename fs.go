package crashplanfs

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jmgilman/go/crashplanfs/backuplog"
	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/billy"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// FS is the merged view of a backup log and a transfer area.
//
// The index is read-only after New and the view adds no locking of its own,
// so concurrent use is as safe as the transfer area is.
type FS struct {
	index       *backuplog.Index
	area        core.TransferArea
	owned       io.Closer // ephemeral area created by New
	prefix      string
	preferLocal bool
	logger      *slog.Logger
	collection  GCReport

	mu     sync.Mutex
	closed bool
}

// New builds the view.
//
// It loads the backup log, picks a transfer area when none is given, checks
// that the root exists (creating it in the transfer area with WithCreate) and
// collects staged entries that are already backed up. Failures are
// errors.CodeCreateFailed.
func New(opts ...Option) (*FS, error) {
	cfg := newConfig(opts...)

	logOpts := []backuplog.Option{backuplog.WithLogger(cfg.logger)}
	if cfg.logFile != "" {
		logOpts = append(logOpts, backuplog.WithFile(cfg.logFile))
	}
	if cfg.logDir != "" {
		logOpts = append(logOpts, backuplog.WithDir(cfg.logDir))
	}
	index, err := backuplog.Open(logOpts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCreateFailed, "unable to create filesystem")
	}

	return newFS(index, cfg)
}

// NewWithIndex builds the view over an index that is already loaded.
// WithLogFile and WithLogDir are ignored.
func NewWithIndex(index *backuplog.Index, opts ...Option) (*FS, error) {
	return newFS(index, newConfig(opts...))
}

func newFS(index *backuplog.Index, cfg *config) (*FS, error) {
	f := &FS{
		index:       index,
		prefix:      cleanPrefix(cfg.root),
		preferLocal: cfg.preferLocal,
		logger:      cfg.logger,
	}

	f.area = cfg.area
	if f.area == nil {
		area, owned, err := f.selectArea(cfg.localRoot, cfg.tempDir)
		if err != nil {
			return nil, err
		}
		f.area, f.owned = area, owned
	}

	if err := f.ensureRoot(cfg.create); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.collection = f.collect()

	f.logger.Info("crashplan filesystem ready",
		"root", "/"+f.prefix,
		"records", index.Len(),
		"area", f.area.Type().String(),
		"prefer_local", f.preferLocal,
	)
	return f, nil
}

// selectArea uses localRoot when it holds the common parent of the logged
// paths below the root, and an ephemeral area otherwise.
func (f *FS) selectArea(localRoot, tempDir string) (core.TransferArea, io.Closer, error) {
	if localRoot != "" {
		common := f.index.CommonPrefix(f.indexKey("/"))
		if i := strings.LastIndex(common, "/"); i >= 0 {
			common = common[:i+1]
		}
		if common != "" {
			host := filepath.Join(localRoot, filepath.FromSlash(common))
			if st, err := os.Stat(host); err == nil && st.IsDir() {
				f.logger.Debug("using local root as transfer area", "root", localRoot, "common", common)
				return billy.NewLocal(localRoot), nil, nil
			}
		}
		f.logger.Debug("local root does not mirror the backup", "root", localRoot, "common", common)
	}

	tmp, err := billy.NewTemp(billy.WithTempDir(tempDir))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeCreateFailed, "unable to create transfer area")
	}
	f.logger.Debug("using ephemeral transfer area", "dir", tmp.Root())
	return tmp, tmp, nil
}

// ensureRoot checks the configured root, creating it when asked to.
func (f *FS) ensureRoot(create bool) error {
	if f.prefix == "" {
		return nil
	}

	info, err := f.lookup("/")
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return pathErr(errors.CodeCreateFailed, fs.ErrInvalid, "root path is not a directory", "/"+f.prefix)
	case !errors.HasCode(err, errors.CodeNotFound):
		return errors.Wrap(err, errors.CodeCreateFailed, "unable to check root path")
	case !create:
		return pathErr(errors.CodeCreateFailed, fs.ErrNotExist, "root path does not exist", "/"+f.prefix)
	}

	if err := f.area.MkdirAll(f.localKey("/"), 0o755); err != nil {
		return pathErr(errors.CodeCreateFailed, err, "unable to create root path", "/"+f.prefix)
	}
	return nil
}

// Close releases the transfer area if New created it. Areas passed with
// WithTransferArea are left alone. Calling Close more than once is a no-op.
func (f *FS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.owned != nil {
		return f.owned.Close()
	}
	return nil
}

// TransferArea returns the area staged files live in.
func (f *FS) TransferArea() core.TransferArea {
	return f.area
}

// Index returns the backup log index.
func (f *FS) Index() *backuplog.Index {
	return f.index
}

// Root returns the logged path exposed as the view root.
func (f *FS) Root() string {
	return "/" + f.prefix
}

// LastCollection reports what the collection run by New did.
func (f *FS) LastCollection() GCReport {
	return f.collection
}

// Stat returns the merged information for name.
//
// The root always exists. Otherwise the log and the transfer area are both
// consulted: an entry known to only one of them is reported from it, and an
// entry known to both is reported from the log unless WithPreferLocal is set
// and the staged copy is strictly newer.
func (f *FS) Stat(name string) (*Info, error) {
	p := clean(name)
	if p == "/" {
		return rootInfo(), nil
	}
	return f.lookup(p)
}

// lookup merges without the synthetic root, so the root of a prefixed view
// can be checked for real.
func (f *FS) lookup(p string) (*Info, error) {
	local, err := f.area.Stat(f.localKey(p))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, storageErr(err, "unable to stat staged entry", p)
		}
		local = nil
	}

	rec, remote := f.index.Describe(f.indexKey(p))

	switch {
	case !remote && local == nil:
		return nil, errNotFound(p)
	case !remote:
		return localInfo(p, local), nil
	case local != nil && f.preferLocal && local.ModTime().After(rec.Time):
		return localInfo(p, local), nil
	default:
		return remoteInfo(p, rec), nil
	}
}

// Exists reports whether name exists in the merged view.
func (f *FS) Exists(name string) bool {
	_, err := f.Stat(name)
	return err == nil
}

// IsDir reports whether name exists and is a directory.
func (f *FS) IsDir(name string) bool {
	info, err := f.Stat(name)
	return err == nil && info.IsDir()
}

// IsFile reports whether name exists and is a file.
func (f *FS) IsFile(name string) bool {
	info, err := f.Stat(name)
	return err == nil && !info.IsDir()
}

// String identifies the view in logs.
func (f *FS) String() string {
	return fmt.Sprintf("crashplanfs(%s)", f.Root())
}
