// Package webdav serves a crashplanfs view over WebDAV.
//
// Listing and metadata come from the merged view; file content and every
// change go to the transfer area, exactly as with the Go API. Files known
// only to the backup log show up in PROPFIND but GET answers 404.
package webdav

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"

	"golang.org/x/net/webdav"

	"github.com/jmgilman/go/crashplanfs"
	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// FileSystem adapts a crashplanfs view to webdav.FileSystem.
type FileSystem struct {
	fs *crashplanfs.FS
}

var _ webdav.FileSystem = (*FileSystem)(nil)

// New wraps cfs.
func New(cfs *crashplanfs.FS) *FileSystem {
	return &FileSystem{fs: cfs}
}

// contentKey marks requests that read file content.
type contentKey struct{}

// NewHandler returns an http.Handler serving cfs under prefix with an
// in-memory lock system.
func NewHandler(cfs *crashplanfs.FS, prefix string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &webdav.Handler{
		Prefix:     prefix,
		FileSystem: New(cfs),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				logger.Warn("webdav request failed", "method", r.Method, "path", r.URL.Path, "error", err)
				return
			}
			logger.Debug("webdav request", "method", r.Method, "path", r.URL.Path)
		},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
			r = r.WithContext(context.WithValue(r.Context(), contentKey{}, true))
		}
		h.ServeHTTP(w, r)
	})
}

// Mkdir creates a directory in the transfer area.
func (w *FileSystem) Mkdir(_ context.Context, name string, _ os.FileMode) error {
	_, err := w.fs.Mkdir(name, false)
	return osErr(err)
}

// OpenFile opens a file or directory. Directories are opened read-only
// and answer Readdir from the merged listing. A file known only to the log
// opens as a stat-only handle, except for requests that read content.
func (w *FileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (webdav.File, error) {
	info, err := w.fs.Stat(name)
	if err == nil && info.IsDir() {
		if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC) != 0 {
			return nil, os.ErrPermission
		}
		return &dir{fs: w.fs, name: path.Clean("/" + name), info: info}, nil
	}

	// PUT opens O_RDWR|O_TRUNC but only writes; object stores cannot do
	// read-write handles.
	if flag&os.O_RDWR != 0 && flag&os.O_TRUNC != 0 {
		flag = flag&^os.O_RDWR | os.O_WRONLY
	}

	f, err := w.fs.OpenFile(name, flag, perm)
	if err != nil {
		readOnly := flag&(os.O_WRONLY|os.O_RDWR) == 0
		if info != nil && readOnly && errors.HasCode(err, errors.CodeNotFound) && ctx.Value(contentKey{}) == nil {
			return &logged{info: info}, nil
		}
		return nil, osErr(err)
	}
	return &file{File: f}, nil
}

// RemoveAll removes a file, or a directory together with its children.
// Staged children are only listed, and so removed, when the view prefers
// local entries. Entries known only to the log cannot be removed.
func (w *FileSystem) RemoveAll(ctx context.Context, name string) error {
	info, err := w.fs.Stat(name)
	if err != nil {
		return osErr(err)
	}
	if !info.IsDir() {
		return osErr(w.fs.Remove(name))
	}

	children, err := w.fs.ReadDir(name)
	if err != nil {
		return osErr(err)
	}
	for _, child := range children {
		if err := w.RemoveAll(ctx, path.Join("/", name, child)); err != nil {
			return err
		}
	}
	return osErr(w.fs.RemoveDir(name))
}

// Rename is not supported: the backup log cannot express a move.
func (w *FileSystem) Rename(_ context.Context, _, _ string) error {
	return core.ErrUnsupported
}

// Stat returns merged information for name.
func (w *FileSystem) Stat(_ context.Context, name string) (os.FileInfo, error) {
	info, err := w.fs.Stat(name)
	if err != nil {
		return nil, osErr(err)
	}
	return statInfo{info}, nil
}

// osErr maps view errors to the os errors the webdav handler turns into
// status codes.
func osErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.HasCode(err, errors.CodeNotFound):
		return os.ErrNotExist
	case errors.HasCode(err, errors.CodeDirectoryExists), errors.HasCode(err, errors.CodeFileExists):
		return os.ErrExist
	case errors.HasCode(err, errors.CodeRemoveRoot):
		return os.ErrPermission
	}
	return err
}

// statInfo reports unknown sizes as zero; WebDAV clients expect a length.
type statInfo struct {
	*crashplanfs.Info
}

func (s statInfo) Size() int64 {
	if n := s.Info.Size(); n > 0 {
		return n
	}
	return 0
}

// ContentType guesses from the extension. Files known only to the log have
// no content to sniff.
func (s statInfo) ContentType(context.Context) (string, error) {
	if t := mime.TypeByExtension(path.Ext(s.Name())); t != "" {
		return t, nil
	}
	return "application/octet-stream", nil
}

// file is an open file of the view.
type file struct {
	*crashplanfs.File
}

func (f *file) Readdir(int) ([]fs.FileInfo, error) {
	return nil, os.ErrInvalid
}

// logged is a file known only to the backup log. It has metadata but no
// content.
type logged struct {
	info *crashplanfs.Info
}

func (l *logged) Close() error { return nil }

func (l *logged) Read([]byte) (int, error) { return 0, os.ErrNotExist }

func (l *logged) Write([]byte) (int, error) { return 0, os.ErrInvalid }

func (l *logged) Seek(int64, int) (int64, error) { return 0, nil }

func (l *logged) Readdir(int) ([]fs.FileInfo, error) { return nil, os.ErrInvalid }

func (l *logged) Stat() (fs.FileInfo, error) { return statInfo{l.info}, nil }

// dir is an open directory of the view.
type dir struct {
	fs      *crashplanfs.FS
	name    string
	info    *crashplanfs.Info
	pending []fs.FileInfo
	listed  bool
}

func (d *dir) Close() error { return nil }

func (d *dir) Read([]byte) (int, error) { return 0, os.ErrInvalid }

func (d *dir) Write([]byte) (int, error) { return 0, os.ErrInvalid }

func (d *dir) Seek(int64, int) (int64, error) { return 0, nil }

func (d *dir) Stat() (fs.FileInfo, error) { return statInfo{d.info}, nil }

// Readdir follows os.File.Readdir: count <= 0 returns everything left,
// count > 0 at most count entries and io.EOF once exhausted.
func (d *dir) Readdir(count int) ([]fs.FileInfo, error) {
	if !d.listed {
		names, err := d.fs.ReadDir(d.name)
		if err != nil {
			return nil, osErr(err)
		}
		for _, n := range names {
			info, err := d.fs.Stat(path.Join(d.name, n))
			if err != nil {
				continue
			}
			d.pending = append(d.pending, statInfo{info})
		}
		d.listed = true
	}

	if count <= 0 {
		out := d.pending
		d.pending = nil
		return out, nil
	}
	if len(d.pending) == 0 {
		return nil, io.EOF
	}
	count = min(count, len(d.pending))
	out := d.pending[:count:count]
	d.pending = d.pending[count:]
	return out, nil
}

var (
	_ webdav.File         = (*file)(nil)
	_ webdav.File         = (*dir)(nil)
	_ webdav.File         = (*logged)(nil)
	_ webdav.ContentTyper = statInfo{}
)
