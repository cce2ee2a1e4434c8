package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmgilman/go/crashplanfs/fs/core"
	"github.com/jmgilman/go/crashplanfs/fs/minio/internal/errs"
	"github.com/jmgilman/go/crashplanfs/fs/minio/internal/pathutil"
	"github.com/jmgilman/go/crashplanfs/fs/minio/internal/types"
	"github.com/jmgilman/go/crashplanfs/fs/minio/internal/walk"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// mtimeKey is the user metadata key holding a modification time set by
	// Chtimes, formatted as RFC 3339 with nanoseconds.
	mtimeKey = "Mtime"

	// dirContentType marks zero-length directory marker objects.
	dirContentType = "application/x-directory"
)

// MinioFS implements core.TransferArea for MinIO/S3-compatible storage.
//
//nolint:revive // MinioFS name is intentional to match LocalFS, MemoryFS, etc.
type MinioFS struct {
	client             *minio.Client
	bucket             string
	prefix             string // Optional prefix for all keys
	multipartThreshold int64  // Threshold for streaming uploads
}

// NewMinIO creates a MinIO-backed transfer area.
// Returns error if configuration is invalid or the client cannot be built.
func NewMinIO(cfg Config) (*MinioFS, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	threshold := cfg.MultipartThreshold
	if threshold == 0 {
		threshold = defaultMultipartThreshold
	}

	return &MinioFS{
		client:             client,
		bucket:             cfg.Bucket,
		prefix:             pathutil.NormalizePrefix(cfg.Prefix),
		multipartThreshold: threshold,
	}, nil
}

// joinPath joins the area prefix with the given name.
func (m *MinioFS) joinPath(name string) string {
	return pathutil.JoinPath(m.prefix, name)
}

// dirKey returns the listing prefix (and marker key) for a directory key.
func dirKey(key string) string {
	if key == "" {
		return ""
	}
	return key + "/"
}

// modTime returns the time stored by Chtimes, or fallback when none is set.
// Stat reports user metadata without the X-Amz-Meta- prefix and listings
// report it with the prefix, so both forms are accepted.
func modTime(meta map[string]string, fallback time.Time) time.Time {
	for k, v := range meta {
		k = strings.TrimPrefix(http.CanonicalHeaderKey(k), "X-Amz-Meta-")
		if !strings.EqualFold(k, mtimeKey) {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return fallback
}

// Type returns FSTypeRemote.
func (m *MinioFS) Type() core.FSType {
	return core.FSTypeRemote
}

// Stat returns metadata for the named object or virtual directory.
func (m *MinioFS) Stat(name string) (fs.FileInfo, error) {
	return m.stat(context.Background(), "stat", name)
}

func (m *MinioFS) stat(ctx context.Context, op, name string) (fs.FileInfo, error) {
	name = pathutil.Normalize(name)
	if name == "." {
		return types.Dir(".", time.Time{}), nil
	}
	base := path.Base(name)
	key := m.joinPath(name)

	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return types.File(base, info.Size, modTime(info.UserMetadata, info.LastModified)), nil
	}
	if err = errs.Translate(err); !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.PathError(op, name, err)
	}

	marker, err := m.client.StatObject(ctx, m.bucket, dirKey(key), minio.StatObjectOptions{})
	if err == nil {
		return types.Dir(base, modTime(marker.UserMetadata, marker.LastModified)), nil
	}
	if err = errs.Translate(err); !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.PathError(op, name, err)
	}

	found, err := m.hasChildren(ctx, dirKey(key))
	if err != nil {
		return nil, errs.PathError(op, name, err)
	}
	if !found {
		return nil, errs.PathError(op, name, fs.ErrNotExist)
	}
	return types.Dir(base, time.Time{}), nil
}

// hasChildren reports whether any key other than the marker lives under prefix.
func (m *MinioFS) hasChildren(ctx context.Context, prefix string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return false, errs.Translate(object.Err)
		}
		if object.Key != prefix {
			return true, nil
		}
	}
	return false, nil
}

// ReadDir returns the entries of the named directory sorted by name.
func (m *MinioFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = pathutil.Normalize(name)
	ctx := context.Background()

	info, err := m.stat(ctx, "readdir", name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errs.PathError("readdir", name, fs.ErrInvalid)
	}

	prefix := dirKey(m.joinPath(name))
	var entries []fs.DirEntry
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    false,
		WithMetadata: true,
	}) {
		if object.Err != nil {
			return nil, errs.PathError("readdir", name, errs.Translate(object.Err))
		}

		// Skip the directory marker itself
		if object.Key == prefix {
			continue
		}

		relName := strings.TrimPrefix(object.Key, prefix)
		isDir := strings.HasSuffix(object.Key, "/")
		if isDir {
			relName = strings.TrimSuffix(relName, "/")
		}
		if relName == "" {
			continue
		}

		mtime := modTime(object.UserMetadata, object.LastModified)
		if isDir {
			entries = append(entries, types.Dir(relName, mtime).Entry())
		} else {
			entries = append(entries, types.File(relName, object.Size, mtime).Entry())
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

// Exists reports whether the named file or directory exists.
func (m *MinioFS) Exists(name string) (bool, error) {
	_, err := m.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// OpenFile opens the named object.
//
// Supported flags: O_RDONLY, O_WRONLY, O_CREATE, O_TRUNC, O_EXCL.
// O_RDWR, O_APPEND and O_SYNC return core.ErrUnsupported. Writes are
// uploaded on Close and always replace the whole object. As with a local
// filesystem, creating a file requires the parent directory to exist.
func (m *MinioFS) OpenFile(name string, flag int, _ fs.FileMode) (core.File, error) {
	if flag&os.O_RDWR != 0 {
		return nil, errs.PathErrorf("open", name, "%w: O_RDWR not supported in S3", core.ErrUnsupported)
	}
	if flag&os.O_APPEND != 0 {
		return nil, errs.PathErrorf("open", name, "%w: O_APPEND not supported in S3", core.ErrUnsupported)
	}
	if flag&os.O_SYNC != 0 {
		return nil, errs.PathErrorf("open", name, "%w: O_SYNC not supported in S3", core.ErrUnsupported)
	}

	name = pathutil.Normalize(name)
	if name == "." {
		return nil, errs.PathError("open", name, fs.ErrInvalid)
	}
	ctx := context.Background()
	key := m.joinPath(name)

	info, err := m.stat(ctx, "open", name)
	switch {
	case err == nil && info.IsDir():
		return nil, errs.PathError("open", name, fs.ErrInvalid)
	case err == nil && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, errs.PathError("open", name, fs.ErrExist)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, err
	case err != nil && flag&os.O_CREATE == 0:
		return nil, err
	}

	if flag&(os.O_WRONLY|os.O_CREATE) == 0 {
		return newStreamingFile(ctx, m, key, name)
	}

	if parent := path.Dir(name); parent != "." {
		pinfo, err := m.stat(ctx, "open", parent)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errs.PathError("open", name, fs.ErrNotExist)
			}
			return nil, err
		}
		if !pinfo.IsDir() {
			return nil, errs.PathError("open", name, fs.ErrInvalid)
		}
	}

	return newFileWrite(m, key, name, flag), nil
}

// MkdirAll creates a directory path, including any necessary parents, by
// writing a marker object for each component that does not exist yet.
func (m *MinioFS) MkdirAll(name string, _ fs.FileMode) error {
	name = pathutil.Normalize(name)
	if name == "." {
		return nil
	}
	ctx := context.Background()

	parts := strings.Split(name, "/")
	for i := range parts {
		dir := strings.Join(parts[:i+1], "/")
		info, err := m.stat(ctx, "mkdir", dir)
		if err == nil {
			if !info.IsDir() {
				return errs.PathError("mkdir", dir, fs.ErrExist)
			}
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := m.putMarker(ctx, dirKey(m.joinPath(dir)), nil); err != nil {
			return errs.PathError("mkdir", dir, err)
		}
	}
	return nil
}

// putMarker writes an empty directory marker object.
func (m *MinioFS) putMarker(ctx context.Context, key string, meta map[string]string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType:  dirContentType,
		UserMetadata: meta,
	})
	return errs.Translate(err)
}

// Remove removes the named object, or the named directory if it is empty.
// A directory without a marker disappears on its own once its last entry
// is removed.
func (m *MinioFS) Remove(name string) error {
	name = pathutil.Normalize(name)
	if name == "." {
		return errs.PathError("remove", name, fs.ErrInvalid)
	}
	ctx := context.Background()
	key := m.joinPath(name)

	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return errs.PathError("remove", name, errs.Translate(err))
		}
		return nil
	}
	if err = errs.Translate(err); !errors.Is(err, fs.ErrNotExist) {
		return errs.PathError("remove", name, err)
	}

	prefix := dirKey(key)
	found, err := m.hasChildren(ctx, prefix)
	if err != nil {
		return errs.PathError("remove", name, err)
	}
	if found {
		return errs.PathError("remove", name, core.ErrNotEmpty)
	}

	if _, err := m.client.StatObject(ctx, m.bucket, prefix, minio.StatObjectOptions{}); err != nil {
		return errs.PathError("remove", name, errs.Translate(err))
	}
	if err := m.client.RemoveObject(ctx, m.bucket, prefix, minio.RemoveObjectOptions{}); err != nil {
		return errs.PathError("remove", name, errs.Translate(err))
	}
	return nil
}

// Chtimes records mtime in the object's user metadata. Files are copied
// onto themselves with replaced metadata; directories get a fresh marker.
// The access time is not stored.
func (m *MinioFS) Chtimes(name string, _, mtime time.Time) error {
	name = pathutil.Normalize(name)
	if name == "." {
		return errs.PathError("chtimes", name, core.ErrUnsupported)
	}
	ctx := context.Background()

	info, err := m.stat(ctx, "chtimes", name)
	if err != nil {
		return err
	}

	key := m.joinPath(name)
	meta := map[string]string{mtimeKey: mtime.UTC().Format(time.RFC3339Nano)}
	if info.IsDir() {
		if err := m.putMarker(ctx, dirKey(key), meta); err != nil {
			return errs.PathError("chtimes", name, err)
		}
		return nil
	}

	_, err = m.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          m.bucket,
			Object:          key,
			UserMetadata:    meta,
			ReplaceMetadata: true,
		},
		minio.CopySrcOptions{Bucket: m.bucket, Object: key},
	)
	if err != nil {
		return errs.PathError("chtimes", name, errs.Translate(err))
	}
	return nil
}

// Walk walks the tree rooted at root in lexical order, including root.
// Virtual directories are visited like real ones.
func (m *MinioFS) Walk(root string, walkFn fs.WalkDirFunc) error {
	root = pathutil.Normalize(root)

	info, err := m.Stat(root)
	switch {
	case err != nil:
		err = walkFn(root, nil, err)
	case !info.IsDir():
		err = walkFn(root, fs.FileInfoToDirEntry(info), nil)
	default:
		err = m.walkDir(root, walkFn)
	}

	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

// walkDir visits a directory and then its entries.
func (m *MinioFS) walkDir(name string, walkFn fs.WalkDirFunc) error {
	dirEntry := types.Dir(path.Base(name), time.Time{}).Entry()
	if err := walkFn(name, dirEntry, nil); err != nil {
		return err
	}

	entries, err := m.ReadDir(name)
	if err != nil {
		return walkFn(name, dirEntry, err)
	}

	for _, entry := range entries {
		if err := walk.ProcessEntry(name, entry, walkFn, m.walkDir); err != nil {
			if errors.Is(err, fs.SkipDir) {
				// SkipDir from a file skips the rest of this directory.
				return nil
			}
			return err
		}
	}
	return nil
}

// Compile-time interface check.
var _ core.TransferArea = (*MinioFS)(nil)
