package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/jmgilman/go/crashplanfs/fs/core"
	"github.com/jmgilman/go/crashplanfs/fs/minio/internal/errs"
	"github.com/jmgilman/go/crashplanfs/fs/minio/internal/types"
	"github.com/minio/minio-go/v7"
)

// File is a write handle for an object. Writes are buffered in memory and
// uploaded on Close; once the buffer passes the multipart threshold the
// upload switches to a streaming PutObject fed through a pipe.
type File struct {
	fs   *MinioFS
	key  string // Full S3 key (including prefix)
	name string // Name as passed to OpenFile
	flag int

	buffer  *bytes.Buffer
	pipeW   *io.PipeWriter // set once streaming
	putRes  chan error     // result of the background PutObject
	written int64
	closed  bool
}

func newFileWrite(mfs *MinioFS, key, name string, flag int) *File {
	return &File{
		fs:     mfs,
		key:    key,
		name:   name,
		flag:   flag,
		buffer: new(bytes.Buffer),
	}
}

// Read is not supported on write handles.
func (f *File) Read(_ []byte) (int, error) {
	return 0, errs.PathError("read", f.name, fs.ErrInvalid)
}

// Write appends p to the pending object body.
//
//nolint:contextcheck // io.Writer cannot take a context
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errs.PathError("write", f.name, fs.ErrClosed)
	}

	if f.pipeW == nil && int64(f.buffer.Len()+len(p)) > f.fs.multipartThreshold {
		f.startStreaming()
		if _, err := f.pipeW.Write(f.buffer.Bytes()); err != nil {
			return 0, errs.PathError("write", f.name, err)
		}
		f.buffer = nil
	}

	var (
		n   int
		err error
	)
	if f.pipeW != nil {
		n, err = f.pipeW.Write(p)
	} else {
		n, err = f.buffer.Write(p)
	}
	f.written += int64(n)
	if err != nil {
		return n, errs.PathError("write", f.name, err)
	}
	return n, nil
}

// startStreaming begins a PutObject of unknown size reading from a pipe.
func (f *File) startStreaming() {
	pr, pw := io.Pipe()
	f.pipeW = pw
	f.putRes = make(chan error, 1)

	go func() {
		_, err := f.fs.client.PutObject(context.Background(), f.fs.bucket, f.key, pr, -1,
			minio.PutObjectOptions{ContentType: "application/octet-stream"})
		_ = pr.CloseWithError(err)
		f.putRes <- errs.Translate(err)
		close(f.putRes)
	}()
}

// Stat reports the bytes written so far.
func (f *File) Stat() (fs.FileInfo, error) {
	return types.File(path.Base(f.name), f.written, time.Now()), nil
}

// Sync uploads the buffered body without closing the handle. It is a no-op
// once the upload is streaming.
func (f *File) Sync() error {
	if f.closed || f.pipeW != nil {
		return nil
	}
	return f.upload(context.Background())
}

// Close finishes the upload. Calling Close more than once is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if f.pipeW != nil {
		_ = f.pipeW.Close()
		if err := <-f.putRes; err != nil {
			return errs.PathError("close", f.name, err)
		}
		return nil
	}
	if err := f.upload(context.Background()); err != nil {
		return errs.PathError("close", f.name, err)
	}
	return nil
}

func (f *File) upload(ctx context.Context) error {
	_, err := f.fs.client.PutObject(ctx, f.fs.bucket, f.key,
		bytes.NewReader(f.buffer.Bytes()), int64(f.buffer.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	return errs.Translate(err)
}

// Name returns the name passed to OpenFile.
func (f *File) Name() string {
	return f.name
}

// Flag returns the os.O_* flags the file was opened with.
func (f *File) Flag() int {
	return f.flag
}

// streamingFile reads an object without buffering it whole. Seek and ReadAt
// are served with ranged GETs.
type streamingFile struct {
	fs     *MinioFS
	key    string
	name   string
	obj    *minio.Object
	info   minio.ObjectInfo
	offset int64
	closed bool
}

func newStreamingFile(ctx context.Context, mfs *MinioFS, key, name string) (*streamingFile, error) {
	info, err := mfs.client.StatObject(ctx, mfs.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, errs.PathError("open", name, errs.Translate(err))
	}

	obj, err := mfs.client.GetObject(ctx, mfs.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errs.PathError("open", name, errs.Translate(err))
	}

	return &streamingFile{fs: mfs, key: key, name: name, obj: obj, info: info}, nil
}

func (f *streamingFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errs.PathError("read", f.name, fs.ErrClosed)
	}
	n, err := f.obj.Read(p)
	f.offset += int64(n)

	if n > 0 && errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

func (f *streamingFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.obj.Close()
}

func (f *streamingFile) Stat() (fs.FileInfo, error) {
	return types.File(path.Base(f.name), f.info.Size, modTime(f.info.UserMetadata, f.info.LastModified)), nil
}

func (f *streamingFile) Name() string {
	return f.name
}

func (f *streamingFile) Write(_ []byte) (int, error) {
	return 0, errs.PathError("write", f.name, fs.ErrInvalid)
}

func (f *streamingFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, errs.PathError("seek", f.name, fs.ErrClosed)
	}

	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = f.offset + offset
	case io.SeekEnd:
		next = f.info.Size + offset
	default:
		return 0, errs.PathError("seek", f.name, fs.ErrInvalid)
	}
	if next < 0 {
		return 0, errs.PathError("seek", f.name, fs.ErrInvalid)
	}
	if next == f.offset {
		return next, nil
	}

	opts := minio.GetObjectOptions{}
	if next > 0 {
		if err := opts.SetRange(next, 0); err != nil {
			return 0, errs.PathError("seek", f.name, err)
		}
	}
	obj, err := f.fs.client.GetObject(context.Background(), f.fs.bucket, f.key, opts)
	if err != nil {
		return 0, errs.PathError("seek", f.name, errs.Translate(err))
	}

	_ = f.obj.Close()
	f.obj = obj
	f.offset = next
	return next, nil
}

func (f *streamingFile) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, errs.PathError("readat", f.name, fs.ErrClosed)
	}
	if off < 0 {
		return 0, errs.PathError("readat", f.name, fs.ErrInvalid)
	}
	if len(p) == 0 {
		return 0, nil
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, off+int64(len(p))-1); err != nil {
		return 0, errs.PathError("readat", f.name, err)
	}
	obj, err := f.fs.client.GetObject(context.Background(), f.fs.bucket, f.key, opts)
	if err != nil {
		return 0, errs.PathError("readat", f.name, errs.Translate(err))
	}
	defer func() { _ = obj.Close() }()

	n, err := io.ReadFull(obj, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return n, err
}

var (
	_ core.File   = (*File)(nil)
	_ core.Syncer = (*File)(nil)

	_ core.File   = (*streamingFile)(nil)
	_ io.Seeker   = (*streamingFile)(nil)
	_ io.ReaderAt = (*streamingFile)(nil)
)
