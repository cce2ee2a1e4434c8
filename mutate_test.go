package crashplanfs

import (
	"io"
	"io/fs"
	"os"
	"path"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

func writeString(t *testing.T, f *FS, name, content string) {
	t.Helper()
	w, err := f.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readString(t *testing.T, f *FS, name string) string {
	t.Helper()
	r, err := f.Open(name)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestMkdir(t *testing.T) {
	f := newTestFS(t)

	t.Run("creates in transfer area", func(t *testing.T) {
		sub, err := f.Mkdir(backups+"/kinks/new", false)
		require.NoError(t, err)
		assert.Equal(t, backups+"/kinks/new", sub.Path())

		ok, err := f.TransferArea().Exists(areaKey(backups + "/kinks/new"))
		require.NoError(t, err)
		assert.True(t, ok)

		info, err := f.Stat(backups + "/kinks/new")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, SourceLocal, info.Source())
	})

	t.Run("existing", func(t *testing.T) {
		_, err := f.Mkdir(backups+"/vms", false)
		assert.True(t, errors.HasCode(err, errors.CodeDirectoryExists))
		assert.ErrorIs(t, err, fs.ErrExist)

		sub, err := f.Mkdir(backups+"/vms", true)
		require.NoError(t, err)
		assert.Equal(t, backups+"/vms", sub.Path())
	})

	t.Run("existing file", func(t *testing.T) {
		_, err := f.Mkdir(notesFile, true)
		assert.True(t, errors.HasCode(err, errors.CodeDirectoryExpected))
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := f.Mkdir(backups+"/nope/child", false)
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})
}

func TestMakeDirs(t *testing.T) {
	f := newTestFS(t)

	sub, err := f.MakeDirs(backups+"/kinks/a/b/c", false)
	require.NoError(t, err)
	assert.Equal(t, backups+"/kinks/a/b/c", sub.Path())
	assert.True(t, f.IsDir(backups+"/kinks/a/b"))

	_, err = f.MakeDirs(backups+"/kinks/a/b/c", false)
	assert.True(t, errors.HasCode(err, errors.CodeDirectoryExists))

	_, err = f.MakeDirs(backups+"/kinks/a/b/c", true)
	assert.NoError(t, err)

	_, err = f.MakeDirs(notesFile+"/below", false)
	assert.True(t, errors.HasCode(err, errors.CodeDirectoryExpected))
}

func TestOpenFile(t *testing.T) {
	f := newTestFS(t)
	name := backups + "/kinks/todo.txt"

	t.Run("create and read back", func(t *testing.T) {
		writeString(t, f, name, "hello")
		assert.Equal(t, "hello", readString(t, f, name))

		info, err := f.Stat(name)
		require.NoError(t, err)
		assert.Equal(t, SourceLocal, info.Source())
		assert.Equal(t, int64(5), info.Size())
	})

	t.Run("truncates on create", func(t *testing.T) {
		writeString(t, f, name, "hi")
		assert.Equal(t, "hi", readString(t, f, name))
	})

	t.Run("exclusive", func(t *testing.T) {
		_, err := f.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		assert.True(t, errors.HasCode(err, errors.CodeFileExists))
		assert.ErrorIs(t, err, fs.ErrExist)

		_, err = f.OpenFile(notesFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		assert.True(t, errors.HasCode(err, errors.CodeFileExists))
	})

	t.Run("backup-only file has no content", func(t *testing.T) {
		_, err := f.Open(newerFile)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))

		// Reading does not stage parents.
		ok, err := f.TransferArea().Exists(areaKey(path.Dir(newerFile)))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("overwrite backed-up file", func(t *testing.T) {
		writeString(t, f, notesFile, "restored")
		assert.Equal(t, "restored", readString(t, f, notesFile))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.Open(backups + "/kinks/missing.txt")
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := f.Create(backups + "/nope/file.txt")
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})

	t.Run("parent is a file", func(t *testing.T) {
		_, err := f.Create(notesFile + "/file.txt")
		assert.True(t, errors.HasCode(err, errors.CodeDirectoryExpected))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := f.Open(backups + "/vms")
		assert.True(t, errors.HasCode(err, errors.CodeFileExpected))

		_, err = f.Create(backups + "/vms")
		assert.True(t, errors.HasCode(err, errors.CodeFileExpected))

		_, err = f.Open("/")
		assert.True(t, errors.HasCode(err, errors.CodeFileExpected))
	})
}

func TestFile_AccessModes(t *testing.T) {
	f := newTestFS(t)
	name := backups + "/kinks/modes.txt"
	writeString(t, f, name, "content")

	r, err := f.Open(name)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.Readable())
	assert.False(t, r.Writable())
	assert.Equal(t, name, r.Name())

	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrInvalid)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))

	w, err := f.OpenFile(name, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer w.Close()
	assert.False(t, w.Readable())
	assert.True(t, w.Writable())

	_, err = w.Read(make([]byte, 1))
	assert.ErrorIs(t, err, fs.ErrInvalid)

	rw, err := f.OpenFile(name, os.O_RDWR, 0)
	require.NoError(t, err)
	defer rw.Close()
	assert.True(t, rw.Readable())
	assert.True(t, rw.Writable())
}

func TestFile_SeekAndTruncate(t *testing.T) {
	f := newTestFS(t)
	name := backups + "/kinks/seek.txt"
	writeString(t, f, name, "0123456789")

	rw, err := f.OpenFile(name, os.O_RDWR, 0)
	require.NoError(t, err)
	defer rw.Close()

	off, err := rw.Seek(4, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(4), off)

	buf := make([]byte, 2)
	_, err = io.ReadFull(rw, buf)
	require.NoError(t, err)
	assert.Equal(t, "45", string(buf))

	_, err = rw.Seek(0, 42)
	assert.ErrorIs(t, err, fs.ErrInvalid)

	// Negative size truncates at the current offset.
	size, err := rw.Truncate(-1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)

	size, err = rw.Truncate(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
	require.NoError(t, rw.Sync())

	info, err := rw.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
}

func TestMkdir_ListedWithPreferLocal(t *testing.T) {
	f := newTestFS(t, WithPreferLocal(true))

	_, err := f.Mkdir("/new", false)
	require.NoError(t, err)

	names, err := f.ReadDir("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"my", "new"}, names)

	info, err := f.Stat("/new")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, SourceLocal, info.Source())

	names, err = f.ReadDir("/new")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRemove(t *testing.T) {
	f := newTestFS(t)
	name := backups + "/kinks/gone.txt"
	writeString(t, f, name, "bye")

	require.NoError(t, f.Remove(name))
	assert.False(t, f.Exists(name))

	err := f.Remove(name)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))

	err = f.Remove(notesFile)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	assert.True(t, f.Exists(notesFile))

	err = f.Remove(backups + "/vms")
	assert.True(t, errors.HasCode(err, errors.CodeFileExpected))
}

func TestRemoveDir(t *testing.T) {
	f := newTestFS(t)

	t.Run("root", func(t *testing.T) {
		err := f.RemoveDir("/")
		assert.True(t, errors.HasCode(err, errors.CodeRemoveRoot))
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("not empty", func(t *testing.T) {
		err := f.RemoveDir(backups + "/vms")
		assert.True(t, errors.HasCode(err, errors.CodeDirectoryNotEmpty))
		assert.ErrorIs(t, err, core.ErrNotEmpty)
	})

	t.Run("file", func(t *testing.T) {
		err := f.RemoveDir(notesFile)
		assert.True(t, errors.HasCode(err, errors.CodeDirectoryExpected))
	})

	t.Run("staged empty directory", func(t *testing.T) {
		_, err := f.Mkdir(backups+"/kinks/empty", false)
		require.NoError(t, err)

		require.NoError(t, f.RemoveDir(backups+"/kinks/empty"))
		assert.False(t, f.Exists(backups+"/kinks/empty"))
	})

	t.Run("staged directory with staged child", func(t *testing.T) {
		for _, prefer := range []bool{false, true} {
			f := newTestFS(t, WithPreferLocal(prefer))
			_, err := f.Mkdir("/new", false)
			require.NoError(t, err)
			writeString(t, f, "/new/f.txt", "x")

			err = f.RemoveDir("/new")
			assert.True(t, errors.HasCode(err, errors.CodeDirectoryNotEmpty), "prefer local %v: %v", prefer, err)
			assert.ErrorIs(t, err, core.ErrNotEmpty)
			assert.True(t, f.Exists("/new/f.txt"))

			require.NoError(t, f.Remove("/new/f.txt"))
			require.NoError(t, f.RemoveDir("/new"))
			assert.False(t, f.Exists("/new"))
		}
	})

	t.Run("backup-only empty directory", func(t *testing.T) {
		err := f.RemoveDir(backups + "/vms/empty_dir")
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})
}

func TestSetModTime(t *testing.T) {
	area := newLocalArea(t)
	f := newTestFS(t, WithTransferArea(area), WithPreferLocal(true))
	name := backups + "/kinks/dated.txt"
	writeString(t, f, name, "x")

	ts := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.SetModTime(name, ts, ts))

	info, err := f.Stat(name)
	require.NoError(t, err)
	assert.True(t, ts.Equal(info.ModTime()))

	err = f.SetModTime(backups+"/kinks/missing.txt", ts, ts)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestStage(t *testing.T) {
	f := newTestFS(t)
	mtime := time.Date(2030, 1, 2, 3, 4, 0, 0, time.UTC)
	src := fstest.MapFS{
		"new-run/disk.vmdk": {Data: []byte("disk"), ModTime: mtime, Mode: 0o644},
		"readme.txt":        {Data: []byte("hello"), ModTime: mtime, Mode: 0o644},
	}

	t.Run("into a logged directory", func(t *testing.T) {
		dir := backups + "/vms/finn"
		require.NoError(t, f.Stage(src, dir))

		assert.Equal(t, "disk", readString(t, f, dir+"/new-run/disk.vmdk"))
		assert.Equal(t, "hello", readString(t, f, dir+"/readme.txt"))
		assert.True(t, f.IsDir(dir+"/new-run"))

		ok, err := f.TransferArea().Exists("my/crashplan/backups/vms/finn/readme.txt")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing directory", func(t *testing.T) {
		err := f.Stage(src, backups+"/nowhere")
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})

	t.Run("file target", func(t *testing.T) {
		err := f.Stage(src, notesFile)
		assert.True(t, errors.HasCode(err, errors.CodeDirectoryExpected))
	})
}
