package backuplog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/crashplanfs/errors"
)

func line(ts, flag, p string) string {
	return "I " + ts + " 42 " + testHash + " " + flag + " " + p
}

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func rec(p string, minute int, dir bool) Record {
	return Record{
		Kind:  KindInclusion,
		Time:  time.Date(2018, 8, 21, 10, minute, 0, 0, time.UTC),
		Hash:  testHash,
		IsDir: dir,
		Path:  p,
	}
}

func testIndex() *Index {
	return New([]Record{
		rec("/a", 0, true),
		rec("/a/b", 1, true),
		rec("/a/b/file.txt", 2, false),
		rec("/a/bc", 3, false),
		rec("/a/b/file.txt", 4, false),
		rec("/a/d/e/deep.txt", 5, false),
	}, "mem.log")
}

func TestOpen_File(t *testing.T) {
	records, err := Open(WithFile(filepath.Join("..", "testdata", "backup_files.log.0")))
	require.NoError(t, err)
	assert.Equal(t, 10, records.Len())
	assert.Equal(t, []string{filepath.Join("..", "testdata", "backup_files.log.0")}, records.Files())
}

func TestOpen_Discover(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "backup_files.log.1", line("08/21/18 10:05AM", "0", "/second"))
	writeLog(t, dir, "backup_files.log.0", line("08/21/18 10:00AM", "0", "/first"))
	writeLog(t, dir, "history.log.0", line("08/21/18 10:00AM", "0", "/ignored"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "backup_files.log.dir"), 0o755))

	idx, err := Open(WithDir(dir))
	require.NoError(t, err)

	require.Len(t, idx.Files(), 2)
	assert.Equal(t, "backup_files.log.0", filepath.Base(idx.Files()[0]))
	records := idx.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "/first", records[0].Path)
	assert.Equal(t, "/second", records[1].Path)
}

func TestOpen_OrderAcrossManyFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		name := "backup_files.log." + string(rune('a'+i))
		writeLog(t, dir, name,
			line("08/21/18 10:00AM", "0", "/f/"+string(rune('a'+i))+"/1"),
			line("08/21/18 10:01AM", "0", "/f/"+string(rune('a'+i))+"/2"),
		)
	}

	idx, err := Open(WithDir(dir))
	require.NoError(t, err)

	records := idx.Records()
	require.Len(t, records, 40)
	for i := 0; i < 20; i++ {
		assert.Equal(t, "/f/"+string(rune('a'+i))+"/1", records[2*i].Path)
		assert.Equal(t, "/f/"+string(rune('a'+i))+"/2", records[2*i+1].Path)
	}
}

func TestOpen_Pattern(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "custom.log", line("08/21/18 10:00AM", "0", "/x"))

	idx, err := Open(WithDir(dir), WithPattern("*.log"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestOpen_Errors(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		_, err := Open(WithDir(t.TempDir()))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeCreateFailed))
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := Open(WithDir(filepath.Join(t.TempDir(), "missing")))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeCreateFailed))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(WithFile(filepath.Join(t.TempDir(), "missing.log")))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeCreateFailed))
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := Open(WithDir(t.TempDir()), WithPattern("[unclosed"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
	})
}

func TestNew_Copies(t *testing.T) {
	records := []Record{rec("/a", 0, true)}
	idx := New(records)
	records[0].Path = "/changed"

	assert.Equal(t, "/a", idx.Records()[0].Path)
	assert.Empty(t, idx.Files())
}

func TestMatching(t *testing.T) {
	idx := testIndex()

	var paths []string
	for _, r := range idx.Matching("/a/b") {
		paths = append(paths, r.Path)
	}
	// Textual prefix: /a/bc matches /a/b.
	assert.Equal(t, []string{"/a/b", "/a/b/file.txt", "/a/bc", "/a/b/file.txt"}, paths)
	assert.Empty(t, idx.Matching("/z"))
}

func TestLatest(t *testing.T) {
	idx := testIndex()

	r, ok := idx.Latest("/a/b/file.txt")
	require.True(t, ok)
	assert.Equal(t, 4, r.Time.Minute())

	_, ok = idx.Latest("/a/d")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	idx := testIndex()

	t.Run("last exact record wins", func(t *testing.T) {
		r, ok := idx.Describe("/a/b/file.txt")
		require.True(t, ok)
		assert.False(t, r.IsDir)
		assert.Equal(t, 4, r.Time.Minute())
	})

	t.Run("recorded directory", func(t *testing.T) {
		r, ok := idx.Describe("/a/b")
		require.True(t, ok)
		assert.True(t, r.IsDir)
		assert.Equal(t, 1, r.Time.Minute())
	})

	t.Run("intermediate directory", func(t *testing.T) {
		r, ok := idx.Describe("/a/d")
		require.True(t, ok)
		assert.True(t, r.IsDir)
		assert.Equal(t, "/a/d", r.Path)
		assert.Equal(t, 5, r.Time.Minute())
		assert.Empty(t, r.Hash)
	})

	t.Run("textual neighbour", func(t *testing.T) {
		r, ok := idx.Describe("/a/bc/x")
		assert.False(t, ok)
		assert.Zero(t, r)

		// /a/ matches descendants only; its time is the last of them.
		r, ok = idx.Describe("/a/")
		require.True(t, ok)
		assert.Equal(t, 5, r.Time.Minute())
	})
}

func TestChildren(t *testing.T) {
	idx := testIndex()

	assert.Equal(t, []string{"b", "bc", "d"}, idx.Children("/a"))
	assert.Equal(t, []string{"file.txt"}, idx.Children("/a/b"))
	assert.Equal(t, []string{"e"}, idx.Children("/a/d/"))
	assert.Equal(t, []string{"a"}, idx.Children("/"))
	assert.Empty(t, idx.Children("/a/b/file.txt"))
}

func TestCommonPrefix(t *testing.T) {
	idx := testIndex()

	assert.Equal(t, "/a", idx.CommonPrefix("/a"))
	assert.Equal(t, "/a/d/e/deep.txt", idx.CommonPrefix("/a/d"))
	assert.Equal(t, "/a/b", idx.CommonPrefix("/a/b"))
	assert.Equal(t, "", idx.CommonPrefix("/nothing"))
}
