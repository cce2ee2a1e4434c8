package crashplanfs

import (
	"io/fs"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/crashplanfs/backuplog"
	"github.com/jmgilman/go/crashplanfs/fs/billy"
)

// failingArea refuses to remove one key.
type failingArea struct {
	*billy.LocalFS
	fail string
}

func (a *failingArea) Remove(name string) error {
	if name == a.fail {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrPermission}
	}
	return a.LocalFS.Remove(name)
}

func TestGarbageCollection_DeepestFirst(t *testing.T) {
	area := newLocalArea(t)
	old := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	stage(t, area, areaKey(olderFile), "up-to-date")
	require.NoError(t, area.Chtimes(areaKey(olderFile), amTime, amTime))
	run := areaKey(path.Dir(olderFile))
	vm := areaKey(path.Dir(path.Dir(olderFile)))
	require.NoError(t, area.Chtimes(run, old, old))
	require.NoError(t, area.Chtimes(vm, old, old))

	f := newTestFS(t, WithTransferArea(area))
	report := f.LastCollection()

	assert.Equal(t, []string{areaKey(olderFile), run, vm}, report.Removed)
	ok, err := area.Exists(vm)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, f.IsDir(backups+"/vms/gabarolas"))
}

func TestGarbageCollection_FailedRemoval(t *testing.T) {
	area := &failingArea{LocalFS: newLocalArea(t), fail: areaKey(olderFile)}
	old := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	stage(t, area, areaKey(olderFile), "up-to-date")
	require.NoError(t, area.Chtimes(areaKey(olderFile), amTime, amTime))
	stage(t, area, areaKey(notesFile), "also up-to-date")
	require.NoError(t, area.Chtimes(areaKey(notesFile), old, old))
	stage(t, area, "foo.txt", "new")

	f := newTestFS(t, WithTransferArea(area))
	report := f.LastCollection()

	assert.Equal(t, []string{areaKey(olderFile)}, report.Failed)
	assert.Equal(t, []string{areaKey(notesFile)}, report.Removed)
	assert.Contains(t, report.Kept, "foo.txt")

	ok, err := area.Exists(areaKey(olderFile))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = area.Exists(areaKey(notesFile))
	require.NoError(t, err)
	assert.False(t, ok)
}

// A staged file whose path is a textual prefix of a logged path is taken
// for the logged directory and collected when it is not newer.
func TestGarbageCollection_TextualPrefix(t *testing.T) {
	logged := time.Date(2018, 8, 20, 23, 50, 0, 0, time.UTC)
	index := backuplog.New([]backuplog.Record{
		testRecord("/a", logged, true),
		testRecord("/a/bc", logged, false),
	})

	area := newLocalArea(t)
	stage(t, area, "a/b", "never backed up")
	before := logged.Add(-time.Hour)
	require.NoError(t, area.Chtimes("a/b", before, before))
	stage(t, area, "a/bd", "never backed up either")

	f, err := NewWithIndex(index, WithTransferArea(area))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	report := f.LastCollection()
	assert.Equal(t, []string{"a/b"}, report.Removed)
	assert.Contains(t, report.Kept, "a/bd")

	ok, err := area.Exists("a/b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGarbageCollection_EmptyArea(t *testing.T) {
	f := newTestFS(t)
	report := f.LastCollection()
	assert.Zero(t, report.Scanned)
	assert.Empty(t, report.Removed)
	assert.Empty(t, report.Kept)
}
