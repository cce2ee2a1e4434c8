package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// TestReadFSWithConfig tests Stat, ReadDir and Exists.
func TestReadFSWithConfig(t *testing.T, area core.TransferArea, config FSTestConfig) {
	content := []byte("test file content")
	writeFile(t, area, "testdir/testfile.txt", content)

	t.Run("StatFile", func(t *testing.T) {
		info, err := area.Stat("testdir/testfile.txt")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "testdir/testfile.txt", err)
		}
		if info.IsDir() {
			t.Errorf("Stat(%q): IsDir() = true, want false", "testdir/testfile.txt")
		}
		if info.Size() != int64(len(content)) {
			t.Errorf("Stat(%q): Size() = %d, want %d", "testdir/testfile.txt", info.Size(), len(content))
		}
		if info.Name() != "testfile.txt" {
			t.Errorf("Stat(%q): Name() = %q, want %q", "testdir/testfile.txt", info.Name(), "testfile.txt")
		}
	})

	t.Run("StatDir", func(t *testing.T) {
		info, err := area.Stat("testdir")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "testdir", err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(%q): IsDir() = false, want true", "testdir")
		}
	})

	t.Run("StatRoot", func(t *testing.T) {
		info, err := area.Stat(".")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", ".", err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(%q): IsDir() = false, want true", ".")
		}
	})

	t.Run("StatNotExist", func(t *testing.T) {
		_, err := area.Stat("does/not/exist")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat(%q): got error %v, want fs.ErrNotExist", "does/not/exist", err)
		}
	})

	t.Run("ReadDir", func(t *testing.T) {
		writeFile(t, area, "testdir/another.txt", []byte("x"))
		entries, err := area.ReadDir("testdir")
		if err != nil {
			t.Fatalf("ReadDir(%q): got error %v, want nil", "testdir", err)
		}
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		if len(names) != 2 || names[0] != "another.txt" || names[1] != "testfile.txt" {
			t.Errorf("ReadDir(%q): got %v, want [another.txt testfile.txt]", "testdir", names)
		}
	})

	t.Run("ReadBack", func(t *testing.T) {
		if got := readFile(t, area, "testdir/testfile.txt"); !bytes.Equal(got, content) {
			t.Errorf("read %q: got %q, want %q", "testdir/testfile.txt", got, content)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		for name, want := range map[string]bool{
			"testdir/testfile.txt": true,
			"testdir":              true,
			".":                    true,
			"testdir/missing.txt":  false,
		} {
			got, err := area.Exists(name)
			if err != nil {
				t.Errorf("Exists(%q): got error %v, want nil", name, err)
				continue
			}
			if got != want {
				t.Errorf("Exists(%q) = %v, want %v", name, got, want)
			}
		}
	})
}
