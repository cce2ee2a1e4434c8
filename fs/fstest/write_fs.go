package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// TestWriteFSWithConfig tests OpenFile and MkdirAll.
func TestWriteFSWithConfig(t *testing.T, area core.TransferArea, config FSTestConfig) {
	t.Run("CreateAndRead", func(t *testing.T) {
		if config.skip(t, "WriteFS/CreateAndRead") {
			return
		}
		want := []byte("hello transfer area")
		writeFile(t, area, "create/file.txt", want)
		if got := readFile(t, area, "create/file.txt"); !bytes.Equal(got, want) {
			t.Errorf("read back: got %q, want %q", got, want)
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		if config.skip(t, "WriteFS/Truncate") {
			return
		}
		writeFile(t, area, "trunc/file.txt", []byte("a much longer original body"))
		writeFile(t, area, "trunc/file.txt", []byte("short"))
		if got := readFile(t, area, "trunc/file.txt"); string(got) != "short" {
			t.Errorf("read back after O_TRUNC: got %q, want %q", got, "short")
		}
	})

	t.Run("MissingParent", func(t *testing.T) {
		if config.skip(t, "WriteFS/MissingParent") {
			return
		}
		_, err := area.OpenFile("nope/child.txt", os.O_WRONLY|os.O_CREATE, 0o644)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("OpenFile(%q) without parent: got error %v, want fs.ErrNotExist", "nope/child.txt", err)
		}
	})

	t.Run("OpenMissingReadOnly", func(t *testing.T) {
		if config.skip(t, "WriteFS/OpenMissingReadOnly") {
			return
		}
		_, err := area.OpenFile("missing.txt", os.O_RDONLY, 0)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("OpenFile(%q, O_RDONLY): got error %v, want fs.ErrNotExist", "missing.txt", err)
		}
	})

	t.Run("Exclusive", func(t *testing.T) {
		if config.skip(t, "WriteFS/Exclusive") {
			return
		}
		writeFile(t, area, "excl.txt", []byte("x"))
		_, err := area.OpenFile("excl.txt", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, fs.ErrExist) {
			t.Errorf("OpenFile(%q, O_EXCL) on existing file: got error %v, want fs.ErrExist", "excl.txt", err)
		}
	})

	t.Run("Append", func(t *testing.T) {
		if config.WriteOnlyFiles || config.skip(t, "WriteFS/Append") {
			t.Skip("append not supported by provider")
		}
		writeFile(t, area, "append.txt", []byte("one"))
		f, err := area.OpenFile("append.txt", os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			t.Fatalf("OpenFile(%q, O_APPEND): got error %v, want nil", "append.txt", err)
		}
		if _, err := f.Write([]byte("two")); err != nil {
			t.Fatalf("Write: got error %v, want nil", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close: got error %v, want nil", err)
		}
		if got := readFile(t, area, "append.txt"); string(got) != "onetwo" {
			t.Errorf("read back after append: got %q, want %q", got, "onetwo")
		}
	})

	t.Run("MkdirAll", func(t *testing.T) {
		if config.skip(t, "WriteFS/MkdirAll") {
			return
		}
		if err := area.MkdirAll("a/b/c", 0o755); err != nil {
			t.Fatalf("MkdirAll(%q): got error %v, want nil", "a/b/c", err)
		}
		for _, dir := range []string{"a", "a/b", "a/b/c"} {
			info, err := area.Stat(dir)
			if err != nil {
				t.Errorf("Stat(%q) after MkdirAll: got error %v, want nil", dir, err)
				continue
			}
			if !info.IsDir() {
				t.Errorf("Stat(%q): IsDir() = false, want true", dir)
			}
		}
		if err := area.MkdirAll("a/b/c", 0o755); err != nil {
			t.Errorf("MkdirAll(%q) again: got error %v, want nil", "a/b/c", err)
		}
	})
}
