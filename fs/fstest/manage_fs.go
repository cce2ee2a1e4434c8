package fstest

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// TestManageFSWithConfig tests Remove.
func TestManageFSWithConfig(t *testing.T, area core.TransferArea, config FSTestConfig) {
	t.Run("RemoveFile", func(t *testing.T) {
		if config.skip(t, "ManageFS/RemoveFile") {
			return
		}
		writeFile(t, area, "rm/file.txt", []byte("x"))
		if err := area.Remove("rm/file.txt"); err != nil {
			t.Fatalf("Remove(%q): got error %v, want nil", "rm/file.txt", err)
		}
		if ok, _ := area.Exists("rm/file.txt"); ok {
			t.Errorf("Exists(%q) after Remove = true, want false", "rm/file.txt")
		}
	})

	t.Run("RemoveEmptyDir", func(t *testing.T) {
		if config.skip(t, "ManageFS/RemoveEmptyDir") {
			return
		}
		if err := area.MkdirAll("empty", 0o755); err != nil {
			t.Fatalf("MkdirAll(%q): setup failed: %v", "empty", err)
		}
		if err := area.Remove("empty"); err != nil {
			t.Fatalf("Remove(%q): got error %v, want nil", "empty", err)
		}
		if ok, _ := area.Exists("empty"); ok {
			t.Errorf("Exists(%q) after Remove = true, want false", "empty")
		}
	})

	t.Run("RemoveNonEmptyDir", func(t *testing.T) {
		if config.skip(t, "ManageFS/RemoveNonEmptyDir") {
			return
		}
		writeFile(t, area, "full/file.txt", []byte("x"))
		if err := area.Remove("full"); !errors.Is(err, core.ErrNotEmpty) {
			t.Errorf("Remove(%q) on non-empty directory: got error %v, want core.ErrNotEmpty", "full", err)
		}
		if ok, _ := area.Exists("full/file.txt"); !ok {
			t.Errorf("Exists(%q) after failed Remove = false, want true", "full/file.txt")
		}
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		if config.skip(t, "ManageFS/RemoveMissing") {
			return
		}
		err := area.Remove("ghost.txt")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Remove(%q): got error %v, want fs.ErrNotExist", "ghost.txt", err)
		}
	})
}
