package fstest

import (
	"io/fs"
	"slices"
	"testing"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// TestWalkFSWithConfig tests Walk ordering and SkipDir handling.
func TestWalkFSWithConfig(t *testing.T, area core.TransferArea, config FSTestConfig) {
	writeFile(t, area, "walk/b/two.txt", []byte("2"))
	writeFile(t, area, "walk/a/one.txt", []byte("1"))
	writeFile(t, area, "walk/c.txt", []byte("3"))

	t.Run("Lexical", func(t *testing.T) {
		if config.skip(t, "WalkFS/Lexical") {
			return
		}
		var got []string
		err := area.Walk("walk", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			got = append(got, p)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk(%q): got error %v, want nil", "walk", err)
		}
		want := []string{"walk", "walk/a", "walk/a/one.txt", "walk/b", "walk/b/two.txt", "walk/c.txt"}
		if !slices.Equal(got, want) {
			t.Errorf("Walk(%q) visited %v, want %v", "walk", got, want)
		}
	})

	t.Run("SkipDir", func(t *testing.T) {
		if config.skip(t, "WalkFS/SkipDir") {
			return
		}
		var got []string
		err := area.Walk("walk", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && p == "walk/a" {
				return fs.SkipDir
			}
			got = append(got, p)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk(%q): got error %v, want nil", "walk", err)
		}
		if slices.Contains(got, "walk/a/one.txt") {
			t.Errorf("Walk(%q) descended into skipped directory: %v", "walk", got)
		}
		if !slices.Contains(got, "walk/b/two.txt") {
			t.Errorf("Walk(%q) missed %q after SkipDir: %v", "walk", "walk/b/two.txt", got)
		}
	})

	t.Run("Root", func(t *testing.T) {
		if config.skip(t, "WalkFS/Root") {
			return
		}
		var files int
		err := area.Walk(".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				files++
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Walk(%q): got error %v, want nil", ".", err)
		}
		if files != 3 {
			t.Errorf("Walk(%q) saw %d files, want 3", ".", files)
		}
	})
}
