package fstest

import (
	"io"
	"os"
	"path"
	"testing"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// writeFile creates name (and its parents) with data, failing the test on error.
func writeFile(t *testing.T, area core.TransferArea, name string, data []byte) {
	t.Helper()
	if dir := path.Dir(name); dir != "." {
		if err := area.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%q): setup failed: %v", dir, err)
		}
	}
	f, err := area.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("OpenFile(%q): setup failed: %v", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		t.Fatalf("Write(%q): setup failed: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(%q): setup failed: %v", name, err)
	}
}

// readFile returns the content of name, failing the test on error.
func readFile(t *testing.T, area core.TransferArea, name string) []byte {
	t.Helper()
	f, err := area.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile(%q, O_RDONLY): got error %v, want nil", name, err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll(%q): got error %v, want nil", name, err)
	}
	return data
}
