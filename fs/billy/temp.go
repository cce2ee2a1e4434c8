package billy

import (
	"fmt"
	"os"
	"sync"
)

// TempFS is an ephemeral LocalFS in a freshly created host directory.
// Whoever creates it owns it and must call Close to delete the directory.
type TempFS struct {
	*LocalFS

	mu     sync.Mutex
	closed bool
}

// NewTemp creates a new ephemeral transfer area under the configured parent
// directory (os.TempDir by default).
func NewTemp(opts ...Option) (*TempFS, error) {
	cfg := newConfig(opts...)

	dir, err := os.MkdirTemp(cfg.tempDir, cfg.pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary transfer area: %w", err)
	}
	return &TempFS{LocalFS: NewLocal(dir)}, nil
}

// Close removes the directory and everything staged in it.
// Calling Close more than once is a no-op.
func (t *TempFS) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return os.RemoveAll(t.root)
}
