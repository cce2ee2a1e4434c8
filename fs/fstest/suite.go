// Package fstest provides a conformance test suite for transfer area
// providers implementing core.TransferArea.
//
// The suite checks the contract the backup view relies on (existence checks,
// parent-directory handling on open, empty-directory removal, lexical walks,
// modification times) rather than backend specifics.
//
// Example usage:
//
//	func TestMyProvider(t *testing.T) {
//	    fstest.TestSuite(t, func() core.TransferArea {
//	        return myprovider.New()
//	    })
//	}
package fstest

import (
	"testing"

	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// FSTestConfig configures the suite to match backend characteristics.
type FSTestConfig struct {
	// VirtualDirectories indicates directories only exist while they hold
	// entries or a marker object (S3-like backends).
	VirtualDirectories bool

	// WriteOnlyFiles indicates files cannot be opened read-write or appended
	// to (object stores upload whole objects on Close).
	WriteOnlyFiles bool

	// SkipTests lists test names to skip, e.g. "WalkFS/Lexical".
	SkipTests []string
}

// POSIXTestConfig returns configuration for local and in-memory areas.
func POSIXTestConfig() FSTestConfig {
	return FSTestConfig{}
}

// ObjectStoreTestConfig returns configuration for MinIO/S3 areas.
func ObjectStoreTestConfig() FSTestConfig {
	return FSTestConfig{
		VirtualDirectories: true,
		WriteOnlyFiles:     true,
	}
}

func (c FSTestConfig) skip(t *testing.T, name string) bool {
	t.Helper()
	for _, s := range c.SkipTests {
		if s == name {
			t.Skip("Skipped by provider configuration")
			return true
		}
	}
	return false
}

// TestSuite runs every conformance test with POSIXTestConfig.
// newArea must return a fresh, empty area on each call.
func TestSuite(t *testing.T, newArea func() core.TransferArea) {
	TestSuiteWithConfig(t, newArea, POSIXTestConfig())
}

// TestSuiteWithConfig runs every conformance test with the given config.
func TestSuiteWithConfig(t *testing.T, newArea func() core.TransferArea, config FSTestConfig) {
	t.Run("ReadFS", func(t *testing.T) {
		if config.skip(t, "ReadFS") {
			return
		}
		TestReadFSWithConfig(t, newArea(), config)
	})
	t.Run("WriteFS", func(t *testing.T) {
		if config.skip(t, "WriteFS") {
			return
		}
		TestWriteFSWithConfig(t, newArea(), config)
	})
	t.Run("ManageFS", func(t *testing.T) {
		if config.skip(t, "ManageFS") {
			return
		}
		TestManageFSWithConfig(t, newArea(), config)
	})
	t.Run("WalkFS", func(t *testing.T) {
		if config.skip(t, "WalkFS") {
			return
		}
		TestWalkFSWithConfig(t, newArea(), config)
	})
	t.Run("TimesFS", func(t *testing.T) {
		if config.skip(t, "TimesFS") {
			return
		}
		TestTimesFSWithConfig(t, newArea(), config)
	})
}
