// Package billy provides go-billy-backed transfer areas implementing
// core.TransferArea.
//
// Three flavours are available:
//
//	// Stage into an existing host directory
//	area := billy.NewLocal("/var/spool/crashplan")
//
//	// Stage in memory, e.g. for tests
//	area := billy.NewMemory()
//
//	// Stage into a private temp directory removed on Close
//	area, err := billy.NewTemp()
//	defer area.Close()
//
// # Thread Safety
//
// Areas are safe for concurrent use by multiple goroutines. File handles are
// not safe for concurrent use.
package billy
