// Package core defines the transfer area contract used by crashplanfs.
//
// A transfer area is the mutable local staging store that sits under the
// read-only backup view: files created or modified since the last backup live
// here until the backup log proves a copy of equal or newer age exists remotely.
//
// # Interface Hierarchy
//
// TransferArea is composed of small focused interfaces:
//
//   - ReadFS: Stat, ReadDir, Exists
//   - WriteFS: OpenFile, MkdirAll
//   - ManageFS: Remove
//   - WalkFS: Walk
//   - TimesFS: Chtimes
//
// Optional File capabilities (io.Seeker, Truncater, Syncer) are discovered
// with type assertions.
//
// # Provider Implementations
//
// This package only holds contracts. Providers live in sibling packages:
//
//   - fs/billy - local disk, in-memory and ephemeral temp-dir areas (go-billy)
//   - fs/minio - MinIO/S3 object store area
//
// The fs/fstest package validates any provider against these contracts.
package core
