// Package crashplanfs presents a CrashPlan backup as a read/write filesystem.
//
// The view merges two sources. The backup log (see package backuplog) says
// which paths were backed up and when; it never holds content. A transfer
// area (any core.TransferArea) holds files created or changed since the
// backup. Reads of metadata consult both, writes only ever touch the
// transfer area, and when the view is built every staged entry the log
// proves to be backed up at least as recently is deleted.
//
// # Paths
//
// Paths are slash-separated and absolute within the view; "/" is the view
// root. WithRoot exposes a subtree of the backup, so with root
// "/my/crashplan/backups" the view path "/vms" refers to the logged path
// "/my/crashplan/backups/vms". The transfer area mirrors the full logged
// namespace: that same path is staged under "my/crashplan/backups/vms".
//
// # Precedence
//
// When a path exists in both sources the log wins unless WithPreferLocal is
// set and the staged copy is strictly newer. Equal times count as backed up.
//
// # Basic usage
//
//	cfs, err := crashplanfs.New(
//	    crashplanfs.WithLogFile("/usr/local/crashplan/log/backup_files.log.0"),
//	    crashplanfs.WithRoot("/my/crashplan/backups"),
//	    crashplanfs.WithPreferLocal(true),
//	)
//	if err != nil {
//	    return err
//	}
//	defer cfs.Close()
//
//	names, err := cfs.ReadDir("/vms")
//
// Opening a file that only exists in the log fails with a not-found error:
// the log records metadata, never content.
package crashplanfs
