// Package backuplog reads CrashPlan backup_files.log files into an in-memory
// index of inclusion records.
//
// Each inclusion line has the shape
//
//	I 08/21/18 12:14AM 41 0123456789abcdef0123456789abcdef 0 /my/crashplan/backups/vms/vm.vmdk
//
// holding a marker, a date and time, an opaque field, a 32-character hash,
// a directory flag and the backed-up path. Lines of any other shape are
// dropped. The index is never re-read once built and is safe for concurrent
// readers.
//
// Lookups are by textual prefix over record paths in log order:
//
//	idx, err := backuplog.Open(backuplog.WithDir("/usr/local/crashplan/log"))
//	if err != nil {
//	    return err
//	}
//	rec, ok := idx.Describe("/my/crashplan/backups/vms")
package backuplog
