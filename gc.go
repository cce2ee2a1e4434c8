package crashplanfs

import (
	"io/fs"
	"sort"
	"strings"

	"github.com/jmgilman/go/crashplanfs/errors"
)

// GCReport summarizes one collection pass over the transfer area.
// Paths are transfer area names.
type GCReport struct {
	Scanned int
	Removed []string
	Kept    []string
	Failed  []string
}

// collect deletes staged entries whose logged copy is at least as new.
//
// The whole area is walked before anything is deleted. Entries with no log
// record are new and kept, as are entries strictly newer than their record.
// Candidates are removed deepest first so directories emptied by the pass
// can go too. A failed removal is logged and the pass continues.
//
// Log lookups match textually, so a staged file /a/b with only /a/bc
// logged is described as a logged directory and removed unless it is
// newer than /a/bc's record.
func (f *FS) collect() GCReport {
	var (
		report     GCReport
		candidates []string
	)

	err := f.area.Walk(".", func(key string, d fs.DirEntry, err error) error {
		if err != nil {
			f.logger.Warn("skipping unreadable staged entry", "path", key, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if key == "." {
			return nil
		}
		report.Scanned++

		info, err := d.Info()
		if err != nil {
			f.logger.Warn("skipping unreadable staged entry", "path", key, "error", err)
			return nil
		}

		rec, ok := f.index.Describe(loggedPath(key))
		switch {
		case !ok:
			f.logger.Debug("keeping new staged entry", "path", key)
			report.Kept = append(report.Kept, key)
		case !rec.Time.Before(info.ModTime()):
			candidates = append(candidates, key)
		default:
			f.logger.Debug("keeping staged entry newer than backup", "path", key,
				"local", info.ModTime(), "remote", rec.Time)
			report.Kept = append(report.Kept, key)
		}
		return nil
	})
	if err != nil {
		f.logger.Warn("transfer area walk ended early", "error", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := strings.Count(candidates[i], "/"), strings.Count(candidates[j], "/")
		if di != dj {
			return di > dj
		}
		return candidates[i] > candidates[j]
	})

	for _, key := range candidates {
		if entries, err := f.area.ReadDir(key); err == nil && len(entries) > 0 {
			f.logger.Debug("keeping backed-up directory with staged children", "path", key)
			report.Kept = append(report.Kept, key)
			continue
		}

		if err := f.area.Remove(key); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Removed = append(report.Removed, key)
				continue
			}
			f.logger.Warn("unable to remove backed-up staged entry", "path", key, "error", err)
			report.Failed = append(report.Failed, key)
			continue
		}
		f.logger.Debug("removed backed-up staged entry", "path", key)
		report.Removed = append(report.Removed, key)
	}

	f.logger.Info("transfer area collected",
		"scanned", report.Scanned,
		"removed", len(report.Removed),
		"kept", len(report.Kept),
		"failed", len(report.Failed),
	)
	return report
}
