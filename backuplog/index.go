package backuplog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/crashplanfs/errors"
)

// Index is the ordered collection of inclusion records read from one or more
// log files. Record order is file order, then line order.
type Index struct {
	files   []string
	records []Record
}

// New builds an index from already parsed records. files names the logs the
// records came from and may be empty.
func New(records []Record, files ...string) *Index {
	return &Index{
		files:   slices.Clone(files),
		records: slices.Clone(records),
	}
}

// Open reads the configured log files into an index.
//
// With WithFile only that file is read. Otherwise every file in the log
// directory matching the pattern is read in lexical name order. Files are
// parsed concurrently, but records keep the order a sequential read gives.
// An unreadable file, or discovery that finds nothing, fails with
// errors.CodeCreateFailed.
func Open(opts ...Option) (*Index, error) {
	cfg := newConfig(opts...)

	files := []string{cfg.file}
	if cfg.file == "" {
		var err error
		files, err = discover(cfg.dir, cfg.pattern)
		if err != nil {
			return nil, err
		}
		cfg.logger.Debug("discovered backup logs", "dir", cfg.dir, "count", len(files))
	}

	parsed := make([][]Record, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			records, err := parseFile(file)
			if err != nil {
				return err
			}
			parsed[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := &Index{files: files}
	for _, records := range parsed {
		idx.records = append(idx.records, records...)
	}

	cfg.logger.Info("loaded backup log index", "files", len(files), "records", len(idx.records))
	return idx, nil
}

// discover lists log files in dir whose base name matches pattern.
func discover(dir, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "invalid backup log pattern"),
			"pattern", pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeCreateFailed, "unable to read backup log directory"),
			"dir", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && g.Match(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.WithContext(
			errors.New(errors.CodeCreateFailed, fmt.Sprintf("no backup log matching %q", pattern)),
			"dir", dir)
	}
	sort.Strings(files)
	return files, nil
}

func parseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeCreateFailed, "unable to open backup log"),
			"file", path)
	}
	defer func() { _ = f.Close() }()

	records, err := Parse(f)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeCreateFailed, "unable to read backup log"),
			"file", path)
	}
	return records, nil
}

// Files returns the log files the index was built from, in read order.
func (idx *Index) Files() []string {
	return slices.Clone(idx.files)
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Records returns a copy of all records in log order.
func (idx *Index) Records() []Record {
	return slices.Clone(idx.records)
}

// Matching returns the records whose path starts with prefix, in log order.
//
// The test is textual, not per path segment: "/a/b" also matches "/a/bc".
// Callers that need segment semantics check the separator themselves.
func (idx *Index) Matching(prefix string) []Record {
	var out []Record
	for _, rec := range idx.records {
		if strings.HasPrefix(rec.Path, prefix) {
			out = append(out, rec)
		}
	}
	return out
}

// Latest returns the last record for exactly path.
func (idx *Index) Latest(path string) (Record, bool) {
	for i := len(idx.records) - 1; i >= 0; i-- {
		if idx.records[i].Path == path {
			return idx.records[i], true
		}
	}
	return Record{}, false
}

// Describe returns what the log says about path.
//
// If path has its own record, the last one is returned. If it only has
// matching descendants (or textual-prefix neighbours) it is reported as an
// intermediate directory stamped with the time of the last match. It reports
// false when nothing matches.
func (idx *Index) Describe(path string) (Record, bool) {
	matches := idx.Matching(path)
	if len(matches) == 0 {
		return Record{}, false
	}

	var (
		exact Record
		found bool
	)
	for _, rec := range matches {
		if rec.Path == path {
			exact, found = rec, true
		}
	}
	if found {
		return exact, true
	}

	last := matches[len(matches)-1]
	return Record{
		Kind:  KindInclusion,
		Time:  last.Time,
		IsDir: true,
		Path:  path,
	}, true
}

// Children returns the sorted names of the immediate children of dir among
// the records matching dir. Records that only share a textual prefix with
// dir are not children.
func (idx *Index) Children(dir string) []string {
	base := dir
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	seen := make(map[string]struct{})
	for _, rec := range idx.Matching(dir) {
		rest, ok := strings.CutPrefix(rec.Path, base)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		if name != "" {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommonPrefix returns the longest common textual prefix of the paths of all
// records matching under. It returns "" when nothing matches.
func (idx *Index) CommonPrefix(under string) string {
	var (
		prefix string
		first  = true
	)
	for _, rec := range idx.Matching(under) {
		if first {
			prefix, first = rec.Path, false
			continue
		}
		n := 0
		for n < len(prefix) && n < len(rec.Path) && prefix[n] == rec.Path[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}
