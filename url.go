package crashplanfs

import (
	"net/url"

	"github.com/jmgilman/go/crashplanfs/errors"
)

const (
	// Scheme is the URL scheme of crashplanfs locators.
	Scheme = "crashplanfs"

	// PurposeDownload is the only purpose URL supports.
	PurposeDownload = "download"
)

// URL returns a locator for name:
//
//	crashplanfs://<logged path>?logfile=<first log file>
//
// OpenURL turns it back into an equivalent view rooted at that path. The
// root has no locator, and any purpose other than PurposeDownload fails
// with errors.CodeNoURL.
func (f *FS) URL(name, purpose string) (string, error) {
	p := clean(name)
	if p == "/" {
		return "", pathErr(errors.CodeNoURL, nil, "no url for root", p)
	}
	if purpose != PurposeDownload {
		return "", errors.WithContext(
			pathErr(errors.CodeNoURL, nil, "unsupported url purpose", p),
			"purpose", purpose)
	}

	files := f.index.Files()
	if len(files) == 0 {
		return "", pathErr(errors.CodeNoURL, nil, "index has no log file", p)
	}

	u := url.URL{
		Scheme:   Scheme,
		Path:     f.indexKey(p),
		RawQuery: url.Values{"logfile": {files[0]}}.Encode(),
	}
	return u.String(), nil
}

// Locator is a parsed crashplanfs URL.
type Locator struct {
	// Path is the logged path the view is rooted at.
	Path string
	// LogFile is the backup log to read. Empty means discovery.
	LogFile string
}

// ParseURL parses a crashplanfs locator. A missing path means "/".
func ParseURL(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidInput, "malformed crashplanfs url"),
			"url", raw)
	}
	if u.Scheme != Scheme {
		return Locator{}, errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "unsupported url scheme %q", u.Scheme),
			"url", raw)
	}

	// crashplanfs://host/x puts the first segment in Host.
	p := clean(u.Host + "/" + u.Path)
	return Locator{Path: p, LogFile: u.Query().Get("logfile")}, nil
}

// String formats the locator as a URL.
func (l Locator) String() string {
	u := url.URL{Scheme: Scheme, Path: clean(l.Path)}
	if l.LogFile != "" {
		u.RawQuery = url.Values{"logfile": {l.LogFile}}.Encode()
	}
	return u.String()
}

// OpenURL builds a view from a locator. opts are applied after the root and
// log file taken from the URL.
func OpenURL(raw string, opts ...Option) (*FS, error) {
	loc, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}

	all := []Option{WithRoot(loc.Path)}
	if loc.LogFile != "" {
		all = append(all, WithLogFile(loc.LogFile))
	}
	return New(append(all, opts...)...)
}
