package crashplanfs

import (
	"path"
	"strings"
)

// clean turns any caller-supplied name into an absolute view path.
func clean(name string) string {
	return path.Clean("/" + name)
}

// cleanPrefix normalizes the configured root into a prefix without leading
// or trailing slashes. The whole backup is the empty prefix.
func cleanPrefix(root string) string {
	return strings.TrimPrefix(clean(root), "/")
}

// indexKey maps a view path to the path recorded in the backup log.
func (f *FS) indexKey(p string) string {
	p = clean(p)
	if f.prefix == "" {
		return p
	}
	return path.Join("/", f.prefix, p)
}

// localKey maps a view path to its transfer area name. The area mirrors the
// logged namespace, so this is the index key made relative.
func (f *FS) localKey(p string) string {
	return areaKey(f.indexKey(p))
}

// areaKey makes a logged path relative to the transfer area root.
func areaKey(logged string) string {
	k := strings.TrimPrefix(logged, "/")
	if k == "" {
		return "."
	}
	return k
}

// loggedPath is the inverse of areaKey.
func loggedPath(key string) string {
	return clean(key)
}
