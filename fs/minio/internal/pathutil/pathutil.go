// Package pathutil normalizes names into MinIO/S3 object keys.
package pathutil

import (
	"path"
	"strings"
)

// Normalize cleans a name into slash-separated relative form.
// Backslashes become slashes, ".." cannot climb above the root, and the
// root is returned as ".".
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}
	return name[1:]
}

// NormalizePrefix normalizes a key prefix. The root prefix is "".
func NormalizePrefix(prefix string) string {
	prefix = Normalize(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}

// JoinPath joins a prefix with a name to create a full S3 key.
// The root of an unprefixed area is the empty key.
func JoinPath(prefix, name string) string {
	name = Normalize(name)
	switch {
	case name == ".":
		return prefix
	case prefix == "":
		return name
	default:
		return prefix + "/" + name
	}
}
