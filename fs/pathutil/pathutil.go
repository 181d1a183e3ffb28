// Package pathutil resolves user-supplied paths against a flat,
// "/"-delimited key namespace.
//
// Every function is pure. Normalization only trims delimiters: keys on
// object stores may legitimately contain ".." or doubled delimiters, so
// nothing is cleaned or collapsed.
package pathutil

import "strings"

// Delimiter separates key components.
const Delimiter = "/"

// Normalize trims leading and trailing delimiters. It is idempotent.
func Normalize(path string) string {
	return strings.Trim(path, Delimiter)
}

// IsDirHint reports whether the raw path ends with the delimiter, meaning
// the caller explicitly named a directory.
func IsDirHint(path string) bool {
	return strings.HasSuffix(path, Delimiter)
}

// DirKey returns the directory form of path: normalized with exactly one
// trailing delimiter, or "" for the root.
func DirKey(path string) string {
	n := Normalize(path)
	if n == "" {
		return ""
	}
	return n + Delimiter
}

// Join concatenates base and name with exactly one delimiter between them.
// An empty base yields name unchanged.
func Join(base, name string) string {
	b := strings.TrimRight(base, Delimiter)
	n := strings.TrimLeft(name, Delimiter)
	if b == "" {
		return n
	}
	return b + Delimiter + n
}

// Base returns the last component of path after trimming delimiters.
func Base(path string) string {
	n := Normalize(path)
	if i := strings.LastIndex(n, Delimiter); i >= 0 {
		return n[i+1:]
	}
	return n
}

// Parent returns the normalized parent of path, or "" at the top level.
func Parent(path string) string {
	n := Normalize(path)
	if i := strings.LastIndex(n, Delimiter); i >= 0 {
		return n[:i]
	}
	return ""
}

// RelativeTo returns fullKey with baseKey removed as a component-wise
// prefix. When the two are equal it returns the base name of fullKey, and
// when fullKey is outside baseKey it falls back to the base name as well.
// The result is never empty for a non-empty fullKey.
func RelativeTo(fullKey, baseKey string) string {
	full := Normalize(fullKey)
	base := Normalize(baseKey)

	switch {
	case full == base:
		return Base(full)
	case base == "":
		return full
	case strings.HasPrefix(full, base+Delimiter):
		return full[len(base)+1:]
	default:
		return Base(full)
	}
}

// IsWithin reports whether key equals base or lies beneath it.
func IsWithin(key, base string) bool {
	k := Normalize(key)
	b := Normalize(base)
	return b == "" || k == b || strings.HasPrefix(k, b+Delimiter)
}

// Depth returns the number of delimiters inside the normalized path.
func Depth(path string) int {
	return strings.Count(Normalize(path), Delimiter)
}

// HasDoubledDelimiter reports whether key contains an empty component,
// which signals key-normalization drift on the backend.
func HasDoubledDelimiter(key string) bool {
	return strings.Contains(key, Delimiter+Delimiter)
}

// Ancestors returns the directory keys from the top level down to path
// itself, e.g. "a/b/c" yields ["a/", "a/b/", "a/b/c/"].
func Ancestors(path string) []string {
	n := Normalize(path)
	if n == "" {
		return nil
	}

	var (
		dirs    []string
		current string
	)
	for _, part := range strings.Split(n, Delimiter) {
		if part == "" {
			continue
		}
		current += part + Delimiter
		dirs = append(dirs, current)
	}
	return dirs
}
