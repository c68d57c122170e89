// Package routepath parses route patterns into segments and renders
// segments back into URL paths and query strings.
package routepath

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern errors.
var (
	ErrBackslashInPath    = errors.New("path contains backslash")
	ErrNullByteInPath     = errors.New("path contains null byte")
	ErrQueryInPath        = errors.New("path contains query or fragment")
	ErrDotSegment         = errors.New("path contains . or .. segment")
	ErrEmptyParamName     = errors.New("parameter segment has no name")
	ErrDuplicateParamName = errors.New("parameter declared twice in one path")
)

// CheckPattern rejects route patterns that could not render to a clean
// URL path:
//   - backslashes and NUL bytes
//   - "?" or "#" (query and fragment belong to the query record)
//   - "." and ".." segments
//   - ":" with no parameter name
//   - the same parameter name twice
//
// Empty segments are allowed; Parse drops them.
func CheckPattern(pattern string) error {
	if strings.Contains(pattern, "\\") {
		return ErrBackslashInPath
	}

	if strings.Contains(pattern, "\x00") || strings.Contains(strings.ToUpper(pattern), "%00") {
		return ErrNullByteInPath
	}

	if strings.ContainsAny(pattern, "?#") {
		return ErrQueryInPath
	}

	seen := make(map[string]bool)
	for _, seg := range strings.Split(pattern, "/") {
		switch {
		case seg == "." || seg == "..":
			return ErrDotSegment
		case seg == ":":
			return ErrEmptyParamName
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if seen[name] {
				return fmt.Errorf("%w: %s", ErrDuplicateParamName, name)
			}
			seen[name] = true
		}
	}

	return nil
}

// Normalize returns the canonical form of a pattern: a leading slash,
// no empty segments, no trailing slash (except for root).
//
//	"users//:id/" → "/users/:id"
//	""            → "/"
func Normalize(pattern string) string {
	return BuildPattern(Parse(pattern), false)
}
