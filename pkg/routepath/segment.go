package routepath

import "strings"

// Kind tells static and parameter segments apart.
type Kind uint8

const (
	// Static is a literal segment.
	Static Kind = iota

	// Param is a segment bound to a caller-supplied value.
	Param
)

func (k Kind) String() string {
	if k == Param {
		return "param"
	}
	return "static"
}

// Segment is one piece of a route path.
type Segment struct {
	Kind Kind

	// Name is the literal text for static segments and the parameter name
	// (without ":") for parameter segments.
	Name string

	// Value is the resolved value of a parameter segment. Unused for
	// static segments.
	Value string
}

// StaticSegment returns a static segment.
func StaticSegment(name string) Segment {
	return Segment{Kind: Static, Name: name}
}

// ParamSegment returns a resolved parameter segment.
func ParamSegment(name, value string) Segment {
	return Segment{Kind: Param, Name: name, Value: value}
}

// IsParam reports whether s is a parameter segment.
func (s Segment) IsParam() bool {
	return s.Kind == Param
}

// Parse splits a pattern into segments. Empty pieces are dropped, so "/a/b",
// "/a/b/" and "//a/b" parse identically, and the root pattern yields no
// segments at all.
func Parse(pattern string) []Segment {
	parts := split(pattern)
	if len(parts) == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, ":") {
			segments = append(segments, Segment{Kind: Param, Name: part[1:]})
		} else {
			segments = append(segments, Segment{Kind: Static, Name: part})
		}
	}
	return segments
}

// ParamNames returns the parameter names of segments in path order.
func ParamNames(segments []Segment) []string {
	var names []string
	for _, seg := range segments {
		if seg.Kind == Param {
			names = append(names, seg.Name)
		}
	}
	return names
}

func split(pattern string) []string {
	var parts []string
	for _, part := range strings.Split(pattern, "/") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
