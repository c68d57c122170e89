package routepath

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/routekit/pkg/parser"
)

// BuildPath renders resolved segments as a URL path followed by the encoded
// query. Parameter values are path-escaped. With trailingSlash the path ends
// in "/". An empty query adds nothing, not even "?".
func BuildPath(segments []Segment, query parser.Record, trailingSlash bool) string {
	var b strings.Builder
	writePath(&b, segments, trailingSlash, func(seg Segment) string {
		if seg.Kind == Param {
			return url.PathEscape(seg.Value)
		}
		return seg.Name
	})

	if q := EncodeQuery(query); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

// BuildPattern renders segments with ":name" placeholders in place of
// parameter values.
func BuildPattern(segments []Segment, trailingSlash bool) string {
	var b strings.Builder
	writePath(&b, segments, trailingSlash, func(seg Segment) string {
		if seg.Kind == Param {
			return ":" + seg.Name
		}
		return seg.Name
	})
	return b.String()
}

// EncodeQuery encodes a record as a query string in record order, without
// the leading "?". Unlike url.Values.Encode, keys are not sorted.
func EncodeQuery(query parser.Record) string {
	if query.Len() == 0 {
		return ""
	}

	var b strings.Builder
	for i, f := range query.Fields() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(Stringify(f.Value)))
	}
	return b.String()
}

// Stringify converts a resolved value into its URL text.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func writePath(b *strings.Builder, segments []Segment, trailingSlash bool, text func(Segment) string) {
	b.WriteByte('/')
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(text(seg))
	}

	if trailingSlash && !strings.HasSuffix(b.String(), "/") {
		b.WriteByte('/')
	}
}
