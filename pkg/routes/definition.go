package routes

import (
	"fmt"
	"maps"

	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// Meta is an opaque bag of values attached to a route for external
// consumers such as a dispatcher or a sitemap generator.
type Meta map[string]any

func (m Meta) clone() Meta {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Source is anything New accepts as a route definition: a bare Pattern or a
// full Definition.
type Source interface {
	Definition() Definition
}

// Pattern is a route declared by path alone.
//
//	routes.Pattern("/about")
type Pattern string

// Definition implements Source.
func (p Pattern) Definition() Definition {
	return Definition{Path: string(p)}
}

// Definition declares a route.
type Definition struct {
	// Path is the route pattern. Segments starting with ":" are parameters.
	Path string

	// Params maps parameter names to validators. Every key must name a
	// parameter segment of Path.
	Params map[string]any

	// Query maps query keys to validators. When set, query records passed
	// to this route keep only the keys listed here.
	Query map[string]any

	// Name registers the route for Lookup. Optional, unique.
	Name string

	// Meta is attached to the route's trie node and named entry.
	Meta Meta
}

// Definition implements Source.
func (d Definition) Definition() Definition {
	return d
}

// Paths converts bare paths into sources.
func Paths(paths ...string) []Source {
	out := make([]Source, len(paths))
	for i, p := range paths {
		out[i] = Pattern(p)
	}
	return out
}

// normalized is the canonical form of a definition.
type normalized struct {
	index    int
	path     string
	pattern  string
	segments []routepath.Segment
	params   parser.Fields
	query    parser.Fields
	name     string
	meta     Meta
}

func normalize(index int, src Source) (normalized, error) {
	def := src.Definition()
	fail := func(err error) (normalized, error) {
		return normalized{}, &DefinitionError{Index: index, Path: def.Path, Err: err}
	}

	if err := routepath.CheckPattern(def.Path); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrInvalidPath, err))
	}

	segments := routepath.Parse(def.Path)
	names := make(map[string]bool)
	for _, name := range routepath.ParamNames(segments) {
		names[name] = true
	}

	for name, v := range def.Params {
		if !names[name] {
			return fail(fmt.Errorf("%w: %s", ErrUnknownParameter, name))
		}
		if !parser.Supported(v) {
			return fail(fmt.Errorf("parameter %s: %w: %T", name, parser.ErrUnsupportedValidator, v))
		}
	}
	for key, v := range def.Query {
		if !parser.Supported(v) {
			return fail(fmt.Errorf("query %s: %w: %T", key, parser.ErrUnsupportedValidator, v))
		}
	}

	n := normalized{
		index:    index,
		path:     def.Path,
		pattern:  routepath.BuildPattern(segments, false),
		segments: segments,
		name:     def.Name,
		meta:     def.Meta.clone(),
	}
	if len(def.Params) > 0 {
		n.params = parser.Fields(maps.Clone(def.Params))
	}
	if def.Query != nil {
		n.query = parser.Fields(maps.Clone(def.Query))
	}
	return n, nil
}
