package routes

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// errNoParam is the usage error for a value supplied where no parameter
// segment follows.
var errNoParam = errors.New("no parameter segment follows this position")

// Nav is a position in a route table plus the path and query resolved so
// far. Navs are values: every method returns a new Nav and leaves the
// receiver untouched, so a Nav can be forked freely.
//
//	users, _ := table.Routes().Child("users")
//	user, err := users.Call(42)
//	url, err := user.URL() // "/users/42"
type Nav struct {
	table     *Table
	node      *node
	segments  []routepath.Segment
	query     parser.Record
	container bool
}

// Child descends into the static segment name. It reports false when no
// such segment was declared at this position.
func (n Nav) Child(name string) (Nav, bool) {
	if n.node == nil {
		return Nav{}, false
	}
	child := n.node.findChild(name)
	if child == nil {
		return Nav{}, false
	}
	return n.descend(child, routepath.StaticSegment(name)), true
}

// Children returns the static segment names declared at this position.
func (n Nav) Children() []string {
	if n.node == nil {
		return nil
	}
	names := make([]string, len(n.node.children))
	for i, child := range n.node.children {
		names[i] = child.segment
	}
	return names
}

// HasParam reports whether a parameter segment follows this position.
func (n Nav) HasParam() bool {
	return n.node != nil && n.node.param != nil
}

// Call supplies a value for the parameter segment that follows, running it
// through that segment's validator. An optional query record is validated
// by the reached route's query validators.
//
// When value is a parser.Record or map[string]any, Call is instead a
// query-only call on the current position, the same as WithQuery.
func (n Nav) Call(value any, query ...parser.Record) (Nav, error) {
	next, err := n.call(value, query)
	if err != nil {
		n.observer().Failed("call", err)
		return Nav{}, err
	}
	return next, nil
}

func (n Nav) call(value any, query []parser.Record) (Nav, error) {
	if rec, ok := asRecord(value); ok {
		if len(query) > 0 {
			return Nav{}, usagef("call", n.pattern(), "query record given twice")
		}
		return n.withQuery(rec)
	}

	if n.node == nil || n.node.param == nil {
		return Nav{}, usage("call", n.pattern(), errNoParam)
	}

	child := n.node.param
	resolved := value
	if child.paramValidator != nil {
		v, err := parser.RunField(child.paramName, child.paramValidator, value)
		if err != nil {
			return Nav{}, err
		}
		resolved = v
	}

	text, err := paramText(child.paramName, resolved)
	if err != nil {
		return Nav{}, usage("call", n.pattern(), err)
	}

	next := n.descend(child, routepath.ParamSegment(child.paramName, text))
	if len(query) == 0 {
		return next, nil
	}

	q, err := n.table.resolveQuery("call", next.pattern(), child.query, query)
	if err != nil {
		return Nav{}, err
	}
	next.query = q
	return next, nil
}

// WithQuery replaces the query of the current route. The position must be
// a declared route; the record runs through the route's query validators.
func (n Nav) WithQuery(query parser.Record) (Nav, error) {
	next, err := n.withQuery(query)
	if err != nil {
		n.observer().Failed("query", err)
		return Nav{}, err
	}
	return next, nil
}

func (n Nav) withQuery(query parser.Record) (Nav, error) {
	if n.container {
		return Nav{}, usage("query", n.pattern(), ErrUseRootAccessor)
	}
	if n.node == nil || !n.node.terminal {
		return Nav{}, usage("query", n.pattern(), &NotARouteError{Pattern: n.pattern()})
	}

	q, err := n.table.resolveQuery("query", n.pattern(), n.node.query, []parser.Record{query})
	if err != nil {
		return Nav{}, err
	}

	next := n
	next.segments = slices.Clone(n.segments)
	next.query = q
	return next, nil
}

// Walk descends through steps in order. A string step naming a static
// segment descends into it; any other step is passed to Call. This is the
// fluent form of Child and Call:
//
//	nav, err := table.Routes().Walk("users", 42, "posts")
func (n Nav) Walk(steps ...any) (Nav, error) {
	cur := n
	for _, step := range steps {
		if name, ok := step.(string); ok {
			if next, ok := cur.Child(name); ok {
				cur = next
				continue
			}
			if !cur.HasParam() {
				err := usagef("walk", cur.pattern(), "no segment %q and no parameter at this position", name)
				n.observer().Failed("walk", err)
				return Nav{}, err
			}
		}

		next, err := cur.Call(step)
		if err != nil {
			return Nav{}, err
		}
		cur = next
	}
	return cur, nil
}

// IsRoute reports whether the position is a declared route.
func (n Nav) IsRoute() bool {
	return !n.container && n.node != nil && n.node.terminal
}

// Render produces the link for the current position.
func (n Nav) Render() (Link, error) {
	link, err := n.render()
	if err != nil {
		n.observer().Failed("render", err)
		return Link{}, err
	}
	n.observer().Rendered(link.pattern)
	return link, nil
}

func (n Nav) render() (Link, error) {
	if n.container {
		return Link{}, usage("render", n.pattern(), ErrUseRootAccessor)
	}
	if n.node == nil || !n.node.terminal {
		return Link{}, &NotARouteError{Pattern: n.pattern()}
	}
	return n.table.link(n.segments, n.query, n.node.meta), nil
}

// URL renders the current position as a URL path with query.
func (n Nav) URL() (string, error) {
	link, err := n.Render()
	if err != nil {
		return "", err
	}
	return link.url, nil
}

// Pattern renders the current position with ":name" placeholders.
func (n Nav) Pattern() (string, error) {
	link, err := n.render()
	if err != nil {
		return "", err
	}
	return link.pattern, nil
}

// String implements fmt.Stringer and returns the same text as URL. A
// position that cannot be rendered yields "%!v(ROUTE=<error>)", in the
// style fmt uses for bad verbs; use URL to get the error itself.
func (n Nav) String() string {
	u, err := n.URL()
	if err != nil {
		return fmt.Sprintf("%%!v(ROUTE=%v)", err)
	}
	return u
}

// Query returns the query record resolved at this position.
func (n Nav) Query() parser.Record {
	return n.query
}

// Meta returns the metadata of the current route.
func (n Nav) Meta() (Meta, bool) {
	if n.container || n.node == nil || n.node.meta == nil {
		return nil, false
	}
	return n.node.meta.clone(), true
}

func (n Nav) descend(child *node, seg routepath.Segment) Nav {
	segments := make([]routepath.Segment, len(n.segments), len(n.segments)+1)
	copy(segments, n.segments)
	return Nav{
		table:    n.table,
		node:     child,
		segments: append(segments, seg),
	}
}

func (n Nav) pattern() string {
	return routepath.BuildPattern(n.segments, false)
}

func (n Nav) observer() Observer {
	if n.table == nil {
		return nopObserver{}
	}
	return n.table.opts.Observer
}

func asRecord(v any) (parser.Record, bool) {
	switch r := v.(type) {
	case parser.Record:
		return r, true
	case map[string]any:
		return parser.FromMap(r), true
	}
	return parser.Record{}, false
}

// GoString keeps %#v output readable.
func (n Nav) GoString() string {
	return fmt.Sprintf("routes.Nav{pattern: %q, route: %t}", n.pattern(), n.IsRoute())
}
