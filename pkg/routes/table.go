package routes

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// Table is a compiled set of route definitions. It is immutable after New
// and safe for concurrent use.
type Table struct {
	root  *node
	named map[string]*namedEntry
	all   []Info
	opts  Options
}

// Info describes one declared route, as returned by All.
type Info struct {
	// Pattern is the normalized path, e.g. "/users/:id".
	Pattern string

	// Name is the route name, empty when none was declared.
	Name string

	// Meta is a copy of the route metadata.
	Meta Meta
}

// namedEntry holds everything Lookup needs without walking the trie.
type namedEntry struct {
	pattern    string
	segments   []routepath.Segment
	paramNames []string
	params     parser.Fields
	query      parser.Fields
	meta       Meta
	index      int
}

// New compiles definitions into a Table.
//
//	table, err := routes.New([]routes.Source{
//	    routes.Pattern("/"),
//	    routes.Pattern("/about"),
//	    routes.Definition{
//	        Path:   "/users/:id",
//	        Name:   "user",
//	        Params: map[string]any{"id": validators.Int},
//	    },
//	})
func New(defs []Source, opts ...Option) (*Table, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	options.Conflicts = options.Conflicts.normalize()
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Observer == nil {
		options.Observer = nopObserver{}
	}

	t := &Table{
		named: make(map[string]*namedEntry),
		all:   make([]Info, 0, len(defs)),
		opts:  options,
	}
	builder := newTreeBuilder(options.Conflicts, options.Logger)

	for i, src := range defs {
		if src == nil {
			return nil, &DefinitionError{Index: i, Err: fmt.Errorf("%w: nil definition", ErrInvalidPath)}
		}

		def, err := normalize(i, src)
		if err != nil {
			return nil, err
		}

		if err := builder.insert(def); err != nil {
			return nil, err
		}

		if def.name != "" {
			if err := t.register(def); err != nil {
				return nil, err
			}
		}

		t.all = append(t.all, Info{Pattern: def.pattern, Name: def.name, Meta: def.meta})
	}

	t.root = builder.root
	t.bind()

	options.Logger.Debug("routes: table built",
		slog.Int("routes", len(t.all)),
		slog.Int("named", len(t.named)),
		slog.Bool("trailing_slash", options.TrailingSlash),
		slog.String("conflicts", options.Conflicts.String()))

	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(defs []Source, opts ...Option) *Table {
	t, err := New(defs, opts...)
	if err != nil {
		panic(fmt.Sprintf("routes: %v", err))
	}
	return t
}

func (t *Table) register(def normalized) error {
	if prev, ok := t.named[def.name]; ok {
		if t.opts.Conflicts == ConflictStrict {
			return &DefinitionError{
				Index: def.index,
				Path:  def.path,
				Err:   fmt.Errorf("%w: name %q already used by route %d", ErrConflict, def.name, prev.index),
			}
		}
		t.opts.Logger.Warn("routes: route name redeclared, keeping last",
			slog.String("name", def.name),
			slog.String("previous", prev.pattern),
			slog.String("pattern", def.pattern))
	}

	t.named[def.name] = &namedEntry{
		pattern:    def.pattern,
		segments:   slices.Clone(def.segments),
		paramNames: routepath.ParamNames(def.segments),
		params:     def.params,
		query:      def.query,
		meta:       def.meta,
		index:      def.index,
	}
	return nil
}

// bind resolves every named entry against the built trie, so Lookup applies
// the parameter validators, query fields and meta that navigation applies
// along the same path.
func (t *Table) bind() {
	for _, entry := range t.named {
		n := t.root
		params := make(parser.Fields)
		for _, seg := range entry.segments {
			if seg.Kind == routepath.Static {
				n = n.findChild(seg.Name)
				continue
			}
			n = n.param
			if n.paramValidator != nil {
				params[seg.Name] = n.paramValidator
			}
		}
		entry.params = params
		entry.query = n.query
		entry.meta = n.meta
	}
}

// Observed returns a Table sharing t's routes that reports to o instead of
// the observer t was built with. It is cheap enough to call per request.
func (t *Table) Observed(o Observer) *Table {
	if o == nil {
		o = nopObserver{}
	}
	scoped := *t
	scoped.opts.Observer = o
	return &scoped
}

// Routes returns the route container: the entry point for navigating by
// path segment. The container itself cannot be rendered; use Index for the
// root route.
func (t *Table) Routes() Nav {
	return Nav{table: t, node: t.root, container: true}
}

// Index returns the root route ("/"). Rendering it fails with
// NotARouteError unless "/" was declared.
func (t *Table) Index() Nav {
	return Nav{table: t, node: t.root}
}

// Lookup renders the route registered under name. Each path parameter must
// be present in params; values run through the route's parameter validators.
// An optional query record runs through the route's query validators.
func (t *Table) Lookup(name string, params parser.Record, query ...parser.Record) (Link, error) {
	link, err := t.lookup(name, params, query)
	if err != nil {
		t.opts.Observer.Failed("lookup", err)
		return Link{}, err
	}
	t.opts.Observer.Rendered(link.pattern)
	return link, nil
}

func (t *Table) lookup(name string, params parser.Record, query []parser.Record) (Link, error) {
	entry, ok := t.named[name]
	if !ok {
		return Link{}, &RouteNotFoundError{Name: name}
	}

	validated, err := entry.params.Validate(params)
	if err != nil {
		return Link{}, err
	}

	segments := slices.Clone(entry.segments)
	for i, seg := range segments {
		if seg.Kind != routepath.Param {
			continue
		}
		v, ok := validated.Get(seg.Name)
		if !ok {
			v, ok = params.Get(seg.Name)
		}
		if !ok {
			return Link{}, usage("lookup", entry.pattern, fmt.Errorf("%w: %s", ErrMissingParameter, seg.Name))
		}
		value, err := paramText(seg.Name, v)
		if err != nil {
			return Link{}, usage("lookup", entry.pattern, err)
		}
		segments[i].Value = value
	}

	q, err := t.resolveQuery("lookup", entry.pattern, entry.query, query)
	if err != nil {
		return Link{}, err
	}

	return t.link(segments, q, entry.meta), nil
}

// All returns every declared route in declaration order.
func (t *Table) All() []Info {
	out := make([]Info, len(t.all))
	for i, info := range t.all {
		out[i] = Info{Pattern: info.Pattern, Name: info.Name, Meta: info.Meta.clone()}
	}
	return out
}

// Names returns the registered route names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.named))
	for name := range t.named {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Pattern returns the pattern of the route registered under name, with the
// trailing-slash option applied.
func (t *Table) Pattern(name string) (string, bool) {
	entry, ok := t.named[name]
	if !ok {
		return "", false
	}
	return routepath.BuildPattern(entry.segments, t.opts.TrailingSlash), true
}

// TrailingSlash reports whether rendered paths end in "/".
func (t *Table) TrailingSlash() bool {
	return t.opts.TrailingSlash
}

func (t *Table) link(segments []routepath.Segment, query parser.Record, meta Meta) Link {
	return Link{
		url:     routepath.BuildPath(segments, query, t.opts.TrailingSlash),
		pattern: routepath.BuildPattern(segments, t.opts.TrailingSlash),
		meta:    meta,
	}
}

// resolveQuery validates the optional query argument against fields. A nil
// fields set means the route declared no query validators and the record is
// kept as given.
func (t *Table) resolveQuery(op, pattern string, fields parser.Fields, query []parser.Record) (parser.Record, error) {
	switch len(query) {
	case 0:
		return parser.Record{}, nil
	case 1:
	default:
		return parser.Record{}, usagef(op, pattern, "expected at most one query record, got %d", len(query))
	}

	if fields == nil {
		return query[0], nil
	}
	return fields.Validate(query[0])
}

// paramText converts a validated parameter value into segment text.
func paramText(name string, v any) (string, error) {
	text := routepath.Stringify(v)
	if text == "" {
		return "", fmt.Errorf("empty value for parameter :%s", name)
	}
	return text, nil
}
