package routes_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routes"
	"github.com/vango-dev/routekit/pkg/validators"
)

func mustURL(t *testing.T, n routes.Nav) string {
	t.Helper()
	u, err := n.URL()
	require.NoError(t, err)
	return u
}

func walk(t *testing.T, table *routes.Table, steps ...any) routes.Nav {
	t.Helper()
	n, err := table.Routes().Walk(steps...)
	require.NoError(t, err)
	return n
}

func TestRootAndStatic(t *testing.T) {
	table := routes.MustNew(routes.Paths("/", "/about"))

	assert.Equal(t, "/", mustURL(t, table.Index()))
	assert.Equal(t, "/about", mustURL(t, walk(t, table, "about")))
}

func TestStaticRoundTrip(t *testing.T) {
	paths := []string{"/", "/about", "/docs/getting-started", "/a/b/c/d"}
	table := routes.MustNew(routes.Paths(paths...))

	for _, p := range paths[1:] {
		nav := table.Routes()
		for _, seg := range splitStatic(p) {
			next, ok := nav.Child(seg)
			require.True(t, ok, "segment %q of %s", seg, p)
			nav = next
		}
		assert.Equal(t, p, mustURL(t, nav))
	}
}

func splitStatic(p string) []string {
	var out []string
	start := 1
	for i := 1; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			out = append(out, p[start:i])
			start = i + 1
		}
	}
	return out
}

func TestParam(t *testing.T) {
	table := routes.MustNew(routes.Paths("/users/:id"))

	users, ok := table.Routes().Child("users")
	require.True(t, ok)
	user, err := users.Call("abc")
	require.NoError(t, err)

	assert.Equal(t, "/users/abc", mustURL(t, user))
	pattern, err := user.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "/users/:id", pattern)
}

func TestParamIsEscaped(t *testing.T) {
	table := routes.MustNew(routes.Paths("/files/:name"))
	assert.Equal(t, "/files/a%20b%2Fc", mustURL(t, walk(t, table, "files", "a b/c")))
}

func TestParamValidator(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/users/:id", Params: map[string]any{"id": validators.Int}},
	})
	users, _ := table.Routes().Child("users")

	user, err := users.Call(" 7")
	var ve *parser.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
	assert.ErrorIs(t, err, validators.ErrNotInteger)
	assert.Equal(t, routes.KindValidation, routes.Kind(err))
	assert.False(t, user.IsRoute())

	user, err = users.Call("0042")
	require.NoError(t, err)
	assert.Equal(t, "/users/42", mustURL(t, user))
}

func TestQuery(t *testing.T) {
	table := routes.MustNew(routes.Paths("/search"))
	search, _ := table.Routes().Child("search")

	withQuery, err := search.Call(parser.Pairs("q", "hi", "page", 1))
	require.NoError(t, err)
	assert.Equal(t, "/search?q=hi&page=1", mustURL(t, withQuery))

	// The receiver is untouched.
	assert.Equal(t, "/search", mustURL(t, search))

	empty, err := search.WithQuery(parser.Pairs())
	require.NoError(t, err)
	assert.Equal(t, "/search", mustURL(t, empty))

	fromMap, err := search.Call(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "/search?a=1&b=2", mustURL(t, fromMap))
}

func TestQueryValidator(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{
			Path:  "/users/:id",
			Query: map[string]any{"tab": validators.OneOf("posts", "likes"), "page": validators.Int},
		},
	})
	users, _ := table.Routes().Child("users")

	user, err := users.Call("1", parser.Pairs("debug", "1", "page", "02", "tab", "likes"))
	require.NoError(t, err)
	assert.Equal(t, "/users/1?page=2&tab=likes", mustURL(t, user))

	_, err = users.Call("1", parser.Pairs("tab", "nope"))
	assert.Equal(t, routes.KindValidation, routes.Kind(err))

	// All keys dropped: no "?" at all.
	only, err := user.WithQuery(parser.Pairs("debug", "1"))
	require.NoError(t, err)
	assert.Equal(t, "/users/1", mustURL(t, only))
}

func TestTrailingSlash(t *testing.T) {
	table := routes.MustNew(routes.Paths("/", "/users/:id"), routes.WithTrailingSlash(true))

	assert.Equal(t, "/users/123/", mustURL(t, walk(t, table, "users", 123)))
	assert.Equal(t, "/", mustURL(t, table.Index()))
	assert.True(t, table.TrailingSlash())

	pattern, err := walk(t, table, "users", 1).Pattern()
	require.NoError(t, err)
	assert.Equal(t, "/users/:id/", pattern)
}

func TestTerminalPrefix(t *testing.T) {
	both := routes.MustNew(routes.Paths("/users", "/users/:id"))
	assert.Equal(t, "/users", mustURL(t, walk(t, both, "users")))
	assert.Equal(t, "/users/42", mustURL(t, walk(t, both, "users", 42)))

	onlyParam := routes.MustNew(routes.Paths("/users/:id"))
	users := walk(t, onlyParam, "users")
	_, err := users.URL()

	var nr *routes.NotARouteError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, "/users", nr.Pattern)
	assert.ErrorIs(t, err, routes.ErrNotARoute)
	assert.Equal(t, routes.KindNotARoute, routes.Kind(err))
	assert.False(t, users.IsRoute())

	assert.Equal(t, "/users/42", mustURL(t, walk(t, onlyParam, "users", 42)))
}

func TestNonTerminalPattern(t *testing.T) {
	table := routes.MustNew(routes.Paths("/a/:x/b/c"))
	_, err := walk(t, table, "a", 1, "b").Pattern()

	var nr *routes.NotARouteError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, "/a/:x/b", nr.Pattern)
}

func TestPatternIsIdempotent(t *testing.T) {
	table := routes.MustNew(routes.Paths("/orgs/:org/repos/:repo"))
	a := walk(t, table, "orgs", "acme", "repos", "tools")
	b := walk(t, table, "orgs", "other", "repos", "x")

	for i := 0; i < 3; i++ {
		p, err := a.Pattern()
		require.NoError(t, err)
		assert.Equal(t, "/orgs/:org/repos/:repo", p)
	}
	p, err := b.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "/orgs/:org/repos/:repo", p)
}

func TestContainerIsNotARoute(t *testing.T) {
	table := routes.MustNew(routes.Paths("/", "/about"))

	_, err := table.Routes().URL()
	assert.ErrorIs(t, err, routes.ErrUseRootAccessor)
	assert.ErrorIs(t, err, routes.ErrUsage)
	assert.False(t, table.Routes().IsRoute())

	_, err = table.Routes().WithQuery(parser.Pairs("a", 1))
	assert.ErrorIs(t, err, routes.ErrUseRootAccessor)

	_, ok := table.Routes().Meta()
	assert.False(t, ok)

	index, err := table.Index().WithQuery(parser.Pairs("ref", "home"))
	require.NoError(t, err)
	assert.Equal(t, "/?ref=home", mustURL(t, index))
}

func TestIndexWithoutRootRoute(t *testing.T) {
	table := routes.MustNew(routes.Paths("/about"))

	_, err := table.Index().URL()
	var nr *routes.NotARouteError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, "/", nr.Pattern)
}

func TestChildProbe(t *testing.T) {
	table := routes.MustNew(routes.Paths("/users/:id", "/about"))

	_, ok := table.Routes().Child("missing")
	assert.False(t, ok)

	users, ok := table.Routes().Child("users")
	require.True(t, ok)
	assert.True(t, users.HasParam())

	// A name that is not a static segment is not treated as a value.
	_, ok = users.Child("42")
	assert.False(t, ok)

	assert.Equal(t, []string{"users", "about"}, table.Routes().Children())
}

func TestUsageErrors(t *testing.T) {
	table := routes.MustNew(routes.Paths("/about", "/users/:id"))
	about, _ := table.Routes().Child("about")

	_, err := about.Call(1)
	assert.ErrorIs(t, err, routes.ErrUsage)
	assert.Equal(t, routes.KindUsage, routes.Kind(err))

	users, _ := table.Routes().Child("users")
	_, err = users.Call(parser.Pairs("a", 1))
	assert.ErrorIs(t, err, routes.ErrUsage)
	assert.Equal(t, routes.KindUsage, routes.Kind(err))

	_, err = users.Call("")
	assert.ErrorIs(t, err, routes.ErrUsage)

	_, err = users.Call("1", parser.Pairs(), parser.Pairs())
	assert.ErrorIs(t, err, routes.ErrUsage)

	_, err = table.Routes().Walk("nowhere")
	assert.ErrorIs(t, err, routes.ErrUsage)

	var zero routes.Nav
	_, err = zero.URL()
	assert.ErrorIs(t, err, routes.ErrNotARoute)
	_, ok := zero.Child("x")
	assert.False(t, ok)
}

func TestForksDoNotInterfere(t *testing.T) {
	table := routes.MustNew(routes.Paths("/a/:x", "/a/:x/b", "/a/:x/c"))
	a := walk(t, table, "a", "1")

	b, _ := a.Child("b")
	c, _ := a.Child("c")

	assert.Equal(t, "/a/1/b", mustURL(t, b))
	assert.Equal(t, "/a/1/c", mustURL(t, c))
	assert.Equal(t, "/a/1", mustURL(t, a))

	x, err := a.Call("ignored")
	assert.Error(t, err)
	assert.False(t, x.IsRoute())
}

func TestMeta(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/", Meta: routes.Meta{"title": "Home"}},
		routes.Definition{Path: "/about", Meta: routes.Meta{"title": "About"}},
		routes.Pattern("/plain"),
	})

	meta, ok := table.Index().Meta()
	require.True(t, ok)
	assert.Equal(t, "Home", meta["title"])

	about := walk(t, table, "about")
	meta, ok = about.Meta()
	require.True(t, ok)
	meta["title"] = "changed"

	meta, _ = about.Meta()
	assert.Equal(t, "About", meta["title"])

	_, ok = walk(t, table, "plain").Meta()
	assert.False(t, ok)
}

func TestStringer(t *testing.T) {
	table := routes.MustNew(routes.Paths("/users/:id"))

	user := walk(t, table, "users", 9)
	assert.Equal(t, "see /users/9", fmt.Sprintf("see %s", user))
	assert.Equal(t, mustURL(t, user), user.String())

	users := walk(t, table, "users")
	assert.NotPanics(t, func() { _ = users.String() })
	assert.True(t, strings.HasPrefix(users.String(), "%!v(ROUTE="), users.String())
	assert.Contains(t, fmt.Sprintf("see %v", users), "/users")
}

func TestLookup(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{
			Path:   "/orgs/:org/repos/:repo",
			Name:   "repo",
			Params: map[string]any{"repo": validators.Slug},
			Query:  map[string]any{"tab": validators.String},
			Meta:   routes.Meta{"auth": true},
		},
		routes.Definition{Path: "/search", Name: "search"},
	})

	link, err := table.Lookup("repo", parser.Pairs("org", "acme", "repo", "tools"), parser.Pairs("tab", "issues", "x", 1))
	require.NoError(t, err)
	assert.Equal(t, "/orgs/acme/repos/tools?tab=issues", link.URL())
	assert.Equal(t, "/orgs/:org/repos/:repo", link.Pattern())
	assert.Equal(t, link.URL(), link.String())
	meta, ok := link.Meta()
	require.True(t, ok)
	assert.Equal(t, true, meta["auth"])

	// Same string as a trie walk.
	nav, err := table.Routes().Walk("orgs", "acme", "repos", "tools")
	require.NoError(t, err)
	nav, err = nav.WithQuery(parser.Pairs("tab", "issues", "x", 1))
	require.NoError(t, err)
	assert.Equal(t, link.URL(), mustURL(t, nav))

	search, err := table.Lookup("search", parser.Record{}, parser.Pairs("q", "go"))
	require.NoError(t, err)
	assert.Equal(t, "/search?q=go", search.URL())
	_, ok = search.Meta()
	assert.False(t, ok)
}

func TestLookupErrors(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/users/:id", Name: "user", Params: map[string]any{"id": validators.Int}},
	})

	_, err := table.Lookup("nope", parser.Record{})
	var nf *routes.RouteNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Name)
	assert.ErrorIs(t, err, routes.ErrRouteNotFound)
	assert.Equal(t, routes.KindRouteNotFound, routes.Kind(err))

	_, err = table.Lookup("user", parser.Record{})
	assert.ErrorIs(t, err, routes.ErrMissingParameter)
	assert.Equal(t, routes.KindUsage, routes.Kind(err))

	_, err = table.Lookup("user", parser.Pairs("id", "x"))
	assert.Equal(t, routes.KindValidation, routes.Kind(err))
}

func TestAll(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Pattern("/users/"),
		routes.Definition{Path: "/users/:id", Name: "user", Meta: routes.Meta{"method": "GET"}},
		routes.Pattern("//about"),
	})

	all := table.All()
	require.Len(t, all, 3)
	assert.Equal(t, routes.Info{Pattern: "/users"}, all[0])
	assert.Equal(t, routes.Info{Pattern: "/users/:id", Name: "user", Meta: routes.Meta{"method": "GET"}}, all[1])
	assert.Equal(t, routes.Info{Pattern: "/about"}, all[2])

	all[1].Meta["method"] = "POST"
	assert.Equal(t, "GET", table.All()[1].Meta["method"])

	assert.Equal(t, []string{"user"}, table.Names())
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		defs    []routes.Source
		wantErr error
	}{
		{
			name:    "unknown param validator",
			defs:    []routes.Source{routes.Definition{Path: "/a/:id", Params: map[string]any{"slug": validators.Int}}},
			wantErr: routes.ErrUnknownParameter,
		},
		{
			name:    "unsupported validator",
			defs:    []routes.Source{routes.Definition{Path: "/a/:id", Params: map[string]any{"id": "int"}}},
			wantErr: parser.ErrUnsupportedValidator,
		},
		{
			name:    "unsupported query validator",
			defs:    []routes.Source{routes.Definition{Path: "/a", Query: map[string]any{"q": 1}}},
			wantErr: parser.ErrUnsupportedValidator,
		},
		{
			name:    "bad path",
			defs:    routes.Paths("/a/../b"),
			wantErr: routes.ErrInvalidPath,
		},
		{
			name:    "nil source",
			defs:    []routes.Source{nil},
			wantErr: routes.ErrInvalidPath,
		},
		{
			name:    "param name conflict",
			defs:    routes.Paths("/a/:x", "/a/:y"),
			wantErr: routes.ErrConflict,
		},
		{
			name:    "duplicate path",
			defs:    routes.Paths("/a", "/a/"),
			wantErr: routes.ErrConflict,
		},
		{
			name: "duplicate name",
			defs: []routes.Source{
				routes.Definition{Path: "/a", Name: "x"},
				routes.Definition{Path: "/b", Name: "x"},
			},
			wantErr: routes.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := routes.New(tt.defs)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var de *routes.DefinitionError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, routes.KindDefinition, routes.Kind(err))
		})
	}

	assert.Panics(t, func() { routes.MustNew(routes.Paths("/a", "/a")) })
}

func TestSharedParamEdge(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/users/:id", Params: map[string]any{"id": validators.Int}},
		routes.Pattern("/users/:id/posts"),
	})

	// The validator from the first declaration still applies.
	_, err := table.Routes().Walk("users", "x", "posts")
	assert.Equal(t, routes.KindValidation, routes.Kind(err))

	assert.Equal(t, "/users/5/posts", mustURL(t, walk(t, table, "users", "5", "posts")))
}

func TestLookupMatchesWalkOnSharedParam(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/users/:id", Params: map[string]any{"id": validators.Int}},
		routes.Definition{Path: "/users/:id/posts", Name: "posts"},
	})

	nav := walk(t, table, "users", "007", "posts")
	link, err := table.Lookup("posts", parser.Pairs("id", "007"))
	require.NoError(t, err)
	assert.Equal(t, "/users/7/posts", link.URL())
	assert.Equal(t, mustURL(t, nav), link.URL())

	_, walkErr := table.Routes().Walk("users", "x", "posts")
	_, lookupErr := table.Lookup("posts", parser.Pairs("id", "x"))
	assert.Equal(t, routes.KindValidation, routes.Kind(walkErr))
	assert.Equal(t, routes.KindValidation, routes.Kind(lookupErr))
}

func TestLookupUsesWinningDeclaration(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/docs", Name: "docs", Meta: routes.Meta{"v": 1}},
		routes.Definition{Path: "/docs", Meta: routes.Meta{"v": 2}, Query: map[string]any{"page": validators.Int}},
	}, routes.WithConflictPolicy(routes.ConflictOverride), routes.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	link, err := table.Lookup("docs", parser.Record{}, parser.Pairs("page", "03"))
	require.NoError(t, err)
	nav, err := walk(t, table, "docs").WithQuery(parser.Pairs("page", "03"))
	require.NoError(t, err)

	assert.Equal(t, "/docs?page=3", link.URL())
	assert.Equal(t, mustURL(t, nav), link.URL())
	meta, _ := link.Meta()
	assert.Equal(t, 2, meta["v"])
}

func TestNamedPattern(t *testing.T) {
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/a", Name: "x"},
		routes.Definition{Path: "/b/:id", Name: "x"},
	}, routes.WithConflictPolicy(routes.ConflictOverride), routes.WithTrailingSlash(true),
		routes.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	p, ok := table.Pattern("x")
	require.True(t, ok)
	assert.Equal(t, "/b/:id/", p)

	_, ok = table.Pattern("missing")
	assert.False(t, ok)
}

func TestOverridePolicy(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	table, err := routes.New([]routes.Source{
		routes.Definition{Path: "/a/:x", Name: "first", Meta: routes.Meta{"v": 1}},
		routes.Definition{Path: "/a/:y", Name: "first", Meta: routes.Meta{"v": 2}},
	}, routes.WithConflictPolicy(routes.ConflictOverride), routes.WithLogger(logger))
	require.NoError(t, err)

	nav := walk(t, table, "a", "1")
	p, err := nav.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "/a/:y", p)

	meta, _ := nav.Meta()
	assert.Equal(t, 2, meta["v"])

	link, err := table.Lookup("first", parser.Pairs("y", "1"))
	require.NoError(t, err)
	assert.Equal(t, "/a/:y", link.Pattern())

	assert.Len(t, table.All(), 2)
	assert.Contains(t, logs.String(), "parameter name overridden")
	assert.Contains(t, logs.String(), "route name redeclared")
	assert.Contains(t, logs.String(), "table built")
}

func TestParseConflictPolicy(t *testing.T) {
	p, ok := routes.ParseConflictPolicy("")
	assert.True(t, ok)
	assert.Equal(t, routes.ConflictStrict, p)

	p, ok = routes.ParseConflictPolicy("override")
	assert.True(t, ok)
	assert.Equal(t, routes.ConflictOverride, p)

	_, ok = routes.ParseConflictPolicy("loose")
	assert.False(t, ok)

	assert.Equal(t, "strict", routes.ConflictPolicy("bogus").String())
}

type recorder struct {
	rendered []string
	failed   []string
}

func (r *recorder) Rendered(pattern string)     { r.rendered = append(r.rendered, pattern) }
func (r *recorder) Failed(op string, err error) { r.failed = append(r.failed, op+":"+routes.Kind(err)) }

func TestObserver(t *testing.T) {
	rec := &recorder{}
	table := routes.MustNew([]routes.Source{
		routes.Definition{Path: "/users/:id", Name: "user", Params: map[string]any{"id": validators.Int}},
	}, routes.WithObserver(rec))

	users := walk(t, table, "users")
	_, _ = users.URL()
	_, _ = users.Call("x")
	user, _ := users.Call("1")
	_, _ = user.URL()
	_, _ = table.Lookup("user", parser.Pairs("id", 2))
	_, _ = table.Lookup("missing", parser.Record{})

	// Pattern does not count as a render.
	_, _ = user.Pattern()

	assert.Equal(t, []string{"/users/:id", "/users/:id"}, rec.rendered)
	assert.Equal(t, []string{"render:not_a_route", "call:validation", "lookup:route_not_found"}, rec.failed)
}

func TestObservedScope(t *testing.T) {
	shared, scoped := &recorder{}, &recorder{}
	table := routes.MustNew(routes.Paths("/about"), routes.WithObserver(shared))

	_, err := walk(t, table.Observed(scoped), "about").URL()
	require.NoError(t, err)
	_, err = table.Observed(nil).Routes().URL()
	require.Error(t, err)

	assert.Equal(t, []string{"/about"}, scoped.rendered)
	assert.Empty(t, shared.rendered)
	assert.Empty(t, shared.failed)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", routes.Kind(nil))
	assert.Equal(t, routes.KindUnknown, routes.Kind(errors.New("x")))
	assert.Equal(t, routes.KindUsage, routes.Kind(&routes.UsageError{Op: "x", Err: routes.ErrNotARoute}))
}
