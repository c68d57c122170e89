// Package routes compiles route definitions into a table that renders
// exact, validated URLs.
//
// The table provides:
//   - A segment trie walked with Nav (Child for static segments, Call for
//     parameter values)
//   - Reverse lookup by route name (Lookup)
//   - A flat listing of every declared route (All) for handing patterns to
//     a dispatcher
//
// Routes are only generated, never matched: the package has no notion of
// an incoming request.
//
// # Definitions
//
// A definition is either a bare Pattern or a Definition record:
//
//	table, err := routes.New([]routes.Source{
//	    routes.Pattern("/"),
//	    routes.Pattern("/users"),
//	    routes.Definition{
//	        Path:   "/users/:id",
//	        Name:   "user",
//	        Params: map[string]any{"id": validators.Int},
//	        Query:  map[string]any{"tab": validators.OneOf("posts", "likes")},
//	        Meta:   routes.Meta{"title": "Profile"},
//	    },
//	})
//
// Segments starting with ":" are parameters. Empty segments are ignored,
// so "/users/" and "//users" declare the same route as "/users".
//
// # Navigation
//
// Only positions that were declared are routes. Declaring "/users/:id"
// alone does not make "/users" renderable:
//
//	users, _ := table.Routes().Child("users")
//	users.URL()          // NotARouteError unless "/users" was declared
//	user, _ := users.Call(42)
//	user.URL()           // "/users/42"
//	user.Pattern()       // "/users/:id"
//
// Routes returns the container the navigation starts from. It is not a
// route itself; the root route "/" is reached through Index.
//
// # Validators
//
// Parameter and query validators follow the protocol of package parser.
// A rejected value surfaces as *parser.ValidationError.
//
// # Conflicts
//
// Under ConflictStrict (the default) New rejects declarations that
// disagree: "/a/:x" next to "/a/:y", the same path twice, or a repeated
// name. ConflictOverride keeps the last declaration and logs a warning.
package routes
