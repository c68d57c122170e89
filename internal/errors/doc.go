// Package errors provides structured, actionable error messages for the
// routekit command.
//
// Every error reported by the CLI carries a code (e.g. "R002") that maps to:
//   - A category (definition, navigation, validation, lookup, config, cli)
//   - A short message
//   - A longer explanation
//
// Library errors from package routes are classified with FromError, which
// picks the code from routes.Kind and the sentinel the error wraps.
//
// # Usage
//
//	err := errors.New("R002").
//	    WithLocation("routes.yaml", 14, 5).
//	    WithSuggestion("Use the same parameter name in both paths")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Conflicting route declarations
//	//
//	//   routes.yaml:14:5
//	//
//	//     12 │   - path: /users/:id
//	//     13 │     name: user
//	//   → 14 │   - path: /users/:uid/posts
//	//        │     ^
//	//     15 │     name: posts
//	//
//	//   Hint: Use the same parameter name in both paths
package errors
