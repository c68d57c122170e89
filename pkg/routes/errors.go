package routes

import (
	"errors"
	"fmt"

	"github.com/vango-dev/routekit/pkg/parser"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrNotARoute        = errors.New("not a route")
	ErrRouteNotFound    = errors.New("route not found")
	ErrUsage            = errors.New("invalid usage")
	ErrUseRootAccessor  = errors.New("the route container is not a route; use Table.Index for the root route")
	ErrConflict         = errors.New("conflicting route declarations")
	ErrInvalidPath      = errors.New("invalid route path")
	ErrUnknownParameter = errors.New("validator declared for a parameter not in the path")
	ErrMissingParameter = errors.New("missing path parameter")
)

// NotARouteError is returned when rendering a trie position that is only a
// prefix of longer routes.
type NotARouteError struct {
	// Pattern is the pattern that was attempted, e.g. "/users/:id/posts".
	Pattern string
}

func (e *NotARouteError) Error() string {
	return fmt.Sprintf("%s is not a declared route", e.Pattern)
}

// Is makes errors.Is(err, ErrNotARoute) hold.
func (e *NotARouteError) Is(target error) bool {
	return target == ErrNotARoute
}

// RouteNotFoundError is returned by Lookup for an undeclared name.
type RouteNotFoundError struct {
	Name string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRouteNotFound, e.Name)
}

// Is makes errors.Is(err, ErrRouteNotFound) hold.
func (e *RouteNotFoundError) Is(target error) bool {
	return target == ErrRouteNotFound
}

// UsageError reports a malformed call sequence.
type UsageError struct {
	// Op is the operation that was misused (child, call, query, render, lookup).
	Op string

	// Pattern is the position the call was made at.
	Pattern string

	// Err describes the misuse.
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Op, e.Pattern, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUsage) hold.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// DefinitionError reports a route definition rejected at construction.
type DefinitionError struct {
	// Index is the position of the definition in the input.
	Index int

	// Path is the definition's path as declared.
	Path string

	Err error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("route %d (%q): %v", e.Index, e.Path, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// Error kinds returned by Kind.
const (
	KindValidation    = "validation"
	KindNotARoute     = "not_a_route"
	KindRouteNotFound = "route_not_found"
	KindUsage         = "usage"
	KindDefinition    = "definition"
	KindUnknown       = "unknown"
)

// Kind classifies err into one of the Kind constants. It returns "" for a
// nil error.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	var (
		ve *parser.ValidationError
		de *DefinitionError
	)
	switch {
	case errors.As(err, &de):
		return KindDefinition
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrUsage):
		return KindUsage
	case errors.Is(err, ErrNotARoute):
		return KindNotARoute
	case errors.Is(err, ErrRouteNotFound):
		return KindRouteNotFound
	default:
		return KindUnknown
	}
}

func usage(op, pattern string, err error) error {
	return &UsageError{Op: op, Pattern: pattern, Err: err}
}

func usagef(op, pattern, format string, args ...any) error {
	return &UsageError{Op: op, Pattern: pattern, Err: fmt.Errorf(format, args...)}
}
