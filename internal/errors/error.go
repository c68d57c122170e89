package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routes"
)

// Category represents the type of error.
type Category string

const (
	CategoryDefinition Category = "definition"
	CategoryNavigation Category = "navigation"
	CategoryValidation Category = "validation"
	CategoryLookup     Category = "lookup"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Location represents a position in a routes file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a coded error with location and suggestions.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the routes file position the error points at.
	Location *Location

	// Context contains surrounding file lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at a file position and loads the lines
// around it.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, contextRadius)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail replaces the explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// contextRadius is the number of lines shown on each side of a location.
const contextRadius = 2

func readContextLines(filename string, targetLine, radius int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - radius
	endLine := targetLine + radius

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates an Error from a registered code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError classifies err into a coded Error. An *Error anywhere in the
// chain is returned as is.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(CodeFor(err)).Wrap(err)
}

// CodeFor returns the registry code for a library error.
func CodeFor(err error) string {
	switch {
	case stderrors.Is(err, routes.ErrConflict):
		return "R002"
	case stderrors.Is(err, routes.ErrUnknownParameter):
		return "R003"
	case stderrors.Is(err, parser.ErrUnsupportedValidator):
		return "R004"
	case stderrors.Is(err, routes.ErrMissingParameter):
		return "R013"
	case stderrors.Is(err, routes.ErrUseRootAccessor):
		return "R014"
	}

	switch routes.Kind(err) {
	case routes.KindDefinition:
		return "R001"
	case routes.KindNotARoute:
		return "R010"
	case routes.KindRouteNotFound:
		return "R011"
	case routes.KindUsage:
		return "R012"
	case routes.KindValidation:
		return "R020"
	}
	return "R099"
}
