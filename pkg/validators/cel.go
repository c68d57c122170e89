package validators

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// ErrRejected is returned when a CEL expression evaluates to false.
var ErrRejected = errors.New("rejected by expression")

// Expr validates values with a CEL expression over the variable "value".
// The expression must evaluate to a bool; the value passes unchanged.
//
//	v, err := validators.CEL(`int(value) > 0 && int(value) < 1000`)
type Expr struct {
	source  string
	program cel.Program
}

// CEL compiles expr.
func CEL(expr string) (*Expr, error) {
	env, err := cel.NewEnv(
		cel.Variable("value", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", expr, issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for %q: %w", expr, err)
	}

	return &Expr{source: expr, program: program}, nil
}

// MustCEL is like CEL but panics on error.
func MustCEL(expr string) *Expr {
	e, err := CEL(expr)
	if err != nil {
		panic(fmt.Sprintf("validators: %v", err))
	}
	return e
}

// ValidateSync implements parser.SyncValidator.
func (e *Expr) ValidateSync(raw any) (any, error) {
	out, _, err := e.program.Eval(map[string]any{"value": raw})
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", e.source, err)
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return nil, fmt.Errorf("expression %q returned %T, want bool", e.source, out.Value())
	}
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrRejected, e.source)
	}
	return raw, nil
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.source
}
