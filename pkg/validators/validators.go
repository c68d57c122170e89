// Package validators provides ready-made route validators covering each
// capability recognized by package parser.
//
//	routes.Definition{
//	    Path:   "/users/:id",
//	    Params: map[string]any{"id": validators.Int},
//	}
//
// Lookup resolves a validator from its config spelling ("int", "uuid",
// "oneof:a|b", "cel:int(value) > 0", ...).
package validators

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vango-dev/routekit/pkg/parser"
)

// Validation errors.
var (
	ErrNotInteger  = errors.New("not an integer")
	ErrNotUnsigned = errors.New("not an unsigned integer")
	ErrNotFloat    = errors.New("not a number")
	ErrNotBool     = errors.New("not a boolean")
	ErrNotUUID     = errors.New("not a UUID")
	ErrNoMatch     = errors.New("does not match pattern")
	ErrEmpty       = errors.New("empty value")
)

// Int accepts Go integers and decimal strings and yields an int64.
var Int parser.Func = func(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotInteger, v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotInteger, raw)
	}
}

// Uint accepts non-negative Go integers and decimal strings and yields a
// uint64.
var Uint parser.Func = func(raw any) (any, error) {
	switch v := raw.(type) {
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int:
		if v < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNotUnsigned, v)
		}
		return uint64(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotUnsigned, v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotUnsigned, raw)
	}
}

// Float accepts Go numbers and numeric strings and yields a float64.
var Float parser.Func = func(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotFloat, v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotFloat, raw)
	}
}

// Bool accepts bools and the strings understood by strconv.ParseBool.
var Bool parser.Func = func(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotBool, v)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotBool, raw)
	}
}

// String accepts any value and yields its text form. Empty text is
// rejected.
var String parser.Func = func(raw any) (any, error) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(raw)
	}
	if s == "" {
		return nil, ErrEmpty
	}
	return s, nil
}

// UUID parses UUID strings (and passes uuid.UUID values through). It
// yields a uuid.UUID, which renders in canonical lowercase form.
var UUID parser.Parser = uuidParser{}

type uuidParser struct{}

func (uuidParser) Parse(raw any) (any, error) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotUUID, err)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotUUID, raw)
	}
}

// Pattern validates the text form of a value against a regular expression.
// It implements parser.SyncValidator and yields the text.
type Pattern struct {
	re *regexp.Regexp
}

// Regexp compiles expr into a Pattern.
func Regexp(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re}, nil
}

// MustRegexp is like Regexp but panics on error.
func MustRegexp(expr string) *Pattern {
	p, err := Regexp(expr)
	if err != nil {
		panic(fmt.Sprintf("validators: %v", err))
	}
	return p
}

// ValidateSync implements parser.SyncValidator.
func (p *Pattern) ValidateSync(raw any) (any, error) {
	s := fmt.Sprint(raw)
	if str, ok := raw.(string); ok {
		s = str
	}
	if !p.re.MatchString(s) {
		return nil, fmt.Errorf("%w %s: %q", ErrNoMatch, p.re, s)
	}
	return s, nil
}

// Slug accepts lowercase words joined by single hyphens.
var Slug = MustRegexp(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Enum accepts a fixed set of strings. It implements parser.Decoder and
// reports rejections as a failure payload listing the allowed values.
type Enum struct {
	values []string
}

// OneOf returns an Enum accepting values.
func OneOf(values ...string) *Enum {
	return &Enum{values: append([]string(nil), values...)}
}

// Decode implements parser.Decoder.
func (e *Enum) Decode(raw any) parser.Decoded {
	s := fmt.Sprint(raw)
	for _, v := range e.values {
		if v == s {
			return parser.Success(v)
		}
	}
	return parser.Failure(map[string]any{
		"expected": e.values,
		"got":      s,
	})
}

// Chain runs validators in order, feeding each output to the next.
func Chain(validators ...any) parser.Func {
	return func(raw any) (any, error) {
		value := raw
		for _, v := range validators {
			out, err := parser.Run(v, value)
			if err != nil {
				return nil, err
			}
			value = out
		}
		return value, nil
	}
}

// Lookup resolves a validator spec as written in route config files:
//
//	int, uint, float, bool, string, uuid, slug
//	regexp:<expression>
//	oneof:<a>|<b>|...
//	cel:<expression over "value">
func Lookup(spec string) (any, error) {
	name, arg, hasArg := strings.Cut(spec, ":")
	name = strings.ToLower(strings.TrimSpace(name))

	if !hasArg {
		switch name {
		case "int":
			return Int, nil
		case "uint":
			return Uint, nil
		case "float":
			return Float, nil
		case "bool":
			return Bool, nil
		case "string":
			return String, nil
		case "uuid":
			return UUID, nil
		case "slug":
			return Slug, nil
		}
		return nil, fmt.Errorf("unknown validator %q", spec)
	}

	switch name {
	case "regexp":
		return Regexp(arg)
	case "oneof":
		if arg == "" {
			return nil, fmt.Errorf("validator %q: no values", spec)
		}
		return OneOf(strings.Split(arg, "|")...), nil
	case "cel":
		return CEL(arg)
	}
	return nil, fmt.Errorf("unknown validator %q", spec)
}
