package parser

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedValidator is wrapped by the ValidationError returned when a
// validator exposes none of the supported capabilities.
var ErrUnsupportedValidator = errors.New("unsupported validator")

// Func is a validator that is called directly.
type Func func(raw any) (any, error)

// Parser is a validator exposing a Parse method.
type Parser interface {
	Parse(raw any) (any, error)
}

// SyncValidator is a validator exposing a ValidateSync method.
type SyncValidator interface {
	ValidateSync(raw any) (any, error)
}

// Decoder is a validator that reports failure through its result instead
// of an error.
type Decoder interface {
	Decode(raw any) Decoded
}

// Tag discriminates a Decoded result.
type Tag int

const (
	// TagSuccess marks a Decoded carrying a value.
	TagSuccess Tag = iota

	// TagFailure marks a Decoded carrying a failure payload.
	TagFailure
)

func (t Tag) String() string {
	switch t {
	case TagSuccess:
		return "success"
	case TagFailure:
		return "failure"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Decoded is the two-variant result of a Decoder.
type Decoded struct {
	Tag     Tag
	Value   any
	Failure any
}

// Success returns a successful Decoded.
func Success(v any) Decoded {
	return Decoded{Tag: TagSuccess, Value: v}
}

// Failure returns a failed Decoded carrying payload.
func Failure(payload any) Decoded {
	return Decoded{Tag: TagFailure, Failure: payload}
}

// DecodeError is the cause attached to a ValidationError when a Decoder
// returns a failure.
type DecodeError struct {
	Payload any
}

func (e *DecodeError) Error() string {
	return "decode failed: " + serializePayload(e.Payload)
}

// ValidationError reports a value rejected by its validator.
type ValidationError struct {
	// Field is the parameter or query key, empty when validating a bare value.
	Field string

	// Value is the raw value that was rejected.
	Value any

	// Err is the validator's error.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid value %v for %q: %v", e.Value, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid value %v: %v", e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Run validates raw with v and returns the transformed value.
func Run(v any, raw any) (any, error) {
	out, err := run(v, raw)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &ValidationError{Value: raw, Err: err}
	}
	return out, nil
}

// RunField is Run with the field name recorded on failure.
func RunField(field string, v any, raw any) (any, error) {
	out, err := Run(v, raw)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Field == "" {
			// The validator may hand back a shared error value.
			named := *ve
			named.Field = field
			return nil, &named
		}
		return nil, err
	}
	return out, nil
}

func run(v any, raw any) (any, error) {
	switch fn := v.(type) {
	case Func:
		return fn(raw)
	case func(any) (any, error):
		return fn(raw)
	case Parser:
		return fn.Parse(raw)
	case SyncValidator:
		return fn.ValidateSync(raw)
	case Decoder:
		res := fn.Decode(raw)
		if res.Tag == TagFailure {
			return nil, &DecodeError{Payload: res.Failure}
		}
		return res.Value, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValidator, v)
	}
}

// Supported reports whether v exposes one of the validator capabilities.
func Supported(v any) bool {
	switch v.(type) {
	case Func, func(any) (any, error), Parser, SyncValidator, Decoder:
		return true
	}
	return false
}

func serializePayload(p any) string {
	if err, ok := p.(error); ok {
		return err.Error()
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%v", p)
	}
	return string(b)
}
