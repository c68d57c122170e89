package parser_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/parser"
)

var errNotNumber = errors.New("not a number")

func atoi(raw any) (any, error) {
	n, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		return nil, errNotNumber
	}
	return n, nil
}

type parseShape struct{}

func (parseShape) Parse(raw any) (any, error) { return atoi(raw) }

type syncShape struct{}

func (syncShape) ValidateSync(raw any) (any, error) { return atoi(raw) }

type decodeShape struct{}

func (decodeShape) Decode(raw any) parser.Decoded {
	n, err := atoi(raw)
	if err != nil {
		return parser.Failure(map[string]string{"reason": "expected digits"})
	}
	return parser.Success(n)
}

// both exposes Parse and ValidateSync; Parse must win.
type both struct{}

func (both) Parse(raw any) (any, error)        { return "parse", nil }
func (both) ValidateSync(raw any) (any, error) { return "sync", nil }

func TestRunShapes(t *testing.T) {
	tests := []struct {
		name      string
		validator any
	}{
		{"Func", parser.Func(atoi)},
		{"plain func", atoi},
		{"Parser", parseShape{}},
		{"SyncValidator", syncShape{}},
		{"Decoder", decodeShape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Run(tt.validator, "42")
			require.NoError(t, err)
			assert.Equal(t, 42, got)

			_, err = parser.Run(tt.validator, "abc")
			var ve *parser.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "abc", ve.Value)
		})
	}
}

func TestRunPriority(t *testing.T) {
	got, err := parser.Run(both{}, "x")
	require.NoError(t, err)
	assert.Equal(t, "parse", got)
}

func TestRunKeepsCause(t *testing.T) {
	_, err := parser.RunField("id", parser.Func(atoi), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotNumber)

	var ve *parser.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestRunFieldCopiesReturnedError(t *testing.T) {
	shared := &parser.ValidationError{Value: "v", Err: errNotNumber}
	v := parser.Func(func(any) (any, error) { return nil, shared })

	_, errA := parser.RunField("a", v, "v")
	_, errB := parser.RunField("b", v, "v")

	var a, b *parser.ValidationError
	require.ErrorAs(t, errA, &a)
	require.ErrorAs(t, errB, &b)
	assert.Equal(t, "a", a.Field)
	assert.Equal(t, "b", b.Field)
	assert.Empty(t, shared.Field)
	assert.ErrorIs(t, errB, errNotNumber)
}

func TestRunDecodeFailurePayload(t *testing.T) {
	_, err := parser.Run(decodeShape{}, "x")
	require.Error(t, err)

	var de *parser.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), `{"reason":"expected digits"}`)
}

func TestRunUnsupported(t *testing.T) {
	for _, v := range []any{nil, 42, "int", struct{}{}} {
		_, err := parser.Run(v, "1")
		require.Error(t, err)
		assert.ErrorIs(t, err, parser.ErrUnsupportedValidator)
		assert.False(t, parser.Supported(v))
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, parser.Supported(parser.Func(atoi)))
	assert.True(t, parser.Supported(atoi))
	assert.True(t, parser.Supported(parseShape{}))
	assert.True(t, parser.Supported(syncShape{}))
	assert.True(t, parser.Supported(decodeShape{}))
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "success", parser.TagSuccess.String())
	assert.Equal(t, "failure", parser.TagFailure.String())
	assert.True(t, strings.HasPrefix(parser.Tag(7).String(), "Tag("))
}
