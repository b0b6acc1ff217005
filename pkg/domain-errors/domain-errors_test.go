package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndError(t *testing.T) {
	err := New(CodeNotFound, "buyer not found")
	assert.Equal(t, "buyer not found", err.Error())

	empty := New(CodeInternal, "")
	assert.Equal(t, "internal_error", empty.Error())
}

func TestHasCode(t *testing.T) {
	err := New(CodeValidation, "mobile must be 10 digits")
	assert.True(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeValidation))
	assert.False(t, HasCode(nil, CodeValidation))
}

func TestWrapPreservesCodeAndFields(t *testing.T) {
	inner := NewFields(CodeValidation, "invalid draft", []FieldError{
		{Field: "email", Message: "email must be a valid email"},
	})
	wrapped := Wrap(inner, CodeInternal, "create buyer failed")

	assert.True(t, HasCode(wrapped, CodeValidation), "original code must survive wrapping")
	require.Len(t, FieldsOf(wrapped), 1)
	assert.Equal(t, "email", FieldsOf(wrapped)[0].Field)
	assert.True(t, errors.Is(wrapped, &Error{Code: CodeValidation}))
}

func TestWrapForeignError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeUpstreamUnavailable, "fetch buyers failed")

	assert.True(t, HasCode(wrapped, CodeUpstreamUnavailable))
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrapThroughFmtChain(t *testing.T) {
	err := New(CodeUpstreamTimeout, "request timeout")
	chained := fmt.Errorf("enrich order: %w", err)
	assert.True(t, HasCode(chained, CodeUpstreamTimeout))
}
