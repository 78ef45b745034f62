package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(New(CodeNotFound, "complaint not found")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("raw failure")))

	wrapped := Wrap(errors.New("connection refused"), CodeUnavailable, "store unavailable")
	assert.Equal(t, CodeUnavailable, CodeOf(wrapped))
}

func Test_HasCode(t *testing.T) {
	err := New(CodeConflict, "already public")
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("raw"), CodeConflict))
}

func Test_Is_MatchesStructurally(t *testing.T) {
	err := New(CodeForbidden, "complaint belongs to another citizen")

	require.ErrorIs(t, err, New(CodeForbidden, "complaint belongs to another citizen"))

	// An empty target message matches any message with the same code.
	require.ErrorIs(t, err, New(CodeForbidden, ""))

	require.NotErrorIs(t, err, New(CodeForbidden, "different message"))
	require.NotErrorIs(t, err, New(CodeConflict, "complaint belongs to another citizen"))
}

func Test_Wrap_PreservesCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Wrap(cause, CodeUnavailable, "store unavailable")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Contains(t, err.Error(), "connection reset")
}

func Test_Validation_CarriesFields(t *testing.T) {
	err := Validation(map[string]string{
		"title":    "title must be at least 10 characters",
		"category": "invalid category",
	})

	assert.Equal(t, CodeValidation, err.Code)
	assert.Len(t, FieldsOf(err), 2)
	assert.Equal(t, "invalid category", FieldsOf(err)["category"])
}

func Test_WithField_DoesNotMutateOriginal(t *testing.T) {
	base := New(CodeValidation, "request validation failed")
	derived := base.WithField("rating", "rating must be between 1 and 5")

	assert.Nil(t, base.Fields)
	assert.Equal(t, "rating must be between 1 and 5", derived.Fields["rating"])
}

func Test_ToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeBadRequest:   http.StatusBadRequest,
		CodeInvalidInput: http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeNotFound:     http.StatusNotFound,
		CodeForbidden:    http.StatusForbidden,
		CodeConflict:     http.StatusConflict,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
