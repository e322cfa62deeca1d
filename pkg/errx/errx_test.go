package errx_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRegistry = errx.NewRegistry("TEST")

var (
	codeMissing = testRegistry.Register("MISSING", errx.TypeNotFound, http.StatusNotFound, "Thing not found")
	codeDefault = testRegistry.Register("DEFAULTED", errx.TypeForbidden, 0, "Not for you")
)

func TestRegistryNew(t *testing.T) {
	err := testRegistry.New(codeMissing).WithDetail("id", "42")

	assert.Equal(t, "TEST_MISSING", err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "42", err.Details["id"])
	assert.Equal(t, "[TEST_MISSING] Thing not found", err.Error())
}

func TestRegisterDefaultsStatusFromType(t *testing.T) {
	err := testRegistry.New(codeDefault)
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus)
}

func TestWrapKeepsRegisteredCode(t *testing.T) {
	base := testRegistry.New(codeMissing)
	wrapped := errx.Wrap(base, "lookup failed", errx.TypeInternal)

	assert.Equal(t, "TEST_MISSING", wrapped.Code)
	assert.Equal(t, http.StatusNotFound, wrapped.HTTPStatus)
	assert.True(t, errors.Is(wrapped, testRegistry.New(codeMissing)))
}

func TestWrapPlainError(t *testing.T) {
	cause := errors.New("boom")
	wrapped := errx.Wrap(cause, "save failed", errx.TypeInternal)

	require.NotNil(t, wrapped)
	assert.Equal(t, http.StatusInternalServerError, wrapped.HTTPStatus)
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, errx.Wrap(nil, "nothing", errx.TypeInternal))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, errx.From(nil))

	coded := testRegistry.New(codeMissing)
	assert.Same(t, coded, errx.From(coded))

	plain := errx.From(errors.New("x"))
	assert.Equal(t, errx.TypeInternal, plain.Type)
}

func TestIsType(t *testing.T) {
	assert.True(t, errx.IsType(errx.Conflict("stale"), errx.TypeConflict))
	assert.False(t, errx.IsType(errors.New("x"), errx.TypeConflict))
}

func TestToResponse(t *testing.T) {
	err := testRegistry.NewWithCause(codeMissing, errors.New("db down"))

	resp := err.ToResponse("req-1", false)
	assert.Equal(t, "Thing not found", resp.Error)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Empty(t, resp.Cause)

	debug := err.ToResponse("req-1", true)
	assert.Equal(t, "db down", debug.Cause)
}

func TestCodesSorted(t *testing.T) {
	assert.Equal(t, []string{"TEST_DEFAULTED", "TEST_MISSING"}, testRegistry.Codes())
}

func TestHasCode(t *testing.T) {
	reg := errx.NewRegistry("CAMP")
	notFound := reg.Register("NOT_FOUND", errx.TypeNotFound, 0, "Camp not found")
	closed := reg.Register("CLOSED", errx.TypeBusiness, 0, "Camp is closed")

	err := fmt.Errorf("load: %w", reg.New(notFound))
	assert.True(t, errx.HasCode(err, notFound))
	assert.False(t, errx.HasCode(err, closed))
	assert.False(t, errx.HasCode(nil, notFound))
}
