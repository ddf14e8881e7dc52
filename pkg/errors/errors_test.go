package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePatentNotFound, "patent not found")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodePatentNotFound, err.Code)
	assert.Equal(t, "[PAT_001] patent not found", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestErrorWithDetail(t *testing.T) {
	err := New(ErrCodePersonNotFound, "person not found").WithDetail("tax_number=7707083893")
	assert.Equal(t, "[PRS_001] person not found: tax_number=7707083893", err.Error())
}

func TestWithDetailNilReceiver(t *testing.T) {
	var err *AppError
	assert.Nil(t, err.WithDetail("anything"))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "failed to count patents")
	require.NotNil(t, err)
	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeDatabaseError, "never happens"))
}

func TestWrapPreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodeFilterNotFound, "filter not found")
	outer := Wrap(inner, CodeUnknown, "while resolving filter")
	assert.Equal(t, ErrCodeFilterNotFound, outer.Code)
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeNotFound, "x"), true},
		{New(ErrCodePatentNotFound, "x"), true},
		{New(ErrCodePersonNotFound, "x"), true},
		{New(ErrCodeFilterNotFound, "x"), true},
		{New(ErrCodeInternal, "x"), false},
		{stderrors.New("plain"), false},
		{nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsNotFound(tc.err), "err=%v", tc.err)
	}
}

func TestIsNotFoundThroughChain(t *testing.T) {
	inner := New(ErrCodePatentNotFound, "missing")
	wrapped := fmt.Errorf("listing failed: %w", inner)
	assert.True(t, IsNotFound(wrapped))
}

func TestIsCode(t *testing.T) {
	err := Wrap(New(ErrCodeCacheError, "redis down"), CodeInternal, "stats failed")
	assert.True(t, IsCode(err, ErrCodeCacheError))
	assert.True(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(err, ErrCodeFilterNotFound))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeExportFailed, GetCode(New(ErrCodeExportFailed, "boom")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodePatentNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(ErrCodeBadRequest))
	assert.Equal(t, http.StatusConflict, HTTPStatusForCode(ErrCodePersonAlreadyExists))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE")))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.False(t, IsServerError(ErrCodeBadRequest))
	assert.True(t, IsServerError(ErrCodeDatabaseError))
}
