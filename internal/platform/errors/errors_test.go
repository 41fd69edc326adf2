package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	t.Parallel()

	for code, want := range map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeConflict:        http.StatusConflict,
		ErrorCodeDuplicateKey:    http.StatusConflict,
		ErrorCodeUnauthorized:    http.StatusUnauthorized,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
		ErrorCode(999):           http.StatusInternalServerError,
	} {
		require.Equal(t, want, HTTPStatusCode(code), code.String())
	}
}

func TestCodeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "not_found", ErrorCodeNotFound.String())
	require.Equal(t, "code(999)", ErrorCode(999).String())
}

func TestWrapChain(t *testing.T) {
	t.Parallel()

	cause := stderrs.New("connection reset")
	err := Wrapf(cause, ErrorCodeUnavailable, "staging: insert batch %d", 3)
	outer := fmt.Errorf("refresh: %w", err)

	require.Equal(t, "staging: insert batch 3: connection reset", err.Error())
	require.Equal(t, ErrorCodeUnavailable, CodeOf(outer))
	require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(outer))
	require.Same(t, cause, Root(outer))
	require.ErrorIs(t, outer, cause)

	e, ok := As(outer)
	require.True(t, ok)
	require.Equal(t, ErrorCodeUnavailable, e.Code())
}

func TestForeignErrors(t *testing.T) {
	t.Parallel()

	plain := stderrs.New("boom")
	require.Equal(t, ErrorCodeUnknown, CodeOf(plain))
	require.Equal(t, Wire{Code: ErrorCodeUnknown, Message: "boom"}, WireFrom(plain))
	require.Equal(t, Wire{}, WireFrom(nil))
	require.Nil(t, Root(nil))

	var nilErr *Error
	require.Equal(t, "<nil>", nilErr.Error())
}

func TestWireHidesCause(t *testing.T) {
	t.Parallel()

	err := Wrap(stderrs.New("password=hunter2"), ErrorCodeDB, "quality: load runs")
	require.Equal(t, Wire{Code: ErrorCodeDB, Message: "quality: load runs"}, WireFrom(err))
}

func TestSugar(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code ErrorCode
	}{
		{InvalidArgf("bad %s", "x"), ErrorCodeInvalidArgument},
		{JSONErrf("bad"), ErrorCodeJSON},
		{PanicErrf("bad"), ErrorCodePanic},
		{Unauthorizedf("bad"), ErrorCodeUnauthorized},
		{Conflictf("bad"), ErrorCodeConflict},
		{Unavailablef("bad"), ErrorCodeUnavailable},
		{Internalf("bad"), ErrorCodeUnknown},
		{New(ErrorCodeNotFound, "bad"), ErrorCodeNotFound},
	}
	for _, c := range cases {
		require.Equal(t, c.code, CodeOf(c.err))
	}
	require.Equal(t, "bad x", cases[0].err.Error())
}
