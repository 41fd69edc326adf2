package net_test

import (
	"context"
	"net/http"
	"testing"

	perr "starforge/internal/platform/errors"
	pnet "starforge/internal/platform/net"

	"github.com/stretchr/testify/require"
)

func TestRequestContext(t *testing.T) {
	t.Parallel()

	base := context.Background()
	require.Equal(t, base, pnet.WithRequestID(base, ""))
	require.Equal(t, base, pnet.WithCaller(base, ""))
	require.Empty(t, pnet.RequestID(base))
	require.Empty(t, pnet.Caller(base))

	ctx := pnet.WithCaller(pnet.WithRequestID(base, "rid-7"), "api")
	require.Equal(t, "rid-7", pnet.RequestID(ctx))
	require.Equal(t, "api", pnet.Caller(ctx))

	outer := pnet.TrackCaller(base)
	require.Empty(t, pnet.Caller(outer))
	_ = pnet.WithCaller(outer, "api")
	require.Equal(t, "api", pnet.Caller(outer))
}

func TestError(t *testing.T) {
	t.Parallel()

	status, w := pnet.Error(perr.Unauthorizedf("invalid bearer token"), "rid-1")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, pnet.Wire{
		StatusCode: http.StatusUnauthorized,
		Status:     "Unauthorized",
		Code:       perr.ErrorCodeUnauthorized,
		Error:      "invalid bearer token",
		RequestID:  "rid-1",
	}, w)

	status, w = pnet.Error(nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, w.Error)
}
