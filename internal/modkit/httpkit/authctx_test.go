package httpkit

import (
	"net/http/httptest"
	"testing"

	perr "starforge/internal/platform/errors"

	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer s3cret", "s3cret", true},
		{"bearer s3cret", "s3cret", true},
		{"BEARER   padded  ", "padded", true},
		{"", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer    ", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/v1/quality/issues", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, err := BearerToken(r)
		if !tt.ok {
			require.Equal(t, perr.ErrorCodeUnauthorized, perr.CodeOf(err), tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		require.Equal(t, tt.want, got)
	}
}
