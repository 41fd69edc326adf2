package api

import (
	"crypto/subtle"
	"net/http"

	"starforge/internal/modkit/httpkit"
	perr "starforge/internal/platform/errors"
)

// tokenAuth accepts one shared bearer token, callers are recorded as "api"
type tokenAuth struct{ token string }

func (a tokenAuth) Parse(r *http.Request) (string, error) {
	raw, err := httpkit.BearerToken(r)
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(raw), []byte(a.token)) != 1 {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return "api", nil
}
