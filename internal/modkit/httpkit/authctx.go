package httpkit

import (
	"net/http"
	"strings"

	perr "starforge/internal/platform/errors"
)

var errNoBearer = perr.Unauthorizedf("missing bearer token")

// BearerToken is the credential of an "Authorization: Bearer <token>" header, scheme matched case-insensitively
func BearerToken(r *http.Request) (string, error) {
	scheme, tok, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", errNoBearer
	}
	if tok = strings.TrimSpace(tok); tok == "" {
		return "", errNoBearer
	}
	return tok, nil
}
