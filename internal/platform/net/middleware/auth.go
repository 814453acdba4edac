package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "incidencia/internal/platform/errors"
	pnet "incidencia/internal/platform/net"
)

// Authenticator decides whether a request may reach a protected route
type Authenticator interface {
	Authenticate(r *http.Request) error
}

// StaticToken accepts "Authorization: Bearer <token>" for one shared token.
// An empty token accepts everything.
type StaticToken string

// Authenticate implements Authenticator
func (t StaticToken) Authenticate(r *http.Request) error {
	if t == "" {
		return nil
	}
	scheme, got, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return perr.Unauthorizedf("missing bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(t)) != 1 {
		return perr.Unauthorizedf("invalid token")
	}
	return nil
}

// Auth rejects requests the Authenticator refuses, writing the error envelope with write.
// A nil Authenticator lets everything through.
func Auth(a Authenticator, write func(w http.ResponseWriter, status int, body any)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a != nil {
				if err := a.Authenticate(r); err != nil {
					status, body := pnet.Error(err, pnet.RequestID(r.Context()))
					write(w, status, body)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
