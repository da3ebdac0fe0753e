// Package middleware carries the request pipeline shared by every API
// route: authenticate first, then (for writes) authorize.
//
// Authentication failures stop the request before the authorization
// policy or any handler runs, so an invalid caller always sees 401
// regardless of what it asked for.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campusdesk/academic-records-api/internal/auth"
	"github.com/campusdesk/academic-records-api/internal/utils/response"
)

// ctxKey is unexported so no other package can collide with our
// context values.
type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom returns the authenticated identity stored by
// Authenticate. The second result is false when the middleware did not
// run (which would be a routing mistake, not a user error).
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// Authenticate resolves the Authorization header into an Identity and
// stores it on the request context.
//
// Two credential forms are accepted:
//
//	Authorization: Basic base64(username:password)   (the browser client)
//	Authorization: Bearer <token from POST /api/login>
//
// Missing or invalid credentials end the request with 401.
func Authenticate(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := identify(svc, r)
			if err != nil {
				slog.Info("authentication failed",
					slog.String("path", r.URL.Path),
					slog.String("remote", r.RemoteAddr),
				)
				// The challenge header tells browsers which scheme to
				// retry with.
				w.Header().Set("WWW-Authenticate", `Basic realm="academic-records"`)
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(auth.ErrInvalidCredentials))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identify(svc *auth.Service, r *http.Request) (auth.Identity, error) {
	if username, password, ok := r.BasicAuth(); ok {
		return svc.Authenticate(username, password)
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return svc.ParseToken(token)
	}

	return auth.Identity{}, auth.ErrInvalidCredentials
}

// RequireAdmin gates write routes behind the authorization policy.
// It must be mounted after Authenticate. A denial is 403 — distinct
// from both 401 (bad credentials) and 404 (bad id), as the client
// relies on telling them apart.
func RequireAdmin(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(auth.ErrInvalidCredentials))
				return
			}

			if err := svc.Authorize(identity, auth.OpWrite); err != nil {
				if errors.Is(err, auth.ErrDenied) {
					slog.Info("write denied",
						slog.String("user", identity.Username),
						slog.String("path", r.URL.Path),
					)
					response.WriteJSON(w, http.StatusForbidden, response.GeneralError(err))
					return
				}
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
