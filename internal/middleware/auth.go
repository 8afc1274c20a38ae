package middleware

import (
	"net/http"
	"strings"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/render"
)

// TokenVerifier validates a bearer token and returns the caller it names.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// Authorizer answers role permission questions.
type Authorizer interface {
	Allowed(role domain.Role, obj, act string) bool
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the caller in the request context for auth.PrincipalFromContext.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				render.Error(w, r, http.StatusUnauthorized, render.CodeUnauthorized, auth.ErrMissingToken.Error())
				return
			}
			p, err := v.Verify(token)
			if err != nil {
				render.Error(w, r, http.StatusUnauthorized, render.CodeUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequirePermission rejects callers whose role may not perform act on obj.
// It must run after Authenticate.
func RequirePermission(a Authorizer, obj, act string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				render.Error(w, r, http.StatusUnauthorized, render.CodeUnauthorized, auth.ErrMissingToken.Error())
				return
			}
			if !a.Allowed(p.Role, obj, act) {
				render.Error(w, r, http.StatusForbidden, render.CodeForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
