package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/middleware"
)

type stubVerifier struct {
	principal auth.Principal
	err       error
	got       string
}

func (s *stubVerifier) Verify(token string) (auth.Principal, error) {
	s.got = token
	return s.principal, s.err
}

// principalEcho responds 200 with the caller's email when a principal is present.
var principalEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(p.Email))
})

func TestAuthenticate(t *testing.T) {
	valid := auth.Principal{UserID: uuid.New(), Email: "ada@example.com", Role: domain.RoleRegular}

	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
		want     int
	}{
		{"missing header", "", &stubVerifier{principal: valid}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &stubVerifier{principal: valid}, http.StatusUnauthorized},
		{"empty token", "Bearer   ", &stubVerifier{principal: valid}, http.StatusUnauthorized},
		{"invalid token", "Bearer abc", &stubVerifier{err: errors.New("bad signature")}, http.StatusUnauthorized},
		{"valid token", "Bearer abc", &stubVerifier{principal: valid}, http.StatusOK},
		{"lowercase scheme", "bearer abc", &stubVerifier{principal: valid}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.Authenticate(tc.verifier)(principalEcho)

			req := httptest.NewRequest(http.MethodGet, "/trips/owned", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "abc", tc.verifier.got)
				assert.Equal(t, "ada@example.com", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"unauthorized"`)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	authz, err := auth.NewAuthorizer()
	require.NoError(t, err)

	tests := []struct {
		name string
		role domain.Role
		want int
	}{
		{"admin lists all trips", domain.RoleAdmin, http.StatusOK},
		{"manager may not", domain.RoleManager, http.StatusForbidden},
		{"regular may not", domain.RoleRegular, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.RequirePermission(authz, auth.ResourceTrips, auth.ActionListAll)(trivialHandler)

			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: uuid.New(), Role: tc.role}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequirePermission_noPrincipal(t *testing.T) {
	authz, err := auth.NewAuthorizer()
	require.NoError(t, err)
	h := middleware.RequirePermission(authz, auth.ResourceUsers, auth.ActionManage)(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
