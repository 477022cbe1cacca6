// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harvesthub/marketplace/internal/core"
)

func TestHasAnyRole(t *testing.T) {
	p := &Principal{Roles: []string{"CUSTOMER", "SELLER"}}

	if !p.HasAnyRole("SELLER") {
		t.Error("expected SELLER to match")
	}
	if !p.HasAnyRole("ADMIN", "CUSTOMER") {
		t.Error("expected any-of match on CUSTOMER")
	}
	if p.HasAnyRole("ADMIN") {
		t.Error("ADMIN should not match")
	}
	if p.HasAnyRole() {
		t.Error("empty requirement should not match")
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			if got := ExtractToken(r); got != tc.want {
				t.Errorf("ExtractToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

type staticVerifier struct {
	principal *Principal
	err       error
}

func (v *staticVerifier) VerifyToken(
	_ context.Context,
	_ string,
) (*Principal, error) {
	return v.principal, v.err
}

func TestAuthenticatorAttachesPrincipal(t *testing.T) {
	verifier := &staticVerifier{
		principal: &Principal{IdentityID: "id-1", Username: "alice"},
	}

	var seen *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPrincipal(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()

	Authenticator(verifier)(next).ServeHTTP(w, r)

	if seen == nil || seen.IdentityID != "id-1" {
		t.Fatalf("principal = %+v, want id-1", seen)
	}
}

func TestAuthenticatorMissingToken(t *testing.T) {
	verifier := &staticVerifier{principal: &Principal{}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Authenticator(verifier)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	verifier := &staticVerifier{err: core.ErrTokenExpired}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()

	Authenticator(verifier)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("ADMIN")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	))

	t.Run("no principal", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(
			r.Context(),
			PrincipalKey,
			&Principal{Roles: []string{"CUSTOMER"}},
		)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r.WithContext(ctx))

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(
			r.Context(),
			PrincipalKey,
			&Principal{Roles: []string{"ADMIN"}},
		)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r.WithContext(ctx))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
