package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"andariego/config"
	"andariego/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func testAuth() *Auth {
	return NewAuth(&config.Config{JWTSecret: []byte("test-secret")})
}

func signToken(t *testing.T, secret []byte, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestAuthenticateSetsContext(t *testing.T) {
	a := testAuth()
	token := signToken(t, []byte("test-secret"), "user1", "user", time.Hour)

	var gotUser, gotRole string
	handler := a.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRole, _ = r.Context().Value(globals.RoleKey).(string)
	})

	r := httptest.NewRequest("GET", "/api/cart", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "user1" || gotRole != "user" {
		t.Fatalf("context not populated: user=%q role=%q", gotUser, gotRole)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	a := testAuth()
	next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run")
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing token", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + signToken(t, []byte("test-secret"), "user1", "user", -time.Hour)},
		{"wrong secret", "Bearer " + signToken(t, []byte("other-secret"), "user1", "user", time.Hour)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/cart", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			a.Authenticate(next)(w, r, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	a := testAuth()
	ran := false
	handler := a.RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ran = true
	})

	r := httptest.NewRequest("GET", "/api/dashboard/stats", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, []byte("test-secret"), "user1", "user", time.Hour))
	w := httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusForbidden || ran {
		t.Fatalf("non-admin must get 403, got %d", w.Code)
	}

	r = httptest.NewRequest("GET", "/api/dashboard/stats", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, []byte("test-secret"), "admin1", "admin", time.Hour))
	w = httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusOK || !ran {
		t.Fatalf("admin must pass, got %d", w.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	a := testAuth()
	var gotUser string
	handler := a.OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
	})

	// anonymous requests pass straight through
	r := httptest.NewRequest("GET", "/api/tours", nil)
	w := httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusOK || gotUser != "" {
		t.Fatalf("anonymous request must pass with no identity, got %d / %q", w.Code, gotUser)
	}

	r = httptest.NewRequest("GET", "/api/tours", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, []byte("test-secret"), "user1", "user", time.Hour))
	w = httptest.NewRecorder()
	handler(w, r, nil)
	if gotUser != "user1" {
		t.Fatalf("valid token must populate identity, got %q", gotUser)
	}
}
