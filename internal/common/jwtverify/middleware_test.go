package jwtverify

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
)

type mockVerifier struct {
	verifyFunc func(token string) (Claims, error)
}

func (m *mockVerifier) Verify(token string) (Claims, error) {
	return m.verifyFunc(token)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := BearerToken(r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMiddleware_StoresClaims(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(token string) (Claims, error) {
			if token != "good" {
				t.Fatalf("unexpected token %q", token)
			}
			return Claims{Subject: "alice"}, nil
		},
	}

	var got Claims
	handler := Middleware(verifier, logger.NewWithWriter(&bytes.Buffer{}, "test", "error"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got.Subject != "alice" {
		t.Errorf("expected claims in context, got %+v", got)
	}
}

func TestMiddleware_FailuresLookIdentical(t *testing.T) {
	errs := map[string]error{
		"bad":     ErrBadSignature,
		"expired": ErrExpired,
		"junk":    ErrMalformed,
	}
	verifier := &mockVerifier{
		verifyFunc: func(token string) (Claims, error) {
			return Claims{}, errs[token]
		},
	}

	handler := Middleware(verifier, logger.NewWithWriter(&bytes.Buffer{}, "test", "error"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not be called")
		}),
	)

	headers := []string{"", "Basic x", "Bearer bad", "Bearer expired", "Bearer junk"}
	var firstBody string
	for i, h := range headers {
		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		if h != "" {
			r.Header.Set("Authorization", h)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", h, w.Code)
		}
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Errorf("%q: expected WWW-Authenticate: Bearer", h)
		}
		if i == 0 {
			firstBody = w.Body.String()
			continue
		}
		if w.Body.String() != firstBody {
			t.Errorf("%q: body %q differs from %q", h, w.Body.String(), firstBody)
		}
	}
}

func TestFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := FromContext(r.Context()); ok {
		t.Error("expected no claims")
	}
}
