package router

import (
	"AdminAPI/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSPolicy_AllowOrigin(t *testing.T) {
	cases := []struct {
		name     string
		cfg      config.CORSConfig
		origin   string
		want     string
		wantVary bool
	}{
		{"empty config allows any", config.CORSConfig{}, "http://a", "*", false},
		{"wildcard", config.CORSConfig{AllowOrigin: "*"}, "http://a", "*", false},
		{"wildcard with credentials echoes", config.CORSConfig{AllowOrigin: "*", AllowCredentials: true}, "http://a", "http://a", true},
		{"wildcard with credentials, no origin", config.CORSConfig{AllowOrigin: "*", AllowCredentials: true}, "", "*", false},
		{"listed", config.CORSConfig{AllowOrigin: "http://192.168.0.251:3000, http://cbs:3000"}, "http://cbs:3000", "http://cbs:3000", true},
		{"not listed", config.CORSConfig{AllowOrigin: "http://192.168.0.251:3000,http://cbs:3000"}, "http://evil.example", "", true},
		{"listed, no origin", config.CORSConfig{AllowOrigin: "http://cbs:3000"}, "", "", true},
		{"list with wildcard", config.CORSConfig{AllowOrigin: "http://cbs:3000,*"}, "http://other", "*", false},
	}
	for _, tc := range cases {
		got, vary := newCORSPolicy(tc.cfg).allowOrigin(tc.origin)
		if got != tc.want || vary != tc.wantVary {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", tc.name, got, vary, tc.want, tc.wantVary)
		}
	}
}

func TestWithCORS_DecoratesResponse(t *testing.T) {
	h := withCORS(config.CORSConfig{AllowOrigin: "http://localhost:3000"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/persons", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("unexpected vary: %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != exposedHeaders {
		t.Fatalf("unexpected expose headers: %q", got)
	}
}

func TestWithCORS_PreflightSkipsHandler(t *testing.T) {
	called := false
	h := withCORS(config.CORSConfig{AllowOrigin: "*", AllowCredentials: true}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/persons/export", nil)
	req.Header.Set("Origin", "http://admin.local")
	w := httptest.NewRecorder()
	h(w, req)

	if called {
		t.Fatalf("handler must not run for preflight")
	}
	if w.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://admin.local" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("unexpected allow credentials: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != allowedHeaders {
		t.Fatalf("unexpected allow headers: %q", got)
	}
}
