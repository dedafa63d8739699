package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter(skip ...string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware(skip...))
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr
}

func TestMiddleware_GroupsByRoutePattern(t *testing.T) {
	r := newRouter()
	r.Get("/api/v1/gigs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/gigs/{id}", "200"))
	for _, id := range []string{"1", "2", "77"} {
		serve(r, "GET", "/api/v1/gigs/"+id)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/gigs/{id}", "200"))

	if after-before != 3 {
		t.Errorf("route series delta = %v, want 3", after-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected latency observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()
	r.Post("/api/v1/gigs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Delete("/api/v1/gigs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/v1/gigs/{id}/reviews", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	tests := []struct {
		method, path, route, status string
	}{
		{"POST", "/api/v1/gigs", "/api/v1/gigs", "201"},
		{"DELETE", "/api/v1/gigs/5", "/api/v1/gigs/{id}", "204"},
		{"GET", "/api/v1/gigs/5/reviews", "/api/v1/gigs/{id}/reviews", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.route, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status))
			serve(r, tc.method, tc.path)
			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status))
			if after-before != 1 {
				t.Errorf("delta = %v, want 1", after-before)
			}
		})
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	r := newRouter()
	r.Get("/api/v1/gigs/random", func(http.ResponseWriter, *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/gigs/random", "200"))
	serve(r, "GET", "/api/v1/gigs/random")
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/gigs/random", "200"))
	if after-before != 1 {
		t.Errorf("handler that never writes should count as 200, delta = %v", after-before)
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := newRouter()
	r.Get("/api/v1/gigs", func(http.ResponseWriter, *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	serve(r, "GET", "/wp-admin/setup.php")
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	if after-before != 1 {
		t.Errorf("unmatched delta = %v, want 1", after-before)
	}
}

func TestMiddleware_AssistantTokens(t *testing.T) {
	r := newRouter()
	r.Post("/api/v1/users/recommend", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(AssistantTokensHeader, "120")
		_, _ = w.Write([]byte(`{"users":[]}`))
	})
	r.Get("/api/v1/gigs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(AssistantTokensHeader, "garbage")
	})

	serve(r, "POST", "/api/v1/users/recommend")
	serve(r, "GET", "/api/v1/gigs")

	if n := testutil.CollectAndCount(httpAssistantTokens); n != 1 {
		t.Errorf("assistant token series = %d, want only the recommend route", n)
	}
}

func TestMiddleware_SkipsPaths(t *testing.T) {
	r := newRouter("/health", "/metrics")
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	serve(r, "GET", "/health")
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))

	if after != before {
		t.Errorf("skipped path was recorded: %v -> %v", before, after)
	}
	if v := testutil.ToFloat64(httpRequestsInFlight); v != 0 {
		t.Errorf("in flight = %v, want 0", v)
	}
}

func TestAssistantTokens(t *testing.T) {
	tests := []struct {
		value string
		want  int
		ok    bool
	}{
		{"", 0, false},
		{"42", 42, true},
		{"0", 0, true},
		{"-3", 0, false},
		{"many", 0, false},
	}
	for _, tc := range tests {
		h := http.Header{}
		if tc.value != "" {
			h.Set(AssistantTokensHeader, tc.value)
		}
		n, ok := assistantTokens(h)
		if n != tc.want || ok != tc.ok {
			t.Errorf("assistantTokens(%q) = %d, %v; want %d, %v", tc.value, n, ok, tc.want, tc.ok)
		}
	}
}
