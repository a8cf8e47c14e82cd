package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/Xu-Jack11/aipartner/internal/db"
	"github.com/Xu-Jack11/aipartner/internal/llm"
	"github.com/Xu-Jack11/aipartner/internal/metrics"
)

type modelsProvider struct {
	models []llm.ModelInfo
}

func (p modelsProvider) Name() string { return "models" }

func (p modelsProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResult, error) {
	return &llm.CompletionResult{}, nil
}

func (p modelsProvider) ListModels(context.Context) []llm.ModelInfo { return p.models }

func newTestServer(t *testing.T, cfg Config, provider llm.Provider, m *metrics.Metrics) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(cfg, database, provider, m, zerolog.Nop())
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{}, nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{AllowAll: true}, nil, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestListModels(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		want     int
	}{
		{"models", modelsProvider{models: []llm.ModelInfo{{ID: "a", Object: "model"}, {ID: "b", Object: "model"}}}, 2},
		{"backend down", modelsProvider{}, 0},
		{"no provider", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, Config{}, tt.provider, nil)
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/ai/models", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body struct {
				Models []llm.ModelInfo `json:"models"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Models == nil {
				t.Fatal("models must be a JSON array, got null")
			}
			if len(body.Models) != tt.want {
				t.Errorf("expected %d models, got %d", tt.want, len(body.Models))
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	srv := newTestServer(t, Config{}, nil, m)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "200")); got != 2 {
		t.Errorf("expected 2 counted requests, got %v", got)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "aipartner_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestMetricsDisabled(t *testing.T) {
	srv := newTestServer(t, Config{}, nil, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics, got %d", w.Code)
	}
}

func TestSkipUpgrades(t *testing.T) {
	var wrappedCalls int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrappedCalls++
			next.ServeHTTP(w, r)
		})
	}
	h := skipUpgrades(mw)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/ai/models", nil))
	upgrade := httptest.NewRequest("GET", "/ws/chat", nil)
	upgrade.Header.Set("Upgrade", "websocket")
	h.ServeHTTP(httptest.NewRecorder(), upgrade)

	if wrappedCalls != 1 {
		t.Errorf("middleware ran %d times, want 1", wrappedCalls)
	}
}
