package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrei-vlg/shopmind/internal/health"
	"github.com/andrei-vlg/shopmind/internal/nlp"
	"github.com/andrei-vlg/shopmind/internal/nlp/encode"
	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

func testClassifier(t *testing.T) *nlp.Classifier {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"id2intent.json":     `[0,1,2,3,4,5,6,7]`,
		"id2category.json":   `["LAPTOP"]`,
		"categories.json":    `[{"code":"LAPTOP","label":"Laptops","synonyms":["laptop"]}]`,
		"intent_meta.json":   `{"representation":"hashed","input_dim":64}`,
		"category_meta.json": `{"representation":"hashed","input_dim":64}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := lexicon.Load(dir)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	enc := encode.NewHashed(store.IntentMeta)
	return nlp.NewClassifier(store, enc, enc)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(":0", testClassifier(t), nil, health.New())
}

func do(s *Server, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestClassifyEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rr := do(s, http.MethodPost, "/api/nlp/classify", "application/json",
		[]byte(`{"message": "how do i log out"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rr.Code, rr.Body)
	}

	var res nlp.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Link == nil || *res.Link != "/dashboard" {
		t.Errorf("Link = %v, want /dashboard", res.Link)
	}
	if res.AdminIssued {
		t.Error("AdminIssued = true, want false")
	}
}

func TestClassifyEndpoint_BadRequests(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message": ""}`},
		{"not json", `log me out please`},
		{"unknown field", `{"message": "hi", "extra": 1}`},
	}
	for _, tt := range tests {
		rr := do(s, http.MethodPost, "/api/nlp/classify", "application/json", []byte(tt.body))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rr.Code)
		}
	}
}

func TestTranscribeEndpoint_DisabledWithoutSpeech(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rr := do(s, http.MethodPost, "/api/stt/transcribe", "audio/wav", []byte("RIFF...."))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when speech is not configured", rr.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rr := do(s, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", rr.Code)
	}
	rr = do(s, http.MethodGet, "/readyz", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("/readyz status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q, want JSON", rr.Header().Get("Content-Type"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rr := do(s, http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", rr.Code)
	}
}
