package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"tmyreport/internal/observability"
	"tmyreport/internal/reports"
	"tmyreport/internal/storage"
)

type fakeGenerator struct {
	started chan struct{}
	release chan struct{}
	err     error
	calls   int
}

func (g *fakeGenerator) GenerateCompleteReport(ctx context.Context) (*reports.Result, error) {
	g.calls++
	if g.started != nil {
		close(g.started)
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return &reports.Result{RunID: "run-1", Status: "success", FolderPath: "2024/03/01/TMYReport-2024-03-01-12-00-00.000"}, nil
}

func newTestServer(t *testing.T, gen Generator) (*Server, *storage.LocalStorageClient, *prometheus.Registry, *observability.Metrics) {
	t.Helper()
	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorageClient failed: %v", err)
	}
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewServer(gen, client, WithMetrics(metrics, reg), WithClock(clock))
	return s, client, reg, metrics
}

func storeReport(t *testing.T, client storage.StorageClient, ts time.Time) string {
	t.Helper()
	folder := storage.GenerateReportFolderPath(ts)
	if err := client.StoreFile(context.Background(), folder+"/index.html", []byte("<html>report</html>")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	return folder
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandleRootWithoutReports(t *testing.T) {
	s, _, _, _ := newTestServer(t, &fakeGenerator{})

	rec := serve(s, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No reports yet") {
		t.Error("Expected the initial page")
	}
}

func TestHandleRootRedirectsToLatest(t *testing.T) {
	s, client, _, _ := newTestServer(t, &fakeGenerator{})
	storeReport(t, client, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	latest := storeReport(t, client, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	rec := serve(s, http.MethodGet, "/")
	if rec.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/files/"+latest+"/index.html" {
		t.Errorf("Unexpected redirect target %q", loc)
	}
}

func TestHandleRootUnknownPath(t *testing.T) {
	s, _, _, _ := newTestServer(t, &fakeGenerator{})
	if rec := serve(s, http.MethodGet, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s, _, _, _ := newTestServer(t, &fakeGenerator{})

	rec := serve(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Status    string            `json:"status"`
		Timestamp string            `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Status != "healthy" || body.Checks["storage"] != "ok" {
		t.Errorf("Unexpected health response: %+v", body)
	}
	if body.Timestamp != "2024-03-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp %q", body.Timestamp)
	}

	if rec := serve(s, http.MethodPost, "/health"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST, got %d", rec.Code)
	}
}

func TestHandleGenerate(t *testing.T) {
	tests := []struct {
		name   string
		method string
		err    error
		code   int
	}{
		{"success", http.MethodPost, nil, http.StatusOK},
		{"failure", http.MethodPost, errors.New("fetch failed"), http.StatusInternalServerError},
		{"wrong method", http.MethodGet, nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _, _ := newTestServer(t, &fakeGenerator{err: tt.err})
			rec := serve(s, tt.method, "/generate")
			if rec.Code != tt.code {
				t.Fatalf("Expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code == http.StatusOK {
				var res reports.Result
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("Invalid JSON: %v", err)
				}
				if res.RunID != "run-1" {
					t.Errorf("Unexpected run ID %q", res.RunID)
				}
			}
		})
	}
}

func TestHandleGenerateConflict(t *testing.T) {
	gen := &fakeGenerator{started: make(chan struct{}), release: make(chan struct{})}
	s, _, _, metrics := newTestServer(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()
	<-gen.started

	rec := serve(s, http.MethodPost, "/generate")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "conflict") {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}

	close(gen.release)
	if err := <-done; err != nil {
		t.Errorf("First generation failed: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("Expected one generator call, got %d", gen.calls)
	}
	if got := testutil.ToFloat64(metrics.Generations.WithLabelValues("busy")); got != 1 {
		t.Errorf("Expected busy counter 1, got %v", got)
	}
}

func TestHandleFileProxy(t *testing.T) {
	s, client, _, _ := newTestServer(t, &fakeGenerator{})
	folder := storeReport(t, client, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := client.StoreFile(context.Background(), folder+"/summary.json", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	tests := []struct {
		name        string
		path        string
		code        int
		contentType string
		body        string
	}{
		{"html", "/files/" + folder + "/index.html", http.StatusOK, "text/html", "<html>report</html>"},
		{"json", "/files/" + folder + "/summary.json", http.StatusOK, "application/json", `{"ok":true}`},
		{"missing", "/files/" + folder + "/missing.png", http.StatusNotFound, "", ""},
		{"empty", "/files/", http.StatusBadRequest, "", ""},
		{"traversal", "/files/../secret", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			s.HandleFileProxy(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("Expected %d, got %d", tt.code, rec.Code)
			}
			if tt.contentType != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("Expected content type %s, got %s", tt.contentType, rec.Header().Get("Content-Type"))
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("Unexpected body %q", rec.Body.String())
			}
		})
	}
}

func TestHandleListReports(t *testing.T) {
	s, client, _, _ := newTestServer(t, &fakeGenerator{})
	for day := 1; day <= 3; day++ {
		storeReport(t, client, time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC))
	}

	rec := serve(s, http.MethodGet, "/reports?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Reports []struct {
			Folder string `json:"folder"`
			URL    string `json:"url"`
		} `json:"reports"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Count != 2 || len(body.Reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", body.Count)
	}
	if body.Reports[0].Folder != storage.GenerateReportFolderPath(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected newest report first, got %s", body.Reports[0].Folder)
	}
}

func TestHandleMetrics(t *testing.T) {
	gen := &fakeGenerator{started: make(chan struct{}), release: make(chan struct{})}
	s, _, _, _ := newTestServer(t, gen)

	done := make(chan struct{})
	go func() {
		s.Generate(context.Background())
		close(done)
	}()
	<-gen.started
	s.Generate(context.Background())
	close(gen.release)
	<-done

	rec := serve(s, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `tmy_report_generations_total{outcome="busy"} 1`) {
		t.Errorf("Busy counter missing from metrics output:\n%s", rec.Body.String())
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"5", 5},
		{"0", 10},
		{"-3", 10},
		{"abc", 10},
		{"1000", 100},
	}
	for _, tt := range tests {
		if got := parseLimit(tt.raw); got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
