package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tmyreport/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:            "8981",
		DeploymentMode:  config.DeploymentLocal,
		LocalReportsDir: filepath.Join(dir, "reports"),
		MockupMode:      true,
		TMYFile:         filepath.Join(dir, "data", "sample_tmy3.csv"),
		HTTPTimeout:     time.Minute,
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, err := buildServer(context.Background(), testConfig(t), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("buildServer failed: %v", err)
	}
	defer srv.Close()

	rr := httptest.NewRecorder()
	srv.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestGenerateThenRoot(t *testing.T) {
	srv, err := buildServer(context.Background(), testConfig(t), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("buildServer failed: %v", err)
	}
	defer srv.Close()
	routes := srv.SetupRoutes()

	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("generate returned %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	routes.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("root returned %d, expected a redirect", rr.Code)
	}
	location := rr.Header().Get("Location")

	rr = httptest.NewRecorder()
	routes.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, location, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("report page returned %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Number of rows: 8760") {
		t.Error("report page does not contain the row count")
	}
}

func TestBuildServerRejectsBadDefinition(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportDefinition = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := buildServer(context.Background(), cfg, prometheus.NewRegistry()); err == nil {
		t.Error("Expected error for a missing report definition")
	}
}
