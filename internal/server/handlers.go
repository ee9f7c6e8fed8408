package server

import (
	_ "embed"
	"errors"
	"net/http"
	"strings"
	"time"

	"tmyreport/internal/storage"
)

//go:embed templates/initial_page.html
var initialPage []byte

const (
	defaultReportLimit = 10
	maxReportLimit     = 100
)

// HandleRoot redirects to the latest report, or shows the initial page when there is none
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	latest, err := storage.ListReports(r.Context(), s.storage, 1)
	if err != nil || len(latest) == 0 {
		if err != nil {
			s.log.Warn("Failed to list reports", map[string]interface{}{"error": err.Error()})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(initialPage)
		return
	}

	s.log.Debug("Redirecting to latest report", map[string]interface{}{"url": latest[0].URL})
	http.Redirect(w, r, latest[0].URL, http.StatusFound)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, code := "healthy", http.StatusOK
	storageCheck := "ok"
	if _, err := s.storage.ListDir(r.Context(), "", false); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
		storageCheck = err.Error()
	}

	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": storageCheck,
		},
	})
}

// HandleGenerate generates a new report
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.Generate(r.Context())
	if errors.Is(err, ErrGenerationInProgress) {
		s.log.Warn("Report generation already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Report generation already in progress",
			"message": "Another report generation is currently running. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}
	if err != nil {
		http.Error(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleFileProxy serves report files from the storage backend
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" || strings.HasSuffix(filePath, "/") {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	data, err := s.storage.GetFile(r.Context(), filePath)
	switch {
	case errors.Is(err, storage.ErrInvalidPath):
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("Failed to get file from storage", err, map[string]interface{}{"path": filePath})
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	if r.Method == http.MethodHead {
		return
	}
	w.Write(data)
}

// HandleListReports lists recent reports, newest first
func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	list, err := storage.ListReports(r.Context(), s.storage, limit)
	if err != nil {
		s.log.Error("Failed to list reports", err)
		http.Error(w, "Failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports":   list,
		"count":     len(list),
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
	})
}
