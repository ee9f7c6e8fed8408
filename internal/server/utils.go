package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// parseLimit reads the ?limit= value, falling back to the default and capping at the maximum
func parseLimit(raw string) int {
	if raw == "" {
		return defaultReportLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultReportLimit
	}
	if limit > maxReportLimit {
		return maxReportLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
