package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"tmyreport/internal/models"
)

const (
	reportPrefix = "TMYReport-"
	reportLayout = "2006-01-02-15-04-05.000"
	// folders written before millisecond names
	legacyLayout = "2006-01-02-15-04-05"
	reportIndex  = "index.html"
)

// GenerateReportFolderPath generates a consistent folder path for reports
// Format: YYYY/MM/DD/TMYReport-YYYY-MM-DD-HH-MM-SS.mmm
func GenerateReportFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s%s",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		reportPrefix, timestamp.Format(reportLayout))
}

// ParseReportFolderPath returns the timestamp encoded in a report folder path
func ParseReportFolderPath(folder string) (time.Time, error) {
	base := path.Base(folder)
	if !strings.HasPrefix(base, reportPrefix) {
		return time.Time{}, fmt.Errorf("%q is not a report folder", folder)
	}
	stamp := strings.TrimPrefix(base, reportPrefix)
	ts, err := time.Parse(reportLayout, stamp)
	if err != nil {
		ts, err = time.Parse(legacyLayout, stamp)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a report folder: %w", folder, err)
	}
	return ts, nil
}

// ReportURL is the path under which the server exposes a report's index page
func ReportURL(folder string) string {
	return "/files/" + folder + "/" + reportIndex
}

// ListReports finds stored reports, newest first. A limit of 0 returns all of them.
func ListReports(ctx context.Context, client StorageClient, limit int) ([]models.ReportInfo, error) {
	files, err := client.ListDir(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var reports []models.ReportInfo
	for _, file := range files {
		if path.Base(file) != reportIndex {
			continue
		}
		folder := path.Dir(file)
		ts, err := ParseReportFolderPath(folder)
		if err != nil {
			continue
		}
		reports = append(reports, models.ReportInfo{
			Folder:    folder,
			URL:       ReportURL(folder),
			Timestamp: ts,
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
	if limit > 0 && limit < len(reports) {
		reports = reports[:limit]
	}
	return reports, nil
}

// cleanPath normalizes a relative storage path; "" and "." mean the root
func cleanPath(p string) (string, error) {
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	clean := path.Clean(p)
	if clean == "." {
		return "", nil
	}
	return clean, nil
}

var contentTypes = map[string]string{
	".json": "application/json",
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if ct, ok := contentTypes[path.Ext(filename)]; ok {
		return ct
	}
	return "application/octet-stream"
}
