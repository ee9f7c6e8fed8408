package mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tmyreport/internal/psm3"
	"tmyreport/internal/tmy"
)

// remoteFile is an optional recorded PSM3 response used instead of generated data
const remoteFile = "psm3_tmy.csv"

// sampleYear is the year written into generated files before coercion
const sampleYear = 2003

// MockService stands in for the NSRDB API and the bundled TMY3 file in mockup mode
type MockService struct {
	mocksDir string
}

// NewMockService creates a new mock service; recorded responses are looked up in mocksDir/data
func NewMockService(mocksDir string) *MockService {
	return &MockService{
		mocksDir: filepath.Join(mocksDir, "data"),
	}
}

// Fetch returns the recorded PSM3 response when present, otherwise a generated one
// for the requested point. It has the same signature as psm3.Client.Fetch.
func (m *MockService) Fetch(ctx context.Context, req psm3.Request) (*psm3.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := m.PSM3Response(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	ds, err := psm3.Parse(bytes.NewReader(body), req.CoerceYear)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mock PSM3 data: %w", err)
	}
	return ds, nil
}

// PSM3Response returns the raw CSV the mock serves for a point
func (m *MockService) PSM3Response(latitude, longitude float64) ([]byte, error) {
	recorded, err := os.ReadFile(filepath.Join(m.mocksDir, remoteFile))
	if err == nil {
		return recorded, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read mock PSM3 file: %w", err)
	}

	var buf bytes.Buffer
	if err := psm3.GenerateSample(&buf, psm3.SampleSite(latitude, longitude), sampleYear); err != nil {
		return nil, fmt.Errorf("failed to generate mock PSM3 data: %w", err)
	}
	return buf.Bytes(), nil
}

// EnsureTMYFile writes a generated TMY3 file at path unless one already exists.
// It reports whether a file was written.
func (m *MockService) EnsureTMYFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := WriteTMYSample(path); err != nil {
		return false, err
	}
	return true, nil
}

// WriteTMYSample generates the default TMY3 sample at path, creating parent directories
func WriteTMYSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	if err := tmy.GenerateSample(&buf, tmy.DefaultSite, 1990); err != nil {
		return fmt.Errorf("failed to generate TMY3 sample: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
