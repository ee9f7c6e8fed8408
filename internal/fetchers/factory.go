package fetchers

import (
	"path/filepath"

	"tmyreport/internal/config"
	"tmyreport/internal/mocks"
	"tmyreport/internal/observability"
	"tmyreport/internal/psm3"
)

// MocksDir is where mockup mode looks for recorded responses
var MocksDir = filepath.Join("internal", "mocks")

// NewFromConfig builds a data fetcher for the configured mode. In mockup mode the
// remote dataset is generated locally and a missing TMY3 file is replaced by a sample.
func NewFromConfig(cfg *config.Config, m *observability.Metrics) *DataFetcher {
	opts := []Option{WithMetrics(m)}

	if cfg.MockupMode {
		mock := mocks.NewMockService(MocksDir)
		opts = append(opts, WithTMYFallback(mock.EnsureTMYFile))
		return NewDataFetcher(mock, opts...)
	}

	client := psm3.NewClient(
		psm3.NewHTTPClient(cfg.HTTPTimeout),
		psm3.WithEndpoints(cfg.PSM3TMYURL, cfg.PSM3URL),
		psm3.WithBreaker(psm3.NewBreaker("psm3")),
	)
	return NewDataFetcher(client, opts...)
}
