package fetchers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmyreport/internal/config"
	"tmyreport/internal/mocks"
	"tmyreport/internal/observability"
	"tmyreport/internal/psm3"
)

type remoteFunc func(ctx context.Context, req psm3.Request) (*psm3.Dataset, error)

func (f remoteFunc) Fetch(ctx context.Context, req psm3.Request) (*psm3.Dataset, error) {
	return f(ctx, req)
}

func definition(t *testing.T) *config.ReportDefinition {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample_tmy3.csv")
	require.NoError(t, mocks.WriteTMYSample(path))

	def := config.DefaultReportDefinition()
	def.Local.Path = path
	def.Remote.Email = "user@example.com"
	return def
}

func TestFetchAllData(t *testing.T) {
	def := definition(t)
	var got psm3.Request
	remote := remoteFunc(func(ctx context.Context, req psm3.Request) (*psm3.Dataset, error) {
		got = req
		return mocks.NewMockService(t.TempDir()).Fetch(ctx, req)
	})

	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	metrics := observability.NewMetricsForTesting()
	fetcher := NewDataFetcher(remote, WithClock(clock), WithMetrics(metrics))

	data, err := fetcher.FetchAllData(context.Background(), def)
	require.NoError(t, err)

	assert.Equal(t, clock.Now(), data.Timestamp)
	assert.Equal(t, 8760, data.Local.Frame.Len())
	assert.Equal(t, 71, data.Local.Frame.NumColumns())
	require.True(t, data.HasRemote())
	assert.Equal(t, 8760, data.Remote.Frame.Len())

	require.Len(t, data.Sites, 2)
	assert.Equal(t, "NC", data.Sites[0].Label)
	assert.Equal(t, "NM", data.Sites[1].Label)

	assert.Equal(t, 35.0844, got.Latitude)
	assert.Equal(t, -106.6504, got.Longitude)
	assert.Equal(t, "tmy", got.Names)
	assert.Equal(t, "DEMO_KEY", got.APIKey)
	assert.Equal(t, 1990, got.CoerceYear)

	assert.Equal(t, 8760.0, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("NC")))
}

func TestFetchAllDataRemoteError(t *testing.T) {
	def := definition(t)
	remote := remoteFunc(func(ctx context.Context, req psm3.Request) (*psm3.Dataset, error) {
		return nil, &psm3.APIError{StatusCode: 403, Errors: []string{"bad key"}}
	})
	metrics := observability.NewMetricsForTesting()

	_, err := NewDataFetcher(remote, WithMetrics(metrics)).FetchAllData(context.Background(), def)
	require.Error(t, err)

	var apiErr *psm3.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchErrors.WithLabelValues("psm3")))
}

func TestFetchAllDataMissingLocalFile(t *testing.T) {
	def := config.DefaultReportDefinition()
	def.Local.Path = filepath.Join(t.TempDir(), "missing.csv")
	def.Remote.Enabled = false

	_, err := NewDataFetcher(nil).FetchAllData(context.Background(), def)
	assert.Error(t, err)
}

func TestFetchAllDataRemoteDisabled(t *testing.T) {
	def := definition(t)
	def.Remote.Enabled = false

	data, err := NewDataFetcher(nil).FetchAllData(context.Background(), def)
	require.NoError(t, err)
	assert.False(t, data.HasRemote())
	assert.Len(t, data.Sites, 1)
}

func TestFetchAllDataFallbackCreatesFile(t *testing.T) {
	def := config.DefaultReportDefinition()
	def.Local.Path = filepath.Join(t.TempDir(), "data", "sample_tmy3.csv")
	def.Remote.Enabled = false

	m := mocks.NewMockService(t.TempDir())
	data, err := NewDataFetcher(m, WithTMYFallback(m.EnsureTMYFile)).FetchAllData(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, 8760, data.Local.Frame.Len())

	_, err = os.Stat(def.Local.Path)
	assert.NoError(t, err)
}

func TestFetchAllDataCancelled(t *testing.T) {
	def := definition(t)
	block := make(chan struct{})
	defer close(block)
	remote := remoteFunc(func(ctx context.Context, req psm3.Request) (*psm3.Dataset, error) {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewDataFetcher(remote).FetchAllData(ctx, def)
	assert.Error(t, err)
}
