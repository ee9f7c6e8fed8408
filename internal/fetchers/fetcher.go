package fetchers

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"tmyreport/internal/config"
	"tmyreport/internal/logger"
	"tmyreport/internal/models"
	"tmyreport/internal/observability"
	"tmyreport/internal/psm3"
	"tmyreport/internal/tmy"
)

// RemoteSource downloads a PSM3 dataset; psm3.Client and mocks.MockService satisfy it
type RemoteSource interface {
	Fetch(ctx context.Context, req psm3.Request) (*psm3.Dataset, error)
}

// DataFetcher loads the local TMY3 file and the remote PSM3 dataset of a report
type DataFetcher struct {
	remote   RemoteSource
	metrics  *observability.Metrics
	clock    clockwork.Clock
	log      *logger.Logger
	fallback func(path string) (bool, error)
}

// Option configures a DataFetcher
type Option func(*DataFetcher)

// WithMetrics records fetch durations and errors
func WithMetrics(m *observability.Metrics) Option {
	return func(f *DataFetcher) { f.metrics = m }
}

// WithClock sets the clock used for timestamps
func WithClock(c clockwork.Clock) Option {
	return func(f *DataFetcher) { f.clock = c }
}

// WithTMYFallback is called before reading the local file; it may create a
// replacement and reports whether it did
func WithTMYFallback(fn func(path string) (bool, error)) Option {
	return func(f *DataFetcher) { f.fallback = fn }
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher(remote RemoteSource, opts ...Option) *DataFetcher {
	f := &DataFetcher{
		remote: remote,
		clock:  clockwork.NewRealClock(),
		log:    logger.GetGlobalLogger().WithComponent("fetchers"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAllData loads both datasets concurrently. The first failure is returned.
func (f *DataFetcher) FetchAllData(ctx context.Context, def *config.ReportDefinition) (*models.SourceData, error) {
	f.log.Info("Starting data fetch", map[string]interface{}{
		"tmy_file": def.Local.Path,
		"remote":   def.Remote.Enabled,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	localChan := make(chan *tmy.Dataset, 1)
	remoteChan := make(chan *psm3.Dataset, 1)
	errChan := make(chan error, 2)

	go func() {
		data, err := f.fetchLocal(def.Local)
		if err != nil {
			errChan <- fmt.Errorf("TMY3 load failed: %w", err)
			return
		}
		localChan <- data
	}()

	pending := 1
	if def.Remote.Enabled {
		pending++
		go func() {
			data, err := f.fetchRemote(ctx, def.Remote)
			if err != nil {
				errChan <- fmt.Errorf("PSM3 fetch failed: %w", err)
				return
			}
			remoteChan <- data
		}()
	}

	source := &models.SourceData{Timestamp: f.clock.Now()}
	for pending > 0 {
		select {
		case data := <-localChan:
			source.Local = data
			pending--
		case data := <-remoteChan:
			source.Remote = data
			pending--
		case err := <-errChan:
			f.log.Error("Data fetch error", err)
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	source.Sites = append(source.Sites, models.NewLocalSite(def.Local.Label, source.Local))
	f.recordRows(def.Local.Label, source.Local.Frame.Len())
	if source.Remote != nil {
		source.Sites = append(source.Sites, models.NewRemoteSite(def.Remote.Label, source.Remote))
		f.recordRows(def.Remote.Label, source.Remote.Frame.Len())
	}

	f.log.Info("Data fetch completed", map[string]interface{}{
		"local_rows":    source.Local.Frame.Len(),
		"local_columns": source.Local.Frame.NumColumns(),
		"remote":        source.Remote != nil,
	})
	return source, nil
}

func (f *DataFetcher) fetchLocal(src config.LocalSource) (*tmy.Dataset, error) {
	start := f.clock.Now()

	if f.fallback != nil {
		created, err := f.fallback(src.Path)
		if err != nil {
			f.recordError("tmy3")
			return nil, err
		}
		if created {
			f.log.Warn("TMY3 file missing, generated a sample", map[string]interface{}{"path": src.Path})
		}
	}

	ds, err := tmy.ReadFile(src.Path, tmy.Options{CoerceYear: src.CoerceYear})
	f.observe("tmy3", start)
	if err != nil {
		f.recordError("tmy3")
		return nil, err
	}
	return ds, nil
}

func (f *DataFetcher) fetchRemote(ctx context.Context, src config.RemoteSource) (*psm3.Dataset, error) {
	start := f.clock.Now()

	ds, err := f.remote.Fetch(ctx, psm3.Request{
		Latitude:   src.Latitude,
		Longitude:  src.Longitude,
		APIKey:     src.APIKey,
		Email:      src.Email,
		Names:      src.Names,
		Interval:   src.Interval,
		Attributes: src.Attributes,
		CoerceYear: src.CoerceYear,
	})
	f.observe("psm3", start)
	if err != nil {
		f.recordError("psm3")
		return nil, err
	}
	return ds, nil
}

func (f *DataFetcher) observe(source string, start time.Time) {
	if f.metrics != nil {
		f.metrics.FetchDuration.WithLabelValues(source).Observe(f.clock.Since(start).Seconds())
	}
}

func (f *DataFetcher) recordError(source string) {
	if f.metrics != nil {
		f.metrics.FetchErrors.WithLabelValues(source).Inc()
	}
}

func (f *DataFetcher) recordRows(site string, rows int) {
	if f.metrics != nil {
		f.metrics.RowsLoaded.WithLabelValues(site).Set(float64(rows))
	}
}
