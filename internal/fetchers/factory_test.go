package fetchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tmyreport/internal/config"
	"tmyreport/internal/mocks"
	"tmyreport/internal/observability"
	"tmyreport/internal/psm3"
)

func TestNewFromConfig(t *testing.T) {
	m := observability.NewMetricsForTesting()

	mock := NewFromConfig(&config.Config{MockupMode: true, HTTPTimeout: time.Second}, m)
	assert.IsType(t, &mocks.MockService{}, mock.remote)
	assert.NotNil(t, mock.fallback)
	assert.Same(t, m, mock.metrics)

	live := NewFromConfig(&config.Config{HTTPTimeout: time.Second}, m)
	assert.IsType(t, &psm3.Client{}, live.remote)
	assert.Nil(t, live.fallback)
}
