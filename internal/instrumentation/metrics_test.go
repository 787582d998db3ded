package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

func collectedMetricNames(t *testing.T, reader *sdkmetric.ManualReader) []string {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var names []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestRecordToolInvocation(t *testing.T) {
	metrics, reader := newTestMetrics(t)

	metrics.RecordToolInvocation(context.Background(), "search_emails", StatusSuccess, 120*time.Millisecond)
	metrics.RecordToolInvocation(context.Background(), "search_emails", StatusError, 5*time.Millisecond)

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "mcp_tool_invocations_total")
	assert.Contains(t, names, "mcp_tool_duration_seconds")
}

func TestRecordAPIOperation(t *testing.T) {
	metrics, reader := newTestMetrics(t)

	metrics.RecordAPIOperation(context.Background(), ServiceGmail, "list", StatusSuccess, 80*time.Millisecond)

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "google_api_operations_total")
	assert.Contains(t, names, "google_api_operation_duration_seconds")
}

func TestRecordTokenRefresh(t *testing.T) {
	metrics, reader := newTestMetrics(t)

	metrics.RecordTokenRefresh(context.Background(), StatusSuccess)

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "oauth_token_refresh_total")
}

func TestZeroValueMetricsAreNoOps(t *testing.T) {
	var metrics Metrics

	// Must not panic.
	metrics.RecordToolInvocation(context.Background(), "x", StatusSuccess, time.Second)
	metrics.RecordAPIOperation(context.Background(), ServiceCalendar, "get", StatusError, time.Second)
	metrics.RecordTokenRefresh(context.Background(), StatusError)

	var nilMetrics *Metrics
	nilMetrics.RecordToolInvocation(context.Background(), "x", StatusSuccess, time.Second)
}

func TestDisabledProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	require.NotNil(t, p.Metrics())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gmcp", cfg.ServiceName)
	assert.True(t, cfg.Enabled)

	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("OTEL_SERVICE_NAME", "custom")
	cfg = DefaultConfig()
	assert.Equal(t, "custom", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
}
