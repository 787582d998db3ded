package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnie/gmcp-sub000/internal/google"
	"github.com/johnie/gmcp-sub000/internal/instrumentation"
)

func TestServerContextShutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), Config{})

	assert.False(t, sc.IsShuttingDown())
	assert.NoError(t, sc.Context().Err())

	sc.Shutdown()
	assert.True(t, sc.IsShuttingDown())
	assert.Error(t, sc.Context().Err())

	// Idempotent.
	sc.Shutdown()
	assert.True(t, sc.IsShuttingDown())
}

func TestServerContextYolo(t *testing.T) {
	assert.False(t, NewServerContext(context.Background(), Config{}).Yolo())
	assert.True(t, NewServerContext(context.Background(), Config{Yolo: true}).Yolo())
}

func TestServerContextMetrics(t *testing.T) {
	sc := NewServerContext(context.Background(), Config{})
	assert.Nil(t, sc.Metrics())

	m := &instrumentation.Metrics{}
	sc.SetMetrics(m)
	assert.Same(t, m, sc.Metrics())
}

func TestSessionFailsWithoutCredentials(t *testing.T) {
	dir := t.TempDir()
	sc := NewServerContext(context.Background(), Config{
		CredentialsPath: filepath.Join(dir, "missing-credentials.json"),
		TokenPath:       filepath.Join(dir, "token.json"),
	})

	_, err := sc.Session()
	require.Error(t, err)

	var credErr *google.CredentialLoadError
	assert.ErrorAs(t, err, &credErr)

	// Client creation surfaces the same failure.
	_, err = sc.GmailClient()
	assert.ErrorAs(t, err, &credErr)
	_, err = sc.CalendarClient()
	assert.ErrorAs(t, err, &credErr)
}

func TestMetricsServerRequiresEnabledProvider(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{})
	assert.ErrorContains(t, err, "provider is required")

	disabled, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	require.NoError(t, err)
	_, err = NewMetricsServer(MetricsServerConfig{Provider: disabled})
	assert.ErrorContains(t, err, "not enabled")
}

func TestMetricsServerDefaultAddr(t *testing.T) {
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		ServiceName: "test",
		Enabled:     true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	s, err := NewMetricsServer(MetricsServerConfig{Provider: provider})
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, s.Addr())
}
