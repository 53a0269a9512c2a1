package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"reportkit/internal/shared/testutil"
)

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestInitializeOTelDisabled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "0.0.0",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
		EnableTracing:  true,
		EnableMetrics:  true,
		SampleRatio:    1.0,
	}, logger)
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelRejectsUnknownExporter(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	_, err := InitializeOTel(&OTelConfig{
		TraceExporter: "jaeger",
		EnableTracing: true,
		SampleRatio:   1.0,
	}, logger)
	assert.Error(t, err)
}

func TestCreateServiceMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := CreateServiceMetrics(meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// recording through noop instruments never panics
	RecordExportMetrics(context.Background(), metrics, "csv", 120*time.Millisecond, 2048, false)
	RecordExportMetrics(context.Background(), metrics, "pdf", time.Second, 4096, true)
	RecordExportMetrics(context.Background(), nil, "csv", 0, 0, false)
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
