package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"shelfkeeper/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.Config{ServiceName: "shelf", LogFormat: "json", LogLevel: slog.LevelWarn}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "isbn", "1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "shelf", line["service"])
	assert.Equal(t, "1", line["isbn"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.Config{ServiceName: "shelf", LogFormat: "text"}, &buf)

	logger.Debug("dropped")
	logger.Info("book added")

	assert.Contains(t, buf.String(), `msg="book added"`)
	assert.Contains(t, buf.String(), "service=shelf")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestSetup_NoEndpoint(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.Config{ServiceName: "shelf"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestSetup_InstallsProviders(t *testing.T) {
	prevTracer, prevMeter := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTracer)
		otel.SetMeterProvider(prevMeter)
	})

	shutdown, err := Setup(context.Background(), config.Config{ServiceName: "shelf", OTLPEndpoint: "127.0.0.1:1"})
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
	assert.IsType(t, &sdkmetric.MeterProvider{}, otel.GetMeterProvider())

	// Nothing listens on the endpoint; the final flush may fail.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx)
}
