package observe

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	instance, err := NewMetrics(mp)
	require.NoError(t, err)
	return instance, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	require.NotNil(t, m, "metric %s not found", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)
	var result int64
	for _, dp := range sum.DataPoints {
		result += dp.Value
	}
	return result
}

func TestMetrics_sessionLifecycle(t *testing.T) {
	instance, reader := newTestMetrics(t)
	ctx := context.Background()

	instance.RecordSessionStarted(ctx, "1")
	instance.RecordQuestion(ctx, "1")
	instance.RecordQuestion(ctx, "1")
	instance.RecordAnswerPhase(ctx, "1")
	instance.RecordPause(ctx)
	instance.RecordSpeech(ctx, 1.5, StatusOk)
	instance.RecordSessionEnded(ctx, "1", EventCompleted)

	rm := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, rm, "talk_practice.sessions"))
	assert.Equal(t, int64(0), sumOf(t, rm, "talk_practice.active_sessions"))
	assert.Equal(t, int64(2), sumOf(t, rm, "talk_practice.questions"))
	assert.Equal(t, int64(1), sumOf(t, rm, "talk_practice.answer_phases"))
	assert.Equal(t, int64(1), sumOf(t, rm, "talk_practice.pauses"))

	h := findMetric(rm, "talk_practice.speech.duration")
	require.NotNil(t, h)
	hist, ok := h.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestMetrics_nilRecordsNothing(t *testing.T) {
	var instance *Metrics
	assert.NotPanics(t, func() {
		instance.RecordSessionStarted(context.Background(), "1")
		instance.RecordSessionEnded(context.Background(), "1", EventStopped)
		instance.RecordQuestion(context.Background(), "1")
		instance.RecordSpeech(context.Background(), 1, StatusFailed)
		instance.RecordAnswerPhase(context.Background(), "1")
		instance.RecordPause(context.Background())
	})
}

func TestProvider_disabled(t *testing.T) {
	var instance Provider
	conf := NewConfiguration()

	require.NoError(t, instance.Initialize(&conf, "test"))
	assert.Nil(t, instance.Addr())
	assert.NoError(t, instance.Dispose())
}

func TestProvider_servesMetrics(t *testing.T) {
	var instance Provider
	conf := Configuration{Listen: "127.0.0.1:0"}

	require.NoError(t, instance.Initialize(&conf, "test"))
	defer func() { assert.NoError(t, instance.Dispose()) }()
	require.NotNil(t, instance.Addr())

	metrics, err := NewMetrics(instance.meterProvider)
	require.NoError(t, err)
	metrics.RecordSessionStarted(context.Background(), "7")

	resp, err := http.Get("http://" + instance.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "talk_practice_sessions")
	assert.Contains(t, string(body), `lesson="7"`)
	assert.Contains(t, string(body), `service_name="talk-practice"`)
	assert.Contains(t, string(body), `service_version="test"`)
}
