package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests", nil, "total requests")
	r.IncrementCounter("requests", nil, "total requests")
	r.AddToCounter("requests", 3, nil, "total requests")

	all := r.GetAllMetrics()
	counters := all["counters"].(map[string]*Metric)
	require.Contains(t, counters, "requests")
	assert.Equal(t, float64(5), counters["requests"].Value)
}

func TestRegistry_CountersWithLabels(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("messages", map[string]string{"type": "text"}, "")
	r.IncrementCounter("messages", map[string]string{"type": "voice"}, "")
	r.IncrementCounter("messages", map[string]string{"type": "text"}, "")

	counters := r.GetAllMetrics()["counters"].(map[string]*Metric)
	assert.Equal(t, float64(2), counters["messages_type:text"].Value)
	assert.Equal(t, float64(1), counters["messages_type:voice"].Value)
}

func TestRegistry_Timers(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("op", 10*time.Millisecond, nil, "")
	r.RecordTimer("op", 30*time.Millisecond, nil, "")

	timers := r.GetAllMetrics()["timers"].(map[string]*TimerMetric)
	timer := timers["op"]
	require.NotNil(t, timer)

	assert.Equal(t, int64(2), timer.Count)
	assert.Equal(t, float64(10), timer.Min)
	assert.Equal(t, float64(30), timer.Max)
	assert.Equal(t, float64(20), timer.Average)
}

func TestRegistry_TimerPercentile(t *testing.T) {
	r := NewRegistry()

	for i := 1; i <= 100; i++ {
		r.RecordTimer("op", time.Duration(i)*time.Millisecond, nil, "")
	}

	timers := r.GetAllMetrics()["timers"].(map[string]*TimerMetric)
	assert.InDelta(t, 96, timers["op"].P95, 1)
}

func TestRegistry_Gauges(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("conversations", 7, nil, "loaded conversations")
	r.SetGauge("conversations", 9, nil, "loaded conversations")

	gauges := r.GetAllMetrics()["gauges"].(map[string]*Metric)
	assert.Equal(t, float64(9), gauges["conversations"].Value)
}

func TestRegistry_GetAllMetricsShape(t *testing.T) {
	r := NewRegistry()
	all := r.GetAllMetrics()

	assert.Contains(t, all, "counters")
	assert.Contains(t, all, "timers")
	assert.Contains(t, all, "gauges")
	assert.Contains(t, all, "uptime_ms")
	assert.Contains(t, all, "timestamp")
}

func TestMetricKey_LabelOrderIndependent(t *testing.T) {
	a := metricKey("m", map[string]string{"x": "1", "y": "2"})
	b := metricKey("m", map[string]string{"y": "2", "x": "1"})
	assert.Equal(t, a, b)
}

func TestGlobalRegistry(t *testing.T) {
	IncrementCounter("global_test_counter", nil, "")
	counters := GetAllMetrics()["counters"].(map[string]*Metric)
	assert.Contains(t, counters, "global_test_counter")
}
