package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterActivitiesFetched.WithLabelValues("fitness_equipment").Add(3)
	m.CounterChartsRendered.WithLabelValues("avg_hr_histogram").Inc()
	m.CounterChartsRendered.WithLabelValues("avg_hr_histogram").Inc()
	m.GaugeFrameRows.Set(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.CounterActivitiesFetched.WithLabelValues("fitness_equipment")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterChartsRendered.WithLabelValues("avg_hr_histogram")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GaugeFrameRows))

	count, err := testutil.GatherAndCount(reg, "garminstats_test_charts_rendered")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteTextfile(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	m.CounterChartsFailed.WithLabelValues("calories_per_month").Inc()

	// empty path is a no-op
	require.NoError(t, WriteTextfile("", reg))

	path := filepath.Join(t.TempDir(), "garminstats.prom")
	require.NoError(t, WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `garminstats_test_charts_failed{chart="calories_per_month"} 1`)
}

func TestWriteTextfile_BadDir(t *testing.T) {
	_, reg := NewTestManagerAndRegistry()
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}

func TestNewManager_RenderDurations(t *testing.T) {
	m := NewTestManager()
	m.HistRenderDuration.WithLabelValues("hr_zones_time_pie").Observe(0.02)
	m.HistRenderDuration.WithLabelValues("hr_zones_time_pie").Observe(0.3)
	m.HistFetchDuration.Observe(0.004)

	metric := &dto.Metric{}
	hist, ok := m.HistRenderDuration.WithLabelValues("hr_zones_time_pie").(prometheus.Histogram)
	require.True(t, ok)
	require.NoError(t, hist.Write(metric))
	assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.32, metric.GetHistogram().GetSampleSum(), 1e-9)

	fetchMetric := &dto.Metric{}
	require.NoError(t, m.HistFetchDuration.Write(fetchMetric))
	assert.Equal(t, uint64(1), fetchMetric.GetHistogram().GetSampleCount())
}
