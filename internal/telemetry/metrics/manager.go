package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterActivitiesFetched *prometheus.CounterVec
	CounterChartsRendered    *prometheus.CounterVec
	CounterChartsSkipped     *prometheus.CounterVec
	CounterChartsFailed      *prometheus.CounterVec

	// gauges
	GaugeFrameRows    prometheus.Gauge
	GaugeLastRunEpoch prometheus.Gauge

	// histograms
	HistFetchDuration  prometheus.Histogram
	HistRenderDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("garminstats", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("garminstats", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterActivitiesFetched := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "activities_fetched",
		Help:      "The total number of activities read from the garmin activities db",
	}, []string{"sport"})
	counterChartsRendered := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "charts_rendered",
		Help:      "The total number of chart images written",
	}, []string{"chart"})
	counterChartsSkipped := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "charts_skipped",
		Help:      "The total number of charts skipped for lack of data",
	}, []string{"chart"})
	counterChartsFailed := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "charts_failed",
		Help:      "The total number of charts that failed to render",
	}, []string{"chart"})

	gaugeFrameRows := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frame_rows",
		Help:      "Number of rows in the last built activities frame",
	})
	gaugeLastRunEpoch := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run",
	})

	histFetchDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of reading activities from the db in seconds",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
	})
	histRenderDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "render_duration_seconds",
		Help:      "Duration of rendering a single chart in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"chart"})

	return &Manager{
		CounterActivitiesFetched: counterActivitiesFetched,
		CounterChartsRendered:    counterChartsRendered,
		CounterChartsSkipped:     counterChartsSkipped,
		CounterChartsFailed:      counterChartsFailed,
		GaugeFrameRows:           gaugeFrameRows,
		GaugeLastRunEpoch:        gaugeLastRunEpoch,
		HistFetchDuration:        histFetchDuration,
		HistRenderDuration:       histRenderDuration,
	}
}
