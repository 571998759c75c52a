package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/garminstats/internal/telemetry/metrics"
	"github.com/2beens/garminstats/internal/telemetry/tracing"
	"github.com/2beens/garminstats/pkg"

	"github.com/go-gota/gota/dataframe"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// TimestampFormat prefixes every chart file name.
const TimestampFormat = "2006-01-02_15-04-05"

var (
	ErrNoData       = errors.New("no data to plot")
	ErrUnknownChart = errors.New("unknown chart")
)

// Plotter writes the fixed chart recipes as PNG files into one directory.
type Plotter struct {
	outDir  string
	now     func() time.Time
	metrics *metrics.Manager
}

func NewPlotter(outDir string, metricsManager *metrics.Manager) *Plotter {
	return &Plotter{
		outDir:  outDir,
		now:     time.Now,
		metrics: metricsManager,
	}
}

// WithClock replaces the clock used for file name timestamps.
func (p *Plotter) WithClock(now func() time.Time) *Plotter {
	p.now = now
	return p
}

func (p *Plotter) OutDir() string {
	return p.outDir
}

// FileName returns <timestamp>_<chart-name>.png, timestamp in local time.
func FileName(ts time.Time, chartName string) string {
	return fmt.Sprintf("%s_%s.png", ts.In(time.Local).Format(TimestampFormat), chartName)
}

// Plot renders a single chart and returns the written file path.
func (p *Plotter) Plot(ctx context.Context, df dataframe.DataFrame, chartName string) (string, error) {
	r, ok := findRecipe(chartName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownChart, chartName)
	}
	if err := pkg.EnsureDir(p.outDir); err != nil {
		return "", err
	}
	return p.render(ctx, df, r, p.now())
}

// PlotAll renders every recipe with a shared timestamp. Charts without
// data are skipped. Render failures don't stop the remaining charts and
// are returned combined.
func (p *Plotter) PlotAll(ctx context.Context, df dataframe.DataFrame) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "charts.plotAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := pkg.EnsureDir(p.outDir); err != nil {
		return nil, err
	}

	ts := p.now()
	var paths []string
	for _, r := range recipes {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return paths, multierr.Append(err, ctxErr)
		}

		path, renderErr := p.render(ctx, df, r, ts)
		switch {
		case errors.Is(renderErr, ErrNoData):
			log.Warnf("chart [%s] skipped: no data", r.name)
		case renderErr != nil:
			log.Errorf("chart [%s] failed: %s", r.name, renderErr)
			err = multierr.Append(err, renderErr)
		default:
			paths = append(paths, path)
		}
	}

	span.SetAttributes(attribute.Int("charts.count", len(paths)))
	return paths, err
}

func (p *Plotter) render(ctx context.Context, df dataframe.DataFrame, r recipe, ts time.Time) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "charts.render")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("chart", r.name))

	start := time.Now()
	defer func() {
		p.observe(r.name, start, err)
	}()

	c, err := r.build(df)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return "", err
		}
		return "", fmt.Errorf("build chart %s: %w", r.name, err)
	}

	buf := &bytes.Buffer{}
	if err := c.Render(chart.PNG, buf); err != nil {
		return "", fmt.Errorf("render chart %s: %w", r.name, err)
	}

	path := filepath.Join(p.outDir, FileName(ts, r.name))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write chart %s: %w", r.name, err)
	}

	log.Debugf("chart [%s] written to %s", r.name, path)
	return path, nil
}

func (p *Plotter) observe(chartName string, start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, ErrNoData):
		p.metrics.CounterChartsSkipped.WithLabelValues(chartName).Inc()
	case err != nil:
		p.metrics.CounterChartsFailed.WithLabelValues(chartName).Inc()
	default:
		p.metrics.CounterChartsRendered.WithLabelValues(chartName).Inc()
		p.metrics.HistRenderDuration.WithLabelValues(chartName).Observe(time.Since(start).Seconds())
	}
}
