package charts_test

import (
	"context"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/garminstats/internal/charts"
	"github.com/2beens/garminstats/internal/fitness"
	"github.com/2beens/garminstats/internal/garmindb"
	"github.com/2beens/garminstats/internal/garmindb/garmindbtest"
	"github.com/2beens/garminstats/internal/telemetry/metrics"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-gota/gota/dataframe"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 11, 20, 18, 4, 5, 0, time.Local)

func fakeFrame(t *testing.T, seed int64, n int) dataframe.DataFrame {
	t.Helper()
	faker := gofakeit.New(seed)
	var activities []*fitness.FitnessActivity
	for i := 0; i < n; i++ {
		fa, err := fitness.NewFitnessActivity(garmindbtest.FakeActivity(faker, garmindbtest.SportFitness))
		require.NoError(t, err)
		activities = append(activities, fa)
	}
	df := fitness.ToFrame(activities)
	require.NoError(t, df.Err)
	return df
}

func frameOf(t *testing.T, activities ...garmindb.Activity) dataframe.DataFrame {
	t.Helper()
	var fas []*fitness.FitnessActivity
	for _, a := range activities {
		fa, err := fitness.NewFitnessActivity(a)
		require.NoError(t, err)
		fas = append(fas, fa)
	}
	df := fitness.ToFrame(fas)
	require.NoError(t, df.Err)
	return df
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
}

func TestFileName(t *testing.T) {
	assert.Equal(t,
		"2025-11-20_18-04-05_avg_hr_histogram.png",
		charts.FileName(fixedNow, charts.ChartAvgHRHistogram),
	)
}

func TestChartNames(t *testing.T) {
	assert.Equal(t, []string{
		charts.ChartTrainingLoadOverTime,
		charts.ChartCaloriesPerMonth,
		charts.ChartAvgHRHistogram,
		charts.ChartCaloriesVsMovingTime,
		charts.ChartHRZonesTimePie,
		charts.ChartSubSportSharePie,
	}, charts.ChartNames())
}

func TestPlotter_PlotAll(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "plots")
	metricsManager := metrics.NewTestManager()
	p := charts.NewPlotter(outDir, metricsManager).WithClock(func() time.Time { return fixedNow })
	assert.Equal(t, outDir, p.OutDir())

	paths, err := p.PlotAll(context.Background(), fakeFrame(t, 3, 40))
	require.NoError(t, err)
	require.Len(t, paths, len(charts.ChartNames()))

	for i, name := range charts.ChartNames() {
		assert.Equal(t, filepath.Join(outDir, charts.FileName(fixedNow, name)), paths[i])
		requirePNG(t, paths[i])
		assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterChartsRendered.WithLabelValues(name)))
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(charts.ChartNames()))
}

func TestPlotter_PlotAll_EmptyFrame(t *testing.T) {
	outDir := t.TempDir()
	metricsManager := metrics.NewTestManager()
	p := charts.NewPlotter(outDir, metricsManager)

	paths, err := p.PlotAll(context.Background(), fitness.ToFrame(nil))
	require.NoError(t, err)
	assert.Empty(t, paths)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, name := range charts.ChartNames() {
		assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterChartsSkipped.WithLabelValues(name)))
	}
}

func TestPlotter_PlotAll_SparseFrame(t *testing.T) {
	// no times, no heart rate: only the sub sport share can be drawn
	df := frameOf(t,
		garmindb.Activity{ActivityID: "1", SubSport: garmindbtest.NullString("elliptical"), Calories: garmindbtest.NullInt(300)},
		garmindb.Activity{ActivityID: "2", SubSport: garmindbtest.NullString("indoor_rowing")},
		garmindb.Activity{ActivityID: "3", SubSport: garmindbtest.NullString("elliptical")},
	)

	p := charts.NewPlotter(t.TempDir(), nil).WithClock(func() time.Time { return fixedNow })
	paths, err := p.PlotAll(context.Background(), df)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, charts.FileName(fixedNow, charts.ChartSubSportSharePie), filepath.Base(paths[0]))
	requirePNG(t, paths[0])
}

func TestPlotter_PlotAll_SingleActivity(t *testing.T) {
	faker := gofakeit.New(21)
	df := frameOf(t, garmindbtest.FakeActivity(faker, garmindbtest.SportFitness))

	p := charts.NewPlotter(t.TempDir(), nil)
	paths, err := p.PlotAll(context.Background(), df)
	require.NoError(t, err)
	require.Len(t, paths, len(charts.ChartNames()))
	for _, path := range paths {
		requirePNG(t, path)
	}
}

func TestPlotter_PlotAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := charts.NewPlotter(t.TempDir(), nil)
	paths, err := p.PlotAll(ctx, fakeFrame(t, 4, 5))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}

func TestPlotter_PlotAll_OutDirIsFile(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, os.WriteFile(outDir, []byte("not a dir"), 0o644))

	p := charts.NewPlotter(outDir, nil)
	_, err := p.PlotAll(context.Background(), fakeFrame(t, 5, 5))
	require.Error(t, err)
}

func TestPlotter_Plot(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "plots")
	p := charts.NewPlotter(outDir, nil).WithClock(func() time.Time { return fixedNow })

	path, err := p.Plot(context.Background(), fakeFrame(t, 6, 15), charts.ChartCaloriesPerMonth)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "2025-11-20_18-04-05_calories_per_month.png"), path)
	requirePNG(t, path)
}

func TestPlotter_Plot_UnknownChart(t *testing.T) {
	p := charts.NewPlotter(t.TempDir(), nil)
	path, err := p.Plot(context.Background(), fakeFrame(t, 7, 3), "steps_per_day")
	require.ErrorIs(t, err, charts.ErrUnknownChart)
	assert.Empty(t, path)
	assert.Contains(t, err.Error(), "steps_per_day")
}

func TestPlotter_Plot_NoData(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	p := charts.NewPlotter(t.TempDir(), metricsManager)

	_, err := p.Plot(context.Background(), fitness.ToFrame(nil), charts.ChartHRZonesTimePie)
	require.ErrorIs(t, err, charts.ErrNoData)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterChartsSkipped.WithLabelValues(charts.ChartHRZonesTimePie)))
}

func TestPlotter_Plot_MissingColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"id", "sport"},
		{"1", "fitness_equipment"},
	})
	require.NoError(t, df.Err)

	metricsManager := metrics.NewTestManager()
	p := charts.NewPlotter(t.TempDir(), metricsManager)
	_, err := p.Plot(context.Background(), df, charts.ChartAvgHRHistogram)
	require.Error(t, err)
	assert.NotErrorIs(t, err, charts.ErrNoData)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterChartsFailed.WithLabelValues(charts.ChartAvgHRHistogram)))
}
