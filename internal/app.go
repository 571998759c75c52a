package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/garminstats/internal/charts"
	"github.com/2beens/garminstats/internal/config"
	"github.com/2beens/garminstats/internal/fitness"
	"github.com/2beens/garminstats/internal/garmindb"
	"github.com/2beens/garminstats/internal/telemetry/metrics"
	"github.com/2beens/garminstats/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	ExportFormatCSV        = "csv"
	ExportFormatJSON       = "json"
	ExportFormatActivities = "activities"
	ExportFormatDescribe   = "describe"
)

var ErrUnknownExportFormat = errors.New("unknown export format")

// App ties the activities db to the frame consumers of one run.
type App struct {
	config  *config.Config
	db      *sql.DB
	fitness *fitness.Fitness
	plotter *charts.Plotter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewAppParams struct {
	Config                  *config.Config
	HoneycombTracingEnabled bool
	// ServiceName doubles as the metrics subsystem, keep it snake_case
	ServiceName string
}

func NewApp(ctx context.Context, params NewAppParams) (*App, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, params.ServiceName)
	if err != nil {
		return nil, err
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("garminstats", params.ServiceName, promRegistry)

	dbPath, err := garmindb.ResolveActivitiesDBPath(cfg.GarminDBPath, cfg.GarminConfigPath)
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("resolve activities db: %w", err)
	}
	log.Debugf("using garmin activities db: [%s]", dbPath)

	db, err := garmindb.Open(ctx, dbPath)
	if err != nil {
		otelShutdown()
		return nil, err
	}

	// fails early on a store without the activities table
	activitiesRepo := garmindb.NewActivitiesRepo(db)
	count, err := activitiesRepo.Count(ctx, cfg.Sport)
	if err != nil {
		_ = db.Close()
		otelShutdown()
		return nil, err
	}
	log.Infof("found %d [%s] activities", count, cfg.Sport)

	return &App{
		config:         cfg,
		db:             db,
		fitness:        fitness.NewFitness(activitiesRepo, cfg.Sport, metricsManager),
		plotter:        charts.NewPlotter(cfg.ChartsDir, metricsManager),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (a *App) MetricsManager() *metrics.Manager {
	return a.metricsManager
}

// RenderCharts writes one chart, or every chart when chartName is empty,
// and returns the written file paths.
func (a *App) RenderCharts(ctx context.Context, chartName string) ([]string, error) {
	df, err := a.fitness.GetAllActivitiesFrame(ctx)
	if err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		log.Warnf("no [%s] activities found", a.fitness.Sport())
	}

	if chartName != "" {
		path, err := a.plotter.Plot(ctx, df, chartName)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	return a.plotter.PlotAll(ctx, df)
}

// ValidateExportFormat returns ErrUnknownExportFormat for anything Export can't write.
func ValidateExportFormat(format string) error {
	switch strings.ToLower(format) {
	case ExportFormatCSV, ExportFormatJSON, ExportFormatActivities, ExportFormatDescribe:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownExportFormat, format)
}

// Export writes the activities of the configured sport to w.
func (a *App) Export(ctx context.Context, format string, w io.Writer) error {
	if err := ValidateExportFormat(format); err != nil {
		return err
	}
	format = strings.ToLower(format)

	if format == ExportFormatActivities {
		activities, err := a.fitness.GetAllActivities(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(activities); err != nil {
			return fmt.Errorf("encode activities: %w", err)
		}
		return nil
	}

	df, err := a.fitness.GetAllActivitiesFrame(ctx)
	if err != nil {
		return err
	}

	switch format {
	case ExportFormatCSV:
		err = df.WriteCSV(w)
	case ExportFormatJSON:
		err = df.WriteJSON(w)
	case ExportFormatDescribe:
		err = fitness.Describe(df).WriteCSV(w)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// Close releases the db, exports metrics and flushes traces.
func (a *App) Close() error {
	a.metricsManager.GaugeLastRunEpoch.Set(float64(time.Now().Unix()))

	var err error
	if exportErr := metrics.WriteTextfile(a.config.MetricsTextfile, a.promRegistry); exportErr != nil {
		err = multierr.Append(err, exportErr)
	}
	if closeErr := a.db.Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("close activities db: %w", closeErr))
	}
	a.otelShutdown()
	return err
}
