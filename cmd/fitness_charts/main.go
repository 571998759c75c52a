// Package main renders charts of the GarminDB activities of one sport into PNG files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/garminstats/internal"
	"github.com/2beens/garminstats/internal/charts"
	"github.com/2beens/garminstats/internal/config"
	"github.com/2beens/garminstats/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting fitness charts ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outDir := flag.String("out-dir", "", "directory for the chart images, overrides charts_dir")
	sport := flag.String("sport", "", "garmin sport to plot, overrides sport")
	chartName := flag.String("chart", "", fmt.Sprintf("render only this chart, one of %v", charts.ChartNames()))
	show := flag.Bool("show", false, "open rendered charts in the image viewer")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	if *outDir != "" {
		cfg.ChartsDir = *outDir
	}
	if *sport != "" {
		cfg.Sport = *sport
	}

	flush := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fitness-charts",
	})
	defer flush()

	log.Debugf("running in [%s] environment", cfg.Environment)

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:                  cfg,
		HoneycombTracingEnabled: honeycombEnabled,
		ServiceName:             "fitness_charts",
	})
	if err != nil {
		log.Fatalf("new app: %s", err)
	}

	paths, renderErr := app.RenderCharts(ctx, *chartName)
	for _, path := range paths {
		log.Infof("chart saved: %s", path)
	}
	if renderErr != nil {
		log.Errorf("render charts: %s", renderErr)
	}

	if *show && len(paths) > 0 {
		if err := charts.NewViewer().Show(ctx, paths...); err != nil {
			log.Errorf("show charts: %s", err)
		}
	}

	if err := app.Close(); err != nil {
		log.Errorf("close: %s", err)
	}

	if renderErr != nil {
		flush()
		os.Exit(1)
	}
	log.Infof("%d charts written to [%s]", len(paths), cfg.ChartsDir)
}
