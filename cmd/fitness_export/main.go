// Package main dumps the GarminDB activities of one sport as CSV, JSON or summary stats.
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/garminstats/internal"
	"github.com/2beens/garminstats/internal/config"
	"github.com/2beens/garminstats/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	sport := flag.String("sport", "", "garmin sport to export, overrides sport")
	format := flag.String("format", internal.ExportFormatCSV, "output format [csv | json | activities | describe]")
	outPath := flag.String("out", "", "output file path (empty for stdout)")
	flag.Parse()

	// checked before -out is created, an unknown format must not truncate it
	if err := internal.ValidateExportFormat(*format); err != nil {
		log.Fatalf("%s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
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
		SentryServerName: "fitness-export",
	})
	defer flush()

	if *outPath == "" && cfg.LogsPath == "" {
		// stdout carries the export
		log.SetOutput(os.Stderr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:                  cfg,
		HoneycombTracingEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
		ServiceName:             "fitness_export",
	})
	if err != nil {
		log.Fatalf("new app: %s", err)
	}

	out := os.Stdout
	if *outPath != "" {
		out, err = os.Create(*outPath)
		if err != nil {
			log.Fatalf("create %s: %s", *outPath, err)
		}
	}

	w := bufio.NewWriter(out)
	exportErr := app.Export(ctx, *format, w)
	if exportErr == nil {
		exportErr = w.Flush()
	}
	if out != os.Stdout {
		if err := out.Close(); err != nil && exportErr == nil {
			exportErr = err
		}
	}

	if err := app.Close(); err != nil {
		log.Errorf("close: %s", err)
	}

	if exportErr != nil {
		log.Errorf("export %s: %s", *format, exportErr)
		flush()
		os.Exit(1)
	}
	if *outPath != "" {
		log.Infof("%s export written to [%s]", *format, *outPath)
	}
}
