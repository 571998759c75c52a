package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

func SetupPrometheus() *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	// build info and process collectors, runtime metrics are noise for a short lived tool
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return promRegistry
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
// Empty path means metrics are not exported at all.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if path == "" {
		log.Traceln("metrics textfile not set, skipping metrics export")
		return nil
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	log.Debugf("metrics written to [%s]", path)
	return nil
}
