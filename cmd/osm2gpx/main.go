package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/LdDl/osm2gpx"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
	v          = viper.New()

	rootCmd = &cobra.Command{
		Use:           "osm2gpx",
		Short:         "Extracts GPX waypoints from OpenStreetMap entities matching tag expression",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "Path to YAML config file (default: ./osm2gpx.yaml if present)")
	flags.StringP("osm-file", "i", "", "Path to OSM file (*.osm.pbf or *.osm / *.xml)")
	flags.StringP("output", "o", "", "Path for output file")
	flags.StringP("exp", "e", "", "Expression to search for in the form tag-name=tag-value (exact) or tag-name~tag-value (contains, case insensitive)")
	flags.StringP("name", "n", "", "Use NAME as the name of each waypoint if a name is not defined in the data")
	flags.String("format", "gpx", "Format of output file. Expected values: gpx / geojson / csv")
	flags.Int("workers", 1, "Number of goroutines resolving matched entities")
	flags.Int("max-iterations", osm2gpx.DefaultMaxIterations, "Maximum number of dependencies to look through for single entity")
	flags.Int("cache-size", 0, "Size of way centroid cache (0 disables cache)")
	flags.Int("procs", 4, "Number of goroutines decoding PBF")
	flags.String("metrics-file", "", "Write Prometheus metrics in text format to this file")
	flags.String("log-level", "info", "Log level. Expected values: debug / info / warn / error")
	flags.String("log-format", "text", "Log format. Expected values: text / json")

	bindings := map[string]string{
		"input":          "osm-file",
		"output":         "output",
		"expression":     "exp",
		"name":           "name",
		"format":         "format",
		"workers":        "workers",
		"max_iterations": "max-iterations",
		"cache_size":     "cache-size",
		"procs":          "procs",
		"metrics_file":   "metrics-file",
		"log.level":      "log-level",
		"log.format":     "log-format",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := osm2gpx.LoadConfiguration(v, configFile)
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	logger.Debug("Configuration loaded", slog.String("config", cfg.String()))

	expr, err := osm2gpx.ParseExpression(cfg.Expression)
	if err != nil {
		return err
	}
	format, err := osm2gpx.ParseOutputFormat(cfg.Format)
	if err != nil {
		return err
	}

	loader := osm2gpx.NewLoader(
		osm2gpx.WithProcs(cfg.Procs),
		osm2gpx.WithLogger(logger),
	)
	st := time.Now()
	graph, err := loader.LoadFile(ctx, cfg.Input, expr.MatchObject)
	if err != nil {
		return errors.Wrapf(err, "Could not read file '%s', is the file in OSM PBF or XML format?", cfg.Input)
	}
	logger.Info("Loaded entities", slog.Int("objects", graph.Len()), slog.Duration("elapsed", time.Since(st)))

	registry := prometheus.NewRegistry()
	metricsObserver, err := osm2gpx.NewMetricsObserver(registry)
	if err != nil {
		return err
	}
	observer := osm2gpx.MultiObserver{
		osm2gpx.NewLogObserver(logger),
		metricsObserver,
	}

	resolver := osm2gpx.NewResolver(
		osm2gpx.WithMaxIterations(cfg.MaxIterations),
		osm2gpx.WithCentroidCache(cfg.CacheSize),
	)
	logger.Debug("Resolver created", slog.String("resolver", resolver.String()))

	waypoints, err := osm2gpx.Extract(ctx, graph, expr, resolver,
		osm2gpx.WithDefaultName(cfg.DefaultName),
		osm2gpx.WithWorkers(cfg.Workers),
		osm2gpx.WithObserver(observer),
	)
	if err != nil {
		return errors.Wrap(err, "Can't extract waypoints")
	}
	logger.Info("Finished", slog.Int("waypoints", len(waypoints)), slog.String("expression", expr.String()))

	err = osm2gpx.ExportToFile(cfg.Output, format, waypoints)
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		err = osm2gpx.WriteMetricsFile(cfg.MetricsFile, registry)
		if err != nil {
			return err
		}
	}
	return nil
}
