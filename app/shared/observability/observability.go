// Package observability bundles the logger, tracer, and metrics handed to
// every module at wiring time.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Provider holds the process-wide logging provider.
type Provider struct {
	Logger *slog.Logger
}

// Registry holds tracing and metrics handles shared by all modules.
type Registry struct {
	Tracer     trace.Tracer
	Prometheus *prometheus.Registry
	Metrics    EngagementMetrics
}

// Observability is the bundle passed into module constructors.
type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Config controls observability initialization.
type Config struct {
	Environment string
	LogLevel    string
}

// NoOpLogger discards everything; used in tests.
var NoOpLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init builds the observability bundle: a JSON slog logger on stdout, the
// global otel tracer (noop unless the host process installed a provider), and
// a dedicated prometheus registry with the engagement metric set registered.
func Init(cfg Config) *Observability {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	})).With(slog.String("environment", cfg.Environment))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Provider: &Provider{Logger: logger},
		Registry: &Registry{
			Tracer:     otel.Tracer("pulse-bot"),
			Prometheus: registry,
			Metrics:    NewPrometheusMetrics(registry),
		},
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
