// Package telemetry sets up file-based structured logging and OpenTelemetry
// tracing and metrics. Nothing is written to stdout: the terminal belongs to
// the TUI.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "zelig"

// Options controls where and how much is recorded.
type Options struct {
	LogDir  string
	Debug   bool
	Enabled bool   // export traces and metrics
	Version string // reported as service.version
}

// Telemetry bundles the logger, tracer, and meter handed to the rest of the
// program.
type Telemetry struct {
	Logger *slog.Logger
	Tracer trace.Tracer
	Meter  metric.Meter

	closers []func(context.Context) error
}

// rotatingFile returns a size-rotated log file in dir.
func rotatingFile(dir, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// NewLogger creates a JSON slog logger writing to w.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Exporter constructors, replaceable in tests.
var (
	newTraceExporter = func(w io.Writer) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithWriter(w))
	}
	newMetricExporter = func(w io.Writer) (sdkmetric.Exporter, error) {
		return stdoutmetric.New(stdoutmetric.WithWriter(w))
	}
)

// Init creates the log directory, the rotating logger, and, when enabled,
// the tracer and meter providers. The returned Telemetry must be closed.
// Process-wide defaults are only replaced once everything is set up; on
// error whatever was opened is closed again.
func Init(ctx context.Context, opts Options) (*Telemetry, error) {
	if err := os.MkdirAll(opts.LogDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := rotatingFile(opts.LogDir, "zelig.log")
	logger := NewLogger(logFile, opts.Debug)

	t := &Telemetry{
		Logger: logger,
		Tracer: tracenoop.NewTracerProvider().Tracer(serviceName),
		Meter:  metricnoop.NewMeterProvider().Meter(serviceName),
	}
	// Closers run in reverse, so each provider flushes before its file closes.
	t.closers = append(t.closers, func(context.Context) error { return logFile.Close() })

	if !opts.Enabled {
		slog.SetDefault(logger)
		return t, nil
	}

	fail := func(err error) (*Telemetry, error) {
		return nil, errors.Join(err, t.Close())
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return fail(fmt.Errorf("failed to create resource: %w", err))
	}

	traceFile := rotatingFile(opts.LogDir, "traces.log")
	t.closers = append(t.closers, func(context.Context) error { return traceFile.Close() })
	traceExporter, err := newTraceExporter(traceFile)
	if err != nil {
		return fail(fmt.Errorf("failed to create trace exporter: %w", err))
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	t.closers = append(t.closers, tp.Shutdown)

	metricsFile := rotatingFile(opts.LogDir, "metrics.log")
	t.closers = append(t.closers, func(context.Context) error { return metricsFile.Close() })
	metricExporter, err := newMetricExporter(metricsFile)
	if err != nil {
		return fail(fmt.Errorf("failed to create metric exporter: %w", err))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second)),
		),
		sdkmetric.WithResource(res),
	)
	t.closers = append(t.closers, mp.Shutdown)

	t.Tracer = tp.Tracer(serviceName)
	t.Meter = mp.Meter(serviceName)

	slog.SetDefault(logger)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Debug("telemetry initialized", "log_dir", opts.LogDir)
	return t, nil
}

// Close flushes exporters and closes the log files.
func (t *Telemetry) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	for i := len(t.closers) - 1; i >= 0; i-- {
		if err := t.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.closers = nil
	return errors.Join(errs...)
}
