package guide

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// instrumentedGuide records a span, a duration histogram, and an outcome
// counter for every call.
type instrumentedGuide struct {
	next     Guide
	tracer   trace.Tracer
	logger   *slog.Logger
	duration metric.Float64Histogram
	replies  metric.Int64Counter
}

// Instrument wraps next with tracing, metrics, and logging. Instruments that
// fail to register are skipped with a warning.
func Instrument(next Guide, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) Guide {
	if logger == nil {
		logger = slog.Default()
	}

	g := &instrumentedGuide{
		next:   next,
		tracer: tracer,
		logger: logger.With("backend", NameOf(next)),
	}

	if meter != nil {
		var err error
		g.duration, err = meter.Float64Histogram(
			"guide.reply.duration",
			metric.WithDescription("Guide reply latency in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			logger.Warn("failed to create histogram", "error", err)
		}
		g.replies, err = meter.Int64Counter(
			"guide.replies",
			metric.WithDescription("Guide replies by outcome"),
		)
		if err != nil {
			logger.Warn("failed to create counter", "error", err)
		}
	}

	return g
}

func (g *instrumentedGuide) Reply(ctx context.Context, text string) (string, error) {
	var span trace.Span
	if g.tracer != nil {
		ctx, span = g.tracer.Start(ctx, "guide.reply",
			trace.WithAttributes(
				attribute.String("guide.backend", NameOf(g.next)),
				attribute.Int("guide.prompt_chars", len([]rune(text))),
			),
		)
		defer span.End()
	}

	start := time.Now()
	reply, err := g.next.Reply(ctx, text)
	elapsed := time.Since(start)

	category := apierrors.Category(err)
	attrs := metric.WithAttributes(
		attribute.String("guide.backend", NameOf(g.next)),
		attribute.String("guide.outcome", category),
	)
	if g.duration != nil {
		g.duration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
	}
	if g.replies != nil {
		g.replies.Add(ctx, 1, attrs)
	}

	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, category)
		}
		g.logger.Error("guide reply failed",
			"category", category,
			"http_status", apierrors.GetHTTPStatus(err),
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return "", err
	}

	if span != nil {
		span.SetAttributes(attribute.Int("guide.reply_chars", len([]rune(reply))))
	}
	g.logger.Info("guide replied", "duration_ms", elapsed.Milliseconds(), "reply_chars", len([]rune(reply)))
	return reply, nil
}

func (g *instrumentedGuide) Name() string { return NameOf(g.next) }
