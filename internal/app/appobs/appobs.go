// Package appobs decorates an app.Analyzer with tracing, metrics and
// structured logs.
package appobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/devenn05/Crypto-signal-check/internal/app"
	"github.com/devenn05/Crypto-signal-check/internal/metrics"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/trace"
)

type observableAnalyzer struct {
	next    app.Analyzer
	logger  ports.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

var _ app.Analyzer = (*observableAnalyzer)(nil)

// Wrap returns next instrumented. m may be nil.
func Wrap(next app.Analyzer, logger ports.Logger, m *metrics.Metrics) app.Analyzer {
	return &observableAnalyzer{next: next, logger: logger, metrics: m, now: time.Now}
}

func (o *observableAnalyzer) Analyze(ctx context.Context, req app.Request) (*app.Result, error) {
	ctx, span := trace.StartSpan(ctx, "app.Analyze", oteltrace.WithAttributes(
		attribute.String("market", string(req.Market)),
		attribute.String("symbol", req.Symbol),
		attribute.String("direction", string(req.Direction)),
		attribute.String("interval", req.Interval),
	))
	defer span.End()

	start := o.now()
	fields := map[string]interface{}{
		"market":    req.Market,
		"symbol":    req.Symbol,
		"direction": req.Direction,
		"interval":  req.Interval,
	}
	for k, v := range trace.TraceFields(ctx) {
		fields[k] = v
	}
	o.logger.Debug(ctx, "Starting analysis", fields)

	res, err := o.next.Analyze(ctx, req)
	elapsed := o.now().Sub(start)
	fields["duration_ms"] = elapsed.Milliseconds()

	if err != nil {
		reason := app.Classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		if o.metrics != nil {
			o.metrics.ObserveFailure(reason, elapsed)
		}
		fields["reason"] = reason
		o.logger.Error(ctx, err, "Analysis failed", fields)
		return nil, err
	}

	final := res.Analysis.Final
	span.SetAttributes(
		attribute.String("score", final.Score),
		attribute.String("tier", string(final.Tier)),
		attribute.Bool("stale", res.StaleData),
	)
	if o.metrics != nil {
		o.metrics.ObserveAnalysis(res.Analysis, res.StaleData, elapsed)
	}
	fields["score"] = final.Score
	fields["tier"] = string(final.Tier)
	fields["verdict"] = string(final.Verdict)
	o.logger.Info(ctx, "Analysis completed", fields)
	return res, nil
}
