package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Recorder publishes chat turn telemetry through an OpenTelemetry meter exported to Prometheus.
// A zero Recorder is valid and records nothing.
type Recorder struct {
	meterProvider *metric.MeterProvider
	turnCounter   otelmetric.Int64Counter
	turnDuration  otelmetric.Float64Histogram
	searchCounter otelmetric.Int64Counter
}

// New builds a Recorder. An exporter failure yields a no-op Recorder and the error.
func New(serviceName string) (*Recorder, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Recorder{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	turnCounter, err := meter.Int64Counter(
		"chat.turns",
		otelmetric.WithDescription("Number of chat turns processed"),
	)
	if err != nil {
		return &Recorder{meterProvider: provider}, err
	}

	turnDuration, err := meter.Float64Histogram(
		"chat.turn.duration",
		otelmetric.WithDescription("Chat turn processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Recorder{meterProvider: provider}, err
	}

	searchCounter, err := meter.Int64Counter(
		"catalog.searches",
		otelmetric.WithDescription("Number of catalog searches run"),
	)
	if err != nil {
		return &Recorder{meterProvider: provider}, err
	}

	return &Recorder{
		meterProvider: provider,
		turnCounter:   turnCounter,
		turnDuration:  turnDuration,
		searchCounter: searchCounter,
	}, nil
}

func (r *Recorder) RecordTurn(ctx context.Context, intent, status string, duration time.Duration) {
	if r == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("intent", intent),
		attribute.String("status", status),
	)
	if r.turnCounter != nil {
		r.turnCounter.Add(ctx, 1, attrs)
	}
	if r.turnDuration != nil {
		r.turnDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	}
}

func (r *Recorder) RecordSearch(ctx context.Context, results int) {
	if r == nil || r.searchCounter == nil {
		return
	}
	outcome := "hit"
	if results == 0 {
		outcome = "miss"
	}
	r.searchCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
}

func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil || r.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.meterProvider.Shutdown(ctx)
}
