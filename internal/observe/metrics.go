// Package observe provides application-wide observability for shopmind:
// OpenTelemetry metrics with a Prometheus exporter bridge so the standard
// /metrics endpoint keeps working.
//
// A package-level default [Metrics] instance ([Default]) is provided for
// convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all shopmind metrics.
const meterName = "github.com/andrei-vlg/shopmind"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ClassifyDuration tracks end-to-end classification latency in seconds.
	ClassifyDuration metric.Float64Histogram

	// TranscribeDuration tracks end-to-end transcription latency in seconds.
	TranscribeDuration metric.Float64Histogram

	// IntentTotal counts classified requests. Attributes:
	//   attribute.String("intent", ...), attribute.String("path", "head"|"rules")
	IntentTotal metric.Int64Counter

	// HeadFailures counts predict-time head failures that were converted to
	// the low-confidence default. Attribute: attribute.String("head", ...)
	HeadFailures metric.Int64Counter

	// WordsSnapped / WordsDropped count word-snap outcomes.
	WordsSnapped metric.Int64Counter
	WordsDropped metric.Int64Counter

	// PhraseSnaps counts full-line phrase replacements.
	PhraseSnaps metric.Int64Counter

	// HandoffFailures counts swallowed admin hand-off errors.
	HandoffFailures metric.Int64Counter
}

// NewMetrics creates all instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.ClassifyDuration, err = meter.Float64Histogram(
		"shopmind.nlp.classify.duration",
		metric.WithDescription("End-to-end classification latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.TranscribeDuration, err = meter.Float64Histogram(
		"shopmind.speech.transcribe.duration",
		metric.WithDescription("End-to-end transcription latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.IntentTotal, err = meter.Int64Counter(
		"shopmind.nlp.intent.total",
		metric.WithDescription("Classified requests by intent and routing path"),
	); err != nil {
		return nil, err
	}
	if m.HeadFailures, err = meter.Int64Counter(
		"shopmind.nlp.head.failures",
		metric.WithDescription("Head predict failures converted to the low-confidence default"),
	); err != nil {
		return nil, err
	}
	if m.WordsSnapped, err = meter.Int64Counter(
		"shopmind.speech.snap.words.accepted",
		metric.WithDescription("Decoded words snapped to a lexicon word"),
	); err != nil {
		return nil, err
	}
	if m.WordsDropped, err = meter.Int64Counter(
		"shopmind.speech.snap.words.dropped",
		metric.WithDescription("Decoded words dropped below the acceptance threshold"),
	); err != nil {
		return nil, err
	}
	if m.PhraseSnaps, err = meter.Int64Counter(
		"shopmind.speech.snap.phrases",
		metric.WithDescription("Whole-line phrase catalog replacements"),
	); err != nil {
		return nil, err
	}
	if m.HandoffFailures, err = meter.Int64Counter(
		"shopmind.nlp.handoff.failures",
		metric.WithDescription("Swallowed admin hand-off side-effect failures"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide Metrics instance built from the global
// OTel meter provider. Call [InitProvider] before the first use, otherwise
// instruments bind to the no-op global provider and record nothing.
func Default() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			// Instrument names are compile-time constants; creation cannot
			// fail on a healthy provider.
			panic(err)
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordDuration records elapsed time since start on h with the given
// attributes.
func RecordDuration(ctx context.Context, h metric.Float64Histogram, start time.Time, attrs ...attribute.KeyValue) {
	if h == nil {
		return
	}
	h.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
}
