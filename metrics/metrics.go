// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics provides an OpenTelemetry-backed MatchRecorder for the
// matcher, with pluggable Prometheus, OTLP, and stdout providers.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/matcher"
)

// meterName identifies this instrumentation scope.
const meterName = "rivaas.dev/matcher/metrics"

// DefaultDurationBuckets are histogram boundaries for match duration in
// seconds. Matching is an in-memory tree walk, so the range sits well below
// typical HTTP buckets: 100ns to 10ms.
var DefaultDurationBuckets = []float64{
	0.0000001, 0.0000005, 0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.001, 0.01,
}

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events. Implementations can
// log events, forward them to monitoring systems, or ignore them.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the
// provided slog.Logger. If logger is nil, returns a no-op handler.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider exports metrics through a private Prometheus
	// registry exposed via [Recorder.Handler] (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics to stdout (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder records match events as OpenTelemetry metrics. It implements
// [matcher.MatchRecorder] and is safe for concurrent use.
//
// By default the Recorder does NOT set the global OpenTelemetry meter
// provider, so multiple Recorder instances can coexist in one process.
// Use [WithGlobalMeterProvider] to opt into global registration.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler
	eventHandler       EventHandler

	matchCount    metric.Int64Counter
	matchDuration metric.Float64Histogram

	serviceAttrs []attribute.KeyValue

	provider         Provider
	providerSetCount int
	otlpEndpoint     string
	exportInterval   time.Duration
	durationBuckets  []float64
	serviceName      string
	serviceVersion   string

	customMeterProvider bool
	registerGlobal      bool
	validationErrors    []error

	shutdownOnce sync.Once
}

var _ matcher.MatchRecorder = (*Recorder)(nil)

// New creates a Recorder with the given options. Returns an error if the
// configuration is invalid or the provider fails to initialize. For a
// version that panics on error, use [MustNew].
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return r, nil
}

// MustNew creates a Recorder and panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		serviceName:     "rivaas-matcher",
		serviceVersion:  "1.0.0",
		eventHandler:    func(Event) {},
	}
}

func (r *Recorder) validate() error {
	if len(r.validationErrors) > 0 {
		return fmt.Errorf("configuration errors: %v", r.validationErrors)
	}
	if r.providerSetCount > 1 {
		return fmt.Errorf("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}
	if r.serviceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return fmt.Errorf("service version cannot be empty")
	}
	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
		r.otlpEndpoint = "http://localhost:4318"
	}
	if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}
	return nil
}

// initializeMetrics creates the instruments on the configured meter.
func (r *Recorder) initializeMetrics() error {
	r.serviceAttrs = []attribute.KeyValue{
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	}

	var err error
	r.matchCount, err = r.meter.Int64Counter(
		"matcher.match.count",
		metric.WithDescription("Total Match calls by outcome and source"),
	)
	if err != nil {
		return fmt.Errorf("failed to create match counter: %w", err)
	}

	r.matchDuration, err = r.meter.Float64Histogram(
		"matcher.match.duration",
		metric.WithDescription("Match resolution duration on the uncached path"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create match duration histogram: %w", err)
	}

	return nil
}

// OnMatch implements [matcher.MatchRecorder]. Metrics are keyed on the
// matched pattern and categorical attributes, never the raw path, to keep
// cardinality bounded.
func (r *Recorder) OnMatch(e matcher.MatchEvent) {
	ctx := context.Background()

	outcome := "unmatched"
	if e.Matched {
		outcome = "matched"
	}
	source := "engine"
	if e.CacheHit {
		source = "cache"
	}

	attrs := make([]attribute.KeyValue, 0, len(r.serviceAttrs)+2)
	attrs = append(attrs, r.serviceAttrs...)
	attrs = append(attrs,
		attribute.String("outcome", outcome),
		attribute.String("source", source),
	)

	r.matchCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if !e.CacheHit {
		r.matchDuration.Record(ctx, e.Duration.Seconds(), metric.WithAttributes(attrs...))
	}
}

// RegisterCacheSize registers an observable gauge reporting the match cache
// size through the provided callback, read at collection time.
//
// Example:
//
//	rec.RegisterCacheSize(func() int64 { return int64(m.CacheLen()) })
func (r *Recorder) RegisterCacheSize(size func() int64) error {
	gauge, err := r.meter.Int64ObservableGauge(
		"matcher.cache.size",
		metric.WithDescription("Current number of cached match results"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache size gauge: %w", err)
	}
	_, err = r.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, size(), metric.WithAttributes(r.serviceAttrs...))
		return nil
	}, gauge)
	if err != nil {
		return fmt.Errorf("failed to register cache size callback: %w", err)
	}
	return nil
}

// Handler returns the Prometheus scrape handler, or nil unless the
// Prometheus provider is active.
func (r *Recorder) Handler() http.Handler {
	return r.prometheusHandler
}

// MeterProvider returns the meter provider in use, for callers wiring
// additional instrumentation onto the same pipeline.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// Shutdown flushes and stops the underlying meter provider. It is a no-op
// for a caller-supplied provider, whose lifecycle stays with the caller.
func (r *Recorder) Shutdown(ctx context.Context) error {
	var err error
	r.shutdownOnce.Do(func() {
		if r.customMeterProvider {
			return
		}
		if sd, ok := r.meterProvider.(interface{ Shutdown(context.Context) error }); ok {
			err = sd.Shutdown(ctx)
		}
	})
	return err
}

func (r *Recorder) emitError(msg string, args ...any) {
	r.eventHandler(Event{Type: EventError, Message: msg, Args: args})
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
}
