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

package metrics

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithPrometheus selects the Prometheus provider (the default). Metrics are
// collected in a private registry; mount [Recorder.Handler] wherever the
// scrape endpoint should live.
//
// Example:
//
//	rec := metrics.MustNew(metrics.WithPrometheus())
//	mux.Handle("/metrics", rec.Handler())
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP selects the OTLP HTTP provider pushing to endpoint
// (e.g. "http://localhost:4318"). An http:// prefix implies an insecure
// connection.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
		r.providerSetCount++
	}
}

// WithStdout selects the stdout provider, printing metrics on the export
// interval. Intended for development and testing.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithMeterProvider supplies a custom OpenTelemetry [metric.MeterProvider].
// Provider options (WithPrometheus, WithOTLP, WithStdout) are ignored and
// the provider's lifecycle, including shutdown, stays with the caller.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	rec := metrics.MustNew(metrics.WithMeterProvider(mp))
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithGlobalMeterProvider registers the meter provider as the global
// OpenTelemetry meter provider via otel.SetMeterProvider(). By default no
// global registration happens, so multiple recorders can coexist.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service.name attribute attached to all metrics.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute attached to all metrics.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithExportInterval sets the export interval for the OTLP and stdout
// providers. Must be positive.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		if interval <= 0 {
			r.validationErrors = append(r.validationErrors,
				fmt.Errorf("export interval must be positive, got %v", interval))
			return
		}
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets custom histogram bucket boundaries, in seconds,
// for the match duration histogram. If not set, [DefaultDurationBuckets]
// is used.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithLogger routes internal operational events to the given slog.Logger.
// Shorthand for WithEventHandler(DefaultEventHandler(logger)).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.eventHandler = DefaultEventHandler(logger)
	}
}

// WithEventHandler sets a custom handler for internal operational events.
func WithEventHandler(handler EventHandler) Option {
	return func(r *Recorder) {
		if handler == nil {
			handler = func(Event) {}
		}
		r.eventHandler = handler
	}
}
