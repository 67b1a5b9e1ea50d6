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
	"context"
	"fmt"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// initializeProvider initializes the metrics provider based on configuration.
func (r *Recorder) initializeProvider() error {
	// A caller-supplied meter provider bypasses built-in provider setup.
	if r.customMeterProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.emitDebug("Using custom user-provided meter provider")
		r.meter = r.meterProvider.Meter(meterName)
		return r.initializeMetrics()
	}

	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheusProvider()
	case OTLPProvider:
		return r.initOTLPProvider()
	case StdoutProvider:
		return r.initStdoutProvider()
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
}

// initPrometheusProvider wires a private Prometheus registry so the
// recorder never collides with a host application's global registry.
// The scrape endpoint is whatever the caller mounts Handler() on.
func (r *Recorder) initPrometheusProvider() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)

	r.finishProviderSetup("prometheus")
	return r.initializeMetrics()
}

// initOTLPProvider initializes the OTLP HTTP metrics provider.
func (r *Recorder) initOTLPProvider() error {
	opts := []otlpmetrichttp.Option{}

	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		insecure := false

		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint = rest
			insecure = true
		} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
			endpoint = rest
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}

		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)

	r.finishProviderSetup("otlp")
	return r.initializeMetrics()
}

// initStdoutProvider initializes the stdout metrics provider.
func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)

	r.finishProviderSetup("stdout")
	return r.initializeMetrics()
}

// finishProviderSetup applies global registration policy and binds the meter.
func (r *Recorder) finishProviderSetup(provider string) {
	if r.registerGlobal {
		r.emitDebug("Setting global OpenTelemetry meter provider", "provider", provider)
		otel.SetMeterProvider(r.meterProvider)
	} else {
		r.emitDebug("Skipping global meter provider registration", "provider", provider)
	}
	r.meter = r.meterProvider.Meter(meterName)
}
