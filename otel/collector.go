// Package otel adapts corecache.MetricsCollector to OpenTelemetry
// instruments, so cache metrics flow into whatever backend the host
// application already exports to (Prometheus, Jaeger, Datadog, ...).
//
// Kept as a separate module, mirroring agilira-balios/otel: the core
// corecache package never imports go.opentelemetry.io/otel, so programs
// that don't want OTEL in their dependency graph never pay for it.
package otel

import (
	"context"
	"errors"

	"github.com/agilira/corecache"
	"go.opentelemetry.io/otel/metric"
)

// Collector implements corecache.MetricsCollector on top of an
// OpenTelemetry meter. Latencies are recorded as histograms (letting the
// backend compute percentiles); counts use monotonic counters.
type Collector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	expirations   metric.Int64Counter
}

// Options configures NewCollector.
type Options struct {
	// MeterName names the OpenTelemetry meter. Default:
	// "github.com/agilira/corecache".
	MeterName string
}

// Option is a functional option for Options.
type Option func(*Options)

// WithMeterName overrides the default meter name.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// NewCollector builds a Collector against provider, registering the
// histogram and counter instruments corecache reports through.
func NewCollector(provider metric.MeterProvider, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, errors.New("corecache/otel: meter provider must not be nil")
	}
	options := Options{MeterName: "github.com/agilira/corecache"}
	for _, opt := range opts {
		opt(&options)
	}
	meter := provider.Meter(options.MeterName)

	c := &Collector{}
	var err error

	if c.getLatency, err = meter.Int64Histogram("corecache_get_latency_ns",
		metric.WithDescription("Latency of Get operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.setLatency, err = meter.Int64Histogram("corecache_set_latency_ns",
		metric.WithDescription("Latency of Put operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.deleteLatency, err = meter.Int64Histogram("corecache_delete_latency_ns",
		metric.WithDescription("Latency of Remove operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter("corecache_get_hits_total",
		metric.WithDescription("Total cache hits")); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter("corecache_get_misses_total",
		metric.WithDescription("Total cache misses")); err != nil {
		return nil, err
	}
	if c.evictions, err = meter.Int64Counter("corecache_evictions_total",
		metric.WithDescription("Total evictions")); err != nil {
		return nil, err
	}
	if c.expirations, err = meter.Int64Counter("corecache_expirations_total",
		metric.WithDescription("Total time-based expirations")); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

func (c *Collector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

func (c *Collector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

func (c *Collector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

func (c *Collector) RecordExpiration() {
	c.expirations.Add(context.Background(), 1)
}

var _ corecache.MetricsCollector = (*Collector)(nil)
