package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and
// optional OTLP push. It returns a Recorder, the Prometheus HTTP handler,
// and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "nba-live-sync"
	}

	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	opts := []sdkmetric.Option{sdkmetric.WithReader(promExp)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := buildOTLPReader(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := newOtelInstruments(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	fetchAttempts    metric.Int64Counter
	fetchErrors      metric.Int64Counter
	fetchLatencyMs   metric.Float64Histogram
	pollerCycles     metric.Int64Counter
	pollerErrors     metric.Int64Counter
	pollerLatencyMs  metric.Float64Histogram
	changedGames     metric.Int64Counter
	broadcasts       metric.Int64Counter
	broadcastClients metric.Int64Counter
	publishes        metric.Int64Counter
	publishErrors    metric.Int64Counter
	cacheHits        metric.Int64Counter
	cacheMisses      metric.Int64Counter
	consumed         metric.Int64Counter
	consumeErrors    metric.Int64Counter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("nba-live-sync")
	inst := &otelInstruments{ctx: context.Background()}

	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
	}{
		{&inst.fetchAttempts, "fetch_attempts_total"},
		{&inst.fetchErrors, "fetch_errors_total"},
		{&inst.pollerCycles, "poller_cycles_total"},
		{&inst.pollerErrors, "poller_errors_total"},
		{&inst.changedGames, "changed_games_total"},
		{&inst.broadcasts, "socket_broadcasts_total"},
		{&inst.broadcastClients, "socket_broadcast_clients_total"},
		{&inst.publishes, "channel_publishes_total"},
		{&inst.publishErrors, "channel_publish_errors_total"},
		{&inst.cacheHits, "cache_hits_total"},
		{&inst.cacheMisses, "cache_misses_total"},
		{&inst.consumed, "consumer_messages_total"},
		{&inst.consumeErrors, "consumer_errors_total"},
		{&inst.requests, "http_requests_total"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name); err != nil {
			return nil, err
		}
	}

	if inst.fetchLatencyMs, err = meter.Float64Histogram("fetch_duration_ms"); err != nil {
		return nil, err
	}
	if inst.pollerLatencyMs, err = meter.Float64Histogram("poller_cycle_duration_ms"); err != nil {
		return nil, err
	}
	if inst.requestLatencyMs, err = meter.Float64Histogram("http_request_duration_ms"); err != nil {
		return nil, err
	}

	return inst, nil
}

func (o *otelInstruments) recordFetchAttempt(provider string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	o.fetchAttempts.Add(o.ctx, 1, attrs)
	if err != nil {
		o.fetchErrors.Add(o.ctx, 1, attrs)
	}
	o.fetchLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
}

func (o *otelInstruments) recordPollerCycle(duration time.Duration, err error) {
	o.pollerCycles.Add(o.ctx, 1)
	if err != nil {
		o.pollerErrors.Add(o.ctx, 1)
	}
	o.pollerLatencyMs.Record(o.ctx, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordChangedGames(n int) {
	o.changedGames.Add(o.ctx, int64(n))
}

func (o *otelInstruments) recordBroadcast(clients int) {
	o.broadcasts.Add(o.ctx, 1)
	o.broadcastClients.Add(o.ctx, int64(clients))
}

func (o *otelInstruments) recordPublish(err error) {
	o.publishes.Add(o.ctx, 1)
	if err != nil {
		o.publishErrors.Add(o.ctx, 1)
	}
}

func (o *otelInstruments) recordCacheLookup(hit bool) {
	if hit {
		o.cacheHits.Add(o.ctx, 1)
	} else {
		o.cacheMisses.Add(o.ctx, 1)
	}
}

func (o *otelInstruments) recordConsumed(err error) {
	o.consumed.Add(o.ctx, 1)
	if err != nil {
		o.consumeErrors.Add(o.ctx, 1)
	}
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
}
