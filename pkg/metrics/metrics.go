// Package metrics wires the framework's request/error counters and
// round-trip latency distribution into an in-process OpenTelemetry
// meter, in the spirit of the system-metrics gauges paypal-junodb's
// pkg/logging/otel feeds into its own otel meter, adapted to the
// metric API current at the time this module was written.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "devicerpc"

// Recorder tracks request counts, error counts, and a latency
// distribution, totalled across all commands, exposed both as otel instruments (for any
// collector wired to the provider) and as percentile snapshots via
// HdrHistogram-go (for fast in-process inspection, e.g. in tests).
type Recorder struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader

	requests metric.Int64Counter
	errors   metric.Int64Counter
	latency  metric.Float64Histogram

	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// NewRecorder builds a Recorder backed by a manual reader — this
// module has no metrics export pipeline of its own, so readings are
// pulled with Collect rather than pushed to a collector.
func NewRecorder() *Recorder {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter(meterName)

	requests, _ := meter.Int64Counter("rpc.requests",
		metric.WithDescription("number of dispatched requests, by command"))
	errors, _ := meter.Int64Counter("rpc.errors",
		metric.WithDescription("number of requests that returned a non-zero error code"))
	latency, _ := meter.Float64Histogram("rpc.latency_ms",
		metric.WithDescription("round-trip request latency in milliseconds"))

	return &Recorder{
		provider: provider,
		reader:   reader,
		requests: requests,
		errors:   errors,
		latency:  latency,
		hist:     hdrhistogram.New(1, 60_000, 3),
	}
}

// Observe records one completed request: its command (as an
// attribute-free count, since Command is an application-defined
// integer the metrics package has no names for), whether it failed,
// and how long it took.
func (r *Recorder) Observe(ctx context.Context, cmd int32, failed bool, elapsed time.Duration) {
	r.requests.Add(ctx, 1)
	if failed {
		r.errors.Add(ctx, 1)
	}

	ms := float64(elapsed.Microseconds()) / 1000.0
	r.latency.Record(ctx, ms)

	r.mu.Lock()
	r.hist.RecordValue(elapsed.Milliseconds())
	r.mu.Unlock()
}

// Snapshot returns the latency distribution's value at percentile p
// (0–100), in milliseconds, from the HdrHistogram-go recorder.
func (r *Recorder) Snapshot(p float64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hist.ValueAtPercentile(p)
}

// Collect pulls the current otel resource metrics snapshot from the
// manual reader, for tests or an embedder's own export loop.
func (r *Recorder) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var data metricdata.ResourceMetrics
	err := r.reader.Collect(ctx, &data)
	return data, err
}

// Shutdown releases the underlying meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}
