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

package dispatchcore

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTelListener is the Router's reference Listener (spec §9 domain stack):
// it assigns each call's CallID from google/uuid, opens an OpenTelemetry
// span for the call's lifetime, and records a request counter plus a
// duration histogram through the OTel metrics API — the same three-pillar
// split the teacher's ObservabilityRecorder documents (tracing + metrics +
// logging), minus the access-log leg, which belongs to whichever *slog*
// handler the caller already has configured.
type OTelListener struct {
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewOTelListener builds an OTelListener from the given providers. Passing
// nil for either uses a no-op provider, so that leg records nothing; the
// OTel global providers are not consulted.
func NewOTelListener(tp trace.TracerProvider, mp metric.MeterProvider) (*OTelListener, error) {
	if tp == nil {
		tp = trace.NewNoopTracerProvider()
	}
	tracer := tp.Tracer("github.com/rivaas-dev/dispatchcore")

	var meter metric.Meter
	if mp != nil {
		meter = mp.Meter("github.com/rivaas-dev/dispatchcore")
	} else {
		meter = noop.NewMeterProvider().Meter("github.com/rivaas-dev/dispatchcore")
	}

	calls, err := meter.Int64Counter("dispatchcore.calls",
		metric.WithDescription("Number of dispatched calls, by route and outcome."))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("dispatchcore.call.duration",
		metric.WithDescription("Call duration in seconds, by route."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &OTelListener{tracer: tracer, calls: calls, duration: duration}, nil
}

type callTimingKey struct{}

// OnStart opens a span for the call and stamps a CallID via google/uuid
// (spec §4.6 step 4: "callId = listener.onStart(eventLoop, route)").
func (l *OTelListener) OnStart(ctx context.Context, route *Route) (context.Context, string) {
	ctx, _ = l.tracer.Start(ctx, route.Name,
		trace.WithAttributes(
			attribute.String("dispatchcore.route", route.Name),
			attribute.Int64("dispatchcore.route.version", route.Version),
		))
	ctx = context.WithValue(ctx, callTimingKey{}, time.Now())
	return ctx, uuid.NewString()
}

func (l *OTelListener) OnSucceed(ctx context.Context, callID string, route *Route, result Result) {
	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Ok, "")
	span.End()
	l.record(ctx, route, "success")
}

func (l *OTelListener) OnFail(ctx context.Context, callID string, route *Route, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()

	status := statusFor(asDispatchError(err))
	l.record(ctx, route, "error_"+strconv.Itoa((status/100)*100))
}

// NewPrometheusListener wires a fresh OTel SDK MeterProvider to a Prometheus
// exporter registered against reg, and returns a ready-to-use OTelListener
// alongside it (spec §9 domain stack: prometheus/client_golang +
// otel/exporters/prometheus). Callers expose the metrics by mounting
// promhttp.HandlerFor(reg, ...) — wiring an HTTP mux is a transport concern
// left to the nethttp adapter or the caller's own server setup.
func NewPrometheusListener(reg *prometheus.Registry) (*OTelListener, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return NewOTelListener(nil, mp)
}

func (l *OTelListener) record(ctx context.Context, route *Route, outcome string) {
	attrs := metric.WithAttributes(
		attribute.String("dispatchcore.route", route.Name),
		attribute.String("dispatchcore.outcome", outcome),
	)
	l.calls.Add(ctx, 1, attrs)

	if start, ok := ctx.Value(callTimingKey{}).(time.Time); ok {
		l.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
