package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all console metrics
type Metrics struct {
	RequestCounter   metric.Int64Counter
	RequestDuration  metric.Float64Histogram
	RefreshCycles    metric.Int64Counter
	MutationEvents   metric.Int64Counter
	SessionTeardowns metric.Int64Counter
}

// InitMetrics initializes all console metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("saas-admin-console")

	requestCounter, err := meter.Int64Counter(
		"api.requests.total",
		metric.WithDescription("Total backend API requests issued"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("Backend API request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	refreshCycles, err := meter.Int64Counter(
		"view.refresh.cycles",
		metric.WithDescription("View refresh cycles completed"),
	)
	if err != nil {
		return nil, err
	}

	mutationEvents, err := meter.Int64Counter(
		"bus.mutation.events",
		metric.WithDescription("Mutation events published on the bus"),
	)
	if err != nil {
		return nil, err
	}

	sessionTeardowns, err := meter.Int64Counter(
		"session.teardowns",
		metric.WithDescription("Sessions torn down after a 401 response"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:   requestCounter,
		RequestDuration:  requestDuration,
		RefreshCycles:    refreshCycles,
		MutationEvents:   mutationEvents,
		SessionTeardowns: sessionTeardowns,
	}, nil
}

// RecordRequest records one backend API request
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordRefresh records a completed view refresh cycle
func (m *Metrics) RecordRefresh(view, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("view.name", view),
		attribute.String("view.outcome", outcome),
	}

	m.RefreshCycles.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordMutationEvent records a published mutation event
func (m *Metrics) RecordMutationEvent(kind string) {
	m.MutationEvents.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("event.kind", kind)))
}

// RecordSessionTeardown records a 401-driven session teardown
func (m *Metrics) RecordSessionTeardown() {
	m.SessionTeardowns.Add(context.Background(), 1)
}
