package appointment

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Alijeyrad/hospital_backend/internal/service/appointment"

type metrics struct {
	bookings        metric.Int64Counter
	reconciliations metric.Int64Counter
}

// newMetrics registers the counters on the global meter provider. With no
// provider installed the otel no-op implementation is used.
func newMetrics() *metrics {
	meter := otel.Meter(meterName)
	m := &metrics{}
	m.bookings, _ = meter.Int64Counter("service_appointment_bookings_total",
		metric.WithDescription("Service appointments created, by payment path"))
	m.reconciliations, _ = meter.Int64Counter("service_appointment_reconciliations_total",
		metric.WithDescription("Checkout session reconciliations, by outcome"))
	return m
}

func (m *metrics) booked(ctx context.Context, path string) {
	if m == nil || m.bookings == nil {
		return
	}
	m.bookings.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
}

func (m *metrics) reconciled(ctx context.Context, outcome string) {
	if m == nil || m.reconciliations == nil {
		return
	}
	m.reconciliations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
