package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of the farm counters
const MeterName = "github.com/smartfarm/backend"

// LoginOutcome labels login attempts
type LoginOutcome string

const (
	LoginSucceeded LoginOutcome = "success"
	LoginFailed    LoginOutcome = "failed"
)

var (
	attrOutcome     = attribute.Key("outcome")
	attrReadingType = attribute.Key("reading.type")
	attrOrigin      = attribute.Key("reading.origin")
)

// FarmMetrics holds the domain counters. A nil *FarmMetrics is valid and
// records nothing, so services need no nil checks.
type FarmMetrics struct {
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	readings      metric.Int64Counter
}

// NewFarmMetrics creates the counters on meter
func NewFarmMetrics(meter metric.Meter) (*FarmMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	registrations, err := meter.Int64Counter("farm_user_registrations_total",
		metric.WithDescription("Total number of registered users"),
		metric.WithUnit("{users}"))
	if err != nil {
		return nil, err
	}
	logins, err := meter.Int64Counter("farm_login_attempts_total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempts}"))
	if err != nil {
		return nil, err
	}
	readings, err := meter.Int64Counter("farm_sensor_readings_total",
		metric.WithDescription("Sensor readings recorded by type and origin"),
		metric.WithUnit("{readings}"))
	if err != nil {
		return nil, err
	}

	return &FarmMetrics{registrations: registrations, logins: logins, readings: readings}, nil
}

// RecordRegistration counts a new account
func (m *FarmMetrics) RecordRegistration(ctx context.Context) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1)
}

// RecordLogin counts a login attempt
func (m *FarmMetrics) RecordLogin(ctx context.Context, outcome LoginOutcome) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(string(outcome))))
}

// RecordReading counts a stored sensor reading
func (m *FarmMetrics) RecordReading(ctx context.Context, readingType, origin string) {
	if m == nil {
		return
	}
	m.readings.Add(ctx, 1, metric.WithAttributes(
		attrReadingType.String(readingType),
		attrOrigin.String(origin),
	))
}
