// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName identifies this instrumentation scope
const meterName = "github.com/renthub/backend"

// Meter returns the application meter from the global provider. Without a
// configured SDK this is a no-op meter, so instrumented code paths cost
// nothing in tests and minimal deployments.
func Meter() metric.Meter {
	return otel.GetMeterProvider().Meter(meterName)
}

// Counter is a helper for creating and recording counter metrics
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by the given value with optional attributes
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1 with optional attributes
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Common attribute keys for consistency across metrics
var (
	AttrPackageName = attribute.Key("package_name")
	AttrTier        = attribute.Key("tier")
	AttrCurrency    = attribute.Key("currency")

	attrOutcome = attribute.Key("outcome")
)
