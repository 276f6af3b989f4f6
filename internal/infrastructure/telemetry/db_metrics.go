package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Connection states reported on db_pool_connections
var (
	poolStateIdle  = metric.WithAttributes(attribute.String("state", "idle"))
	poolStateInUse = metric.WithAttributes(attribute.String("state", "in_use"))
)

// RegisterDBPoolMetrics reports the connection pool statistics of sqlDB each time
// the meter's reader collects. Unregister the returned registration before
// closing sqlDB.
func RegisterDBPoolMetrics(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_connections: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_connections_max: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for since the pool was opened"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_wait_total: %w", err)
	}
	waitDuration, err := meter.Float64ObservableCounter("db_pool_wait_duration_seconds",
		metric.WithDescription("Total time blocked waiting for a connection"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_wait_duration_seconds: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(connections, int64(stats.Idle), poolStateIdle)
		o.ObserveInt64(connections, int64(stats.InUse), poolStateInUse)
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		o.ObserveFloat64(waitDuration, stats.WaitDuration.Seconds())
		return nil
	}, connections, maxOpen, waits, waitDuration)
}
