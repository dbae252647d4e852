package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

// InstrumentDB registers the otelgorm plugin so every statement becomes a span.
// Query arguments are never recorded; they can carry customer phone numbers.
func (p *Providers) InstrumentDB(db *gorm.DB, dbSystem string) error {
	if !p.cfg.DBTraceEnabled {
		return nil
	}
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithTracerProvider(p.TracerProvider()),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register otelgorm plugin: %w", err)
	}
	return nil
}

// PoolStatser is satisfied by *sql.DB
type PoolStatser interface {
	Stats() sql.DBStats
}

// RegisterPoolMetrics exposes connection pool usage as observable gauges
func RegisterPoolMetrics(meter metric.Meter, pool PoolStatser) error {
	open, err := meter.Int64ObservableGauge("shopledger_db_connections_open",
		metric.WithDescription("Open database connections"), metric.WithUnit("{connections}"))
	if err != nil {
		return err
	}
	inUse, err := meter.Int64ObservableGauge("shopledger_db_connections_in_use",
		metric.WithDescription("Database connections currently in use"), metric.WithUnit("{connections}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("shopledger_db_connections_wait_total",
		metric.WithDescription("Total waits for a free database connection"), metric.WithUnit("{waits}"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := pool.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, waits)
	return err
}
