package telemetry

import (
	"context"

	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LowStockCounter reports how many products sit at or below their reorder level
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// SalesMetrics turns committed domain events into counters.
// It subscribes to the event bus, so only committed sales are counted.
type SalesMetrics struct {
	sales          metric.Int64Counter
	unitsSold      metric.Int64Counter
	revenue        metric.Float64Counter
	profit         metric.Float64UpDownCounter
	overrides      metric.Int64Counter
	payments       metric.Int64Counter
	paymentAmount  metric.Float64Counter
	settled        metric.Int64Counter
	unitsReceived  metric.Int64Counter
	thresholdAlert metric.Int64Counter
}

// NewSalesMetrics creates the instruments; lowStock may be nil
func NewSalesMetrics(meter metric.Meter, lowStock LowStockCounter) (*SalesMetrics, error) {
	m := &SalesMetrics{}
	var err error

	if m.sales, err = meter.Int64Counter("shopledger_sales_total",
		metric.WithDescription("Sales committed"), metric.WithUnit("{sales}")); err != nil {
		return nil, err
	}
	if m.unitsSold, err = meter.Int64Counter("shopledger_units_sold_total",
		metric.WithDescription("Units sold"), metric.WithUnit("{units}")); err != nil {
		return nil, err
	}
	if m.revenue, err = meter.Float64Counter("shopledger_sales_revenue_total",
		metric.WithDescription("Total price of committed sales")); err != nil {
		return nil, err
	}
	if m.profit, err = meter.Float64UpDownCounter("shopledger_sales_profit",
		metric.WithDescription("Profit of committed sales, negative for below-cost sales")); err != nil {
		return nil, err
	}
	if m.overrides, err = meter.Int64Counter("shopledger_override_sales_total",
		metric.WithDescription("Sales approved with the owner's override code"), metric.WithUnit("{sales}")); err != nil {
		return nil, err
	}
	if m.payments, err = meter.Int64Counter("shopledger_payments_total",
		metric.WithDescription("Payments recorded"), metric.WithUnit("{payments}")); err != nil {
		return nil, err
	}
	if m.paymentAmount, err = meter.Float64Counter("shopledger_payments_amount_total",
		metric.WithDescription("Money received through payments")); err != nil {
		return nil, err
	}
	if m.settled, err = meter.Int64Counter("shopledger_sales_settled_total",
		metric.WithDescription("Credit sales paid in full"), metric.WithUnit("{sales}")); err != nil {
		return nil, err
	}
	if m.unitsReceived, err = meter.Int64Counter("shopledger_units_received_total",
		metric.WithDescription("Units received into stock"), metric.WithUnit("{units}")); err != nil {
		return nil, err
	}
	if m.thresholdAlert, err = meter.Int64Counter("shopledger_stock_alerts_total",
		metric.WithDescription("Sales that left a product at or below its reorder level"), metric.WithUnit("{alerts}")); err != nil {
		return nil, err
	}

	if lowStock != nil {
		gauge, err := meter.Int64ObservableGauge("shopledger_low_stock_products",
			metric.WithDescription("Products at or below their reorder level"), metric.WithUnit("{products}"))
		if err != nil {
			return nil, err
		}
		if _, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			n, err := lowStock.CountLowStock(ctx)
			if err != nil {
				return err
			}
			o.ObserveInt64(gauge, n)
			return nil
		}, gauge); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// EventTypes implements shared.EventHandler
func (m *SalesMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeSaleCreated,
		trade.EventTypePaymentRecorded,
		trade.EventTypeSaleSettled,
		inventory.EventTypeStockReceived,
		inventory.EventTypeStockBelowThreshold,
	}
}

// Handle implements shared.EventHandler
func (m *SalesMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.SaleCreatedEvent:
		mode := metric.WithAttributes(attribute.String("payment_mode", string(e.PaymentMode)))
		m.sales.Add(ctx, 1, mode)
		m.unitsSold.Add(ctx, e.Quantity)
		m.revenue.Add(ctx, e.TotalPrice.InexactFloat64(), mode)
		m.profit.Add(ctx, e.Profit.InexactFloat64())
		if e.ApprovedByOverride {
			m.overrides.Add(ctx, 1)
		}
	case *trade.PaymentRecordedEvent:
		mode := metric.WithAttributes(attribute.String("payment_mode", string(e.Mode)))
		m.payments.Add(ctx, 1, mode)
		m.paymentAmount.Add(ctx, e.Amount.InexactFloat64(), mode)
	case *trade.SaleSettledEvent:
		m.settled.Add(ctx, 1)
	case *inventory.StockReceivedEvent:
		m.unitsReceived.Add(ctx, e.Quantity)
	case *inventory.StockBelowThresholdEvent:
		kind := "low_stock"
		if e.Available <= 0 {
			kind = "out_of_stock"
		}
		m.thresholdAlert.Add(ctx, 1, metric.WithAttributes(attribute.String("alert_type", kind)))
	}
	return nil
}

var _ shared.EventHandler = (*SalesMetrics)(nil)
