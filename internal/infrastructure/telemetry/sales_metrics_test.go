package telemetry

import (
	"context"
	"testing"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fixedLowStock int64

func (f fixedLowStock) CountLowStock(context.Context) (int64, error) { return int64(f), nil }

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func int64Total(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	var total int64
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		for _, p := range d.DataPoints {
			total += p.Value
		}
	case metricdata.Gauge[int64]:
		for _, p := range d.DataPoints {
			total += p.Value
		}
	default:
		t.Fatalf("unexpected aggregation %T", data)
	}
	return total
}

func float64Total(t *testing.T, data metricdata.Aggregation) float64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[float64])
	require.True(t, ok, "unexpected aggregation %T", data)
	var total float64
	for _, p := range sum.DataPoints {
		total += p.Value
	}
	return total
}

func TestSalesMetrics_Handle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	m, err := NewSalesMetrics(meter, fixedLowStock(3))
	require.NoError(t, err)
	ctx := context.Background()

	product, err := catalog.NewProduct("Sugar", "kg", decimal.NewFromInt(80), decimal.NewFromInt(100), 5)
	require.NoError(t, err)

	cash, err := trade.NewSale(product, nil, 2, decimal.NewFromInt(100), trade.PaymentModeCash, false)
	require.NoError(t, err)
	belowCost, err := trade.NewSale(product, nil, 1, decimal.NewFromInt(70), trade.PaymentModeCredit, true)
	require.NoError(t, err)
	payment, err := cash.RecordInitialPayment(decimal.NewFromInt(200), "")
	require.NoError(t, err)

	for _, e := range []shared.DomainEvent{
		trade.NewSaleCreatedEvent(cash),
		trade.NewSaleCreatedEvent(belowCost),
		trade.NewPaymentRecordedEvent(cash, payment),
		trade.NewSaleSettledEvent(cash),
		inventory.NewStockBelowThresholdEvent(product, 0),
	} {
		require.NoError(t, m.Handle(ctx, e))
	}

	data := collect(t, reader)
	assert.Equal(t, int64(2), int64Total(t, data["shopledger_sales_total"]))
	assert.Equal(t, int64(3), int64Total(t, data["shopledger_units_sold_total"]))
	assert.InDelta(t, 270.0, float64Total(t, data["shopledger_sales_revenue_total"]), 1e-9)
	assert.InDelta(t, 30.0, float64Total(t, data["shopledger_sales_profit"]), 1e-9, "40 profit minus 10 loss")
	assert.Equal(t, int64(1), int64Total(t, data["shopledger_override_sales_total"]))
	assert.Equal(t, int64(1), int64Total(t, data["shopledger_payments_total"]))
	assert.Equal(t, int64(1), int64Total(t, data["shopledger_sales_settled_total"]))
	assert.Equal(t, int64(1), int64Total(t, data["shopledger_stock_alerts_total"]))
	assert.Equal(t, int64(3), int64Total(t, data["shopledger_low_stock_products"]))
}
