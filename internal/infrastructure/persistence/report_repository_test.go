package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSaleAt(t *testing.T, db *gorm.DB, product *catalog.Product, quantity int64, price int64, soldAt time.Time, status trade.SaleStatus) {
	t.Helper()
	sale, err := trade.NewSale(product, nil, quantity, decimal.NewFromInt(price), trade.PaymentModeCash, false)
	require.NoError(t, err)
	sale.SoldAt = soldAt
	sale.Status = status
	require.NoError(t, NewGormSaleRepository(db).Create(context.Background(), sale))
}

func TestGormSalesReportRepository_SumSales(t *testing.T) {
	db := newSQLiteTestDB(t)
	ctx := context.Background()
	repo := NewGormSalesReportRepository(db)

	product := newTestProduct(t, "Milk") // cost 80
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seedSaleAt(t, db, product, 1, 100, day.Add(9*time.Hour), trade.SaleStatusCompleted)
	seedSaleAt(t, db, product, 2, 90, day.Add(23*time.Hour), trade.SaleStatusPendingPayment)
	seedSaleAt(t, db, product, 5, 100, day.Add(10*time.Hour), trade.SaleStatusCancelled)
	seedSaleAt(t, db, product, 1, 100, day.Add(24*time.Hour), trade.SaleStatusCompleted) // next day

	totals, err := repo.SumSales(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.SaleCount)
	assert.True(t, totals.TotalSales.Equal(decimal.NewFromInt(280)), totals.TotalSales.String())
	assert.True(t, totals.TotalProfit.Equal(decimal.NewFromInt(40)), totals.TotalProfit.String())

	t.Run("empty window is zero", func(t *testing.T) {
		totals, err := repo.SumSales(ctx, day.AddDate(1, 0, 0), day.AddDate(1, 0, 1))
		require.NoError(t, err)
		assert.Zero(t, totals.SaleCount)
		assert.True(t, totals.TotalSales.IsZero())
		assert.True(t, totals.TotalProfit.IsZero())
	})

	t.Run("bounds in another zone are normalized", func(t *testing.T) {
		nairobi := time.FixedZone("EAT", 3*3600)
		from := day.In(nairobi)
		totals, err := repo.SumSales(ctx, from, from.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), totals.SaleCount)
	})
}

func TestGormInventoryReportRepository_LowStock(t *testing.T) {
	db := newSQLiteTestDB(t)
	ctx := context.Background()
	products := NewGormProductRepository(db)
	receipts := NewGormStockReceiptRepository(db)
	repo := NewGormInventoryReportRepository(db)

	receive := func(p *catalog.Product, qty int64) {
		r, err := inventory.NewStockReceipt(p.ID, qty, decimal.NewFromInt(50), nil)
		require.NoError(t, err)
		require.NoError(t, receipts.Create(ctx, r))
	}

	low := newTestProduct(t, "Eggs") // reorder level 5
	healthy := newTestProduct(t, "Flour")
	empty, err := catalog.NewProduct("Yeast", "sachet", decimal.NewFromInt(10), decimal.NewFromInt(15), 0)
	require.NoError(t, err)
	for _, p := range []*catalog.Product{low, healthy, empty} {
		require.NoError(t, products.Save(ctx, p))
	}

	receive(low, 10)
	seedSale(t, db, low.ID, 6, trade.SaleStatusCompleted)
	receive(healthy, 20)
	seedSale(t, db, healthy.ID, 18, trade.SaleStatusCancelled)

	count, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	items, err := repo.ListLowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, empty.ID, items[0].ProductID)
	assert.Equal(t, int64(0), items[0].Available)
	assert.Equal(t, low.ID, items[1].ProductID)
	assert.Equal(t, int64(4), items[1].Available)
	assert.Equal(t, int64(5), items[1].ReorderLevel)
	assert.Equal(t, "piece", items[1].Unit)

	t.Run("limit caps the list", func(t *testing.T) {
		items, err := repo.ListLowStock(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}
