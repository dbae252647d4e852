package persistence

import (
	"context"
	"time"

	"github.com/shopledger/backend/internal/domain/report"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesReportRepository implements SalesReportRepository using GORM
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// SumSales totals non-cancelled sales sold in [from, to).
// Bounds are compared in UTC, the zone every timestamp is stored in.
func (r *GormSalesReportRepository) SumSales(ctx context.Context, from, to time.Time) (report.SalesTotals, error) {
	var result struct {
		TotalSales  decimal.NullDecimal
		TotalProfit decimal.NullDecimal
		SaleCount   int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select(`
			SUM(total_price) AS total_sales,
			SUM(profit) AS total_profit,
			COUNT(*) AS sale_count
		`).
		Where("sold_at >= ? AND sold_at < ?", from.UTC(), to.UTC()).
		Where("status <> ?", trade.SaleStatusCancelled).
		Scan(&result).Error
	if err != nil {
		return report.SalesTotals{}, err
	}

	return report.SalesTotals{
		TotalSales:  nullToZero(result.TotalSales),
		TotalProfit: nullToZero(result.TotalProfit),
		SaleCount:   result.SaleCount,
	}, nil
}

// GormInventoryReportRepository implements InventoryReportRepository using GORM.
// Availability is computed from the receipt and sale tables, not products.on_hand.
type GormInventoryReportRepository struct {
	db *gorm.DB
}

// NewGormInventoryReportRepository creates a new GormInventoryReportRepository
func NewGormInventoryReportRepository(db *gorm.DB) *GormInventoryReportRepository {
	return &GormInventoryReportRepository{db: db}
}

// CountLowStock counts products with available <= reorder level
func (r *GormInventoryReportRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("(?) AS stock", r.availability(ctx)).
		Where("stock.available <= stock.reorder_level").
		Count(&count).Error
	return count, err
}

// ListLowStock lists low-stock products, lowest availability first
func (r *GormInventoryReportRepository) ListLowStock(ctx context.Context, limit int) ([]report.LowStockItem, error) {
	var items []report.LowStockItem
	query := r.db.WithContext(ctx).
		Table("(?) AS stock", r.availability(ctx)).
		Select("stock.product_id, stock.product_name, stock.unit, stock.available, stock.reorder_level").
		Where("stock.available <= stock.reorder_level").
		Order("stock.available ASC, stock.product_name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// availability builds one row per product with received minus non-cancelled sold quantity
func (r *GormInventoryReportRepository) availability(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	received := db.Model(&models.StockReceiptModel{}).
		Select("product_id, SUM(quantity) AS qty").
		Group("product_id")
	sold := db.Model(&models.SaleModel{}).
		Select("product_id, SUM(quantity) AS qty").
		Where("status <> ?", trade.SaleStatusCancelled).
		Group("product_id")

	return db.Table("products AS p").
		Select(`
			p.id AS product_id,
			p.name AS product_name,
			p.unit AS unit,
			p.reorder_level AS reorder_level,
			COALESCE(rcv.qty, 0) - COALESCE(sld.qty, 0) AS available
		`).
		Joins("LEFT JOIN (?) AS rcv ON rcv.product_id = p.id", received).
		Joins("LEFT JOIN (?) AS sld ON sld.product_id = p.id", sold)
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

var (
	_ report.SalesReportRepository     = (*GormSalesReportRepository)(nil)
	_ report.InventoryReportRepository = (*GormInventoryReportRepository)(nil)
)
