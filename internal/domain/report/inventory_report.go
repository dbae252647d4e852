package report

import (
	"context"

	"github.com/google/uuid"
)

// LowStockItem is a product whose derived stock is at or below its reorder level
type LowStockItem struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Unit         string    `json:"unit"`
	Available    int64     `json:"available"`
	ReorderLevel int64     `json:"reorder_level"`
}

// InventoryReportRepository defines the read-side stock queries.
// Availability is derived from receipts and non-cancelled sales, not the on-hand projection.
type InventoryReportRepository interface {
	// CountLowStock counts products with available <= reorder level
	CountLowStock(ctx context.Context) (int64, error)

	// ListLowStock lists those products, lowest availability first
	ListLowStock(ctx context.Context, limit int) ([]LowStockItem, error)
}
