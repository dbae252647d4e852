package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// RegisterProductRequest registers a product so that stock can be received against it
type RegisterProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=255"`
	Unit         string          `json:"unit" binding:"required,min=1,max=50"`
	BuyingPrice  decimal.Decimal `json:"buying_price" binding:"money"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"money"`
	ReorderLevel *int64          `json:"reorder_level" binding:"omitempty,gte=0"`
}

// ReceiveStockRequest books a stock receipt
type ReceiveStockRequest struct {
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	Quantity     int64            `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost" binding:"money"`
	SellingPrice *decimal.Decimal `json:"selling_price" binding:"omitempty,money"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderLevel int64           `json:"reorder_level"`
	OnHand       int64           `json:"on_hand"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// StockReceiptResponse represents a stock receipt in API responses
type StockReceiptResponse struct {
	ID           uuid.UUID        `json:"id"`
	ProductID    uuid.UUID        `json:"product_id"`
	Quantity     int64            `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	ReceivedAt   time.Time        `json:"received_at"`
}

// StockLevelResponse is the derived stock of a product
type StockLevelResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	Available    int64     `json:"available"`
	ReorderLevel int64     `json:"reorder_level"`
	IsLowStock   bool      `json:"is_low_stock"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Unit:         p.Unit,
		BuyingPrice:  p.BuyingPrice,
		SellingPrice: p.SellingPrice,
		ReorderLevel: p.ReorderLevel,
		OnHand:       p.OnHand,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToStockReceiptResponse converts a domain StockReceipt to StockReceiptResponse
func ToStockReceiptResponse(r *inventory.StockReceipt) StockReceiptResponse {
	return StockReceiptResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		UnitCost:     r.UnitCost,
		SellingPrice: r.SellingPrice,
		TotalCost:    r.TotalCost(),
		ReceivedAt:   r.ReceivedAt,
	}
}
