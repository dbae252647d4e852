package inventory

import (
	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeStockReceived       = "StockReceived"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockReceivedEvent is raised when a stock receipt is recorded
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ReceiptID uuid.UUID       `json:"receipt_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(r *StockReceipt) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeStockReceipt, r.ID),
		ReceiptID:       r.ID,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		UnitCost:        r.UnitCost,
	}
}

// StockBelowThresholdEvent is raised when a deduction leaves a product at or below its reorder level
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Available    int64     `json:"available"`
	ReorderLevel int64     `json:"reorder_level"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(p *catalog.Product, available int64) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, catalog.AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		ProductName:     p.Name,
		Available:       available,
		ReorderLevel:    p.ReorderLevel,
	}
}
