package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeStockReceipt is the aggregate type for stock receipt events
const AggregateTypeStockReceipt = "StockReceipt"

// StockReceipt is an immutable record of stock received for a product.
// Receipts are the only source of stock increases.
type StockReceipt struct {
	shared.BaseAggregateRoot
	ProductID    uuid.UUID
	Quantity     int64
	UnitCost     decimal.Decimal
	SellingPrice *decimal.Decimal // list price set by this receipt, if any
	ReceivedAt   time.Time
}

// NewStockReceipt creates a new stock receipt
func NewStockReceipt(productID uuid.UUID, quantity int64, unitCost decimal.Decimal, sellingPrice *decimal.Decimal) (*StockReceipt, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 || unitCost.IsNegative() {
		return nil, shared.ErrInvalidQuantityOrPrice
	}
	if sellingPrice != nil && sellingPrice.IsNegative() {
		return nil, shared.ErrInvalidQuantityOrPrice
	}

	r := &StockReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Quantity:          quantity,
		UnitCost:          unitCost,
		SellingPrice:      sellingPrice,
	}
	r.ReceivedAt = r.CreatedAt
	r.AddDomainEvent(NewStockReceivedEvent(r))
	return r, nil
}

// TotalCost returns quantity times unit cost
func (r *StockReceipt) TotalCost() decimal.Decimal {
	return r.UnitCost.Mul(decimal.NewFromInt(r.Quantity))
}
