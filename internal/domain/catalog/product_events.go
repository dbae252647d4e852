package catalog

import (
	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeProduct is the aggregate type for product events
const AggregateTypeProduct = "Product"

// EventTypeProductPriceChanged is raised when a stock receipt changes cost or list price
const EventTypeProductPriceChanged = "ProductPriceChanged"

// ProductPriceChangedEvent carries the old and new prices of a product
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID       `json:"product_id"`
	OldBuyingPrice  decimal.Decimal `json:"old_buying_price"`
	NewBuyingPrice  decimal.Decimal `json:"new_buying_price"`
	OldSellingPrice decimal.Decimal `json:"old_selling_price"`
	NewSellingPrice decimal.Decimal `json:"new_selling_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(p *Product, oldBuying, oldSelling decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		OldBuyingPrice:  oldBuying,
		NewBuyingPrice:  p.BuyingPrice,
		OldSellingPrice: oldSelling,
		NewSellingPrice: p.SellingPrice,
	}
}
