package catalog

import (
	"time"

	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel is the reorder threshold given to products that do not set one
const DefaultReorderLevel int64 = 5

// Product represents a sellable item in the shop.
// It is the aggregate root for pricing and the on-hand stock projection.
//
// OnHand is a cached projection of the stock ledger
// (received quantity minus non-cancelled sales). The ledger stays the source of truth;
// the projection is rewritten on every stock write inside the same transaction.
type Product struct {
	shared.BaseAggregateRoot
	Name         string
	Unit         string          // e.g. "kg", "piece", "litre"
	BuyingPrice  decimal.Decimal // cost price used for profit on the next sale
	SellingPrice decimal.Decimal // list price
	ReorderLevel int64
	OnHand       int64
}

// NewProduct creates a new product with zero stock
func NewProduct(name, unit string, buyingPrice, sellingPrice decimal.Decimal, reorderLevel int64) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if buyingPrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if reorderLevel < 0 {
		return nil, shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Unit:              unit,
		BuyingPrice:       buyingPrice,
		SellingPrice:      sellingPrice,
		ReorderLevel:      reorderLevel,
		OnHand:            0,
	}, nil
}

// ApplyReceipt records received stock on the product: the receipt's unit cost becomes the
// cost price for subsequent profit calculations, the optional selling price replaces the
// list price, and the on-hand projection grows by quantity.
func (p *Product) ApplyReceipt(quantity int64, unitCost decimal.Decimal, sellingPrice *decimal.Decimal) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantityOrPrice
	}
	if unitCost.IsNegative() {
		return shared.ErrInvalidQuantityOrPrice
	}
	if sellingPrice != nil && sellingPrice.IsNegative() {
		return shared.ErrInvalidQuantityOrPrice
	}

	oldBuying, oldSelling := p.BuyingPrice, p.SellingPrice
	p.BuyingPrice = unitCost
	if sellingPrice != nil {
		p.SellingPrice = *sellingPrice
	}
	p.OnHand += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if !oldBuying.Equal(p.BuyingPrice) || !oldSelling.Equal(p.SellingPrice) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldBuying, oldSelling))
	}
	return nil
}

// ApplyDeduction lowers the on-hand projection after a sale was committed
func (p *Product) ApplyDeduction(quantity int64) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantityOrPrice
	}
	if quantity > p.OnHand {
		return shared.ErrInsufficientStock
	}
	p.OnHand -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SyncOnHand overwrites the projection with a value recomputed from the ledger
func (p *Product) SyncOnHand(available int64) {
	if p.OnHand == available {
		return
	}
	p.OnHand = available
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsLowStock reports whether the given available quantity is at or below the reorder level
func (p *Product) IsLowStock(available int64) bool {
	return available <= p.ReorderLevel
}

// IsBelowCost reports whether price undercuts the current cost price
func (p *Product) IsBelowCost(price decimal.Decimal) bool {
	return price.LessThan(p.BuyingPrice)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 50 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 50 characters")
	}
	return nil
}
