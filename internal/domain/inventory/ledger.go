package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Ledger keeps product stock as the net of receipts and non-cancelled sales.
// The stored on-hand counter is only a projection; Available always recomputes from history.
//
// A Ledger is built over repositories bound to the caller's transaction, so the
// row lock taken by Receive or by the caller before Deduct lasts until commit.
type Ledger struct {
	products catalog.ProductRepository
	receipts StockReceiptRepository
	levels   StockLevelRepository
}

// NewLedger creates a new Ledger
func NewLedger(products catalog.ProductRepository, receipts StockReceiptRepository, levels StockLevelRepository) *Ledger {
	return &Ledger{
		products: products,
		receipts: receipts,
		levels:   levels,
	}
}

// Receive books a stock receipt: it persists the receipt, moves the product's cost price to
// the receipt's unit cost (and the list price when sellingPrice is set) and grows the projection.
func (l *Ledger) Receive(
	ctx context.Context,
	productID uuid.UUID,
	quantity int64,
	unitCost decimal.Decimal,
	sellingPrice *decimal.Decimal,
) (*StockReceipt, *catalog.Product, error) {
	receipt, err := NewStockReceipt(productID, quantity, unitCost, sellingPrice)
	if err != nil {
		return nil, nil, err
	}

	product, err := l.lockProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if err := product.ApplyReceipt(quantity, unitCost, sellingPrice); err != nil {
		return nil, nil, err
	}

	if err := l.receipts.Create(ctx, receipt); err != nil {
		return nil, nil, err
	}
	if err := l.products.SaveWithLock(ctx, product); err != nil {
		return nil, nil, err
	}
	return receipt, product, nil
}

// Available returns Σreceipts − Σnon-cancelled sales for the product
func (l *Ledger) Available(ctx context.Context, productID uuid.UUID) (int64, error) {
	exists, err := l.products.ExistsByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, shared.ErrProductNotFound
	}
	return l.available(ctx, productID)
}

// Deduct takes quantity out of stock for an already locked product.
// It re-derives availability from the ledger and refuses to go below zero.
// A projection that drifted from the ledger is rewritten first, so the
// conditional decrement is always checked against the derived stock.
// Returns the quantity left after the deduction.
func (l *Ledger) Deduct(ctx context.Context, product *catalog.Product, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, shared.ErrInvalidQuantityOrPrice
	}

	available, err := l.available(ctx, product.ID)
	if err != nil {
		return 0, err
	}
	if quantity > available {
		return 0, shared.ErrInsufficientStock
	}

	if product.OnHand != available {
		product.SyncOnHand(available)
		if err := l.products.SaveWithLock(ctx, product); err != nil {
			return 0, err
		}
	}
	if err := l.levels.DecrementOnHand(ctx, product.ID, quantity); err != nil {
		return 0, err
	}
	if err := product.ApplyDeduction(quantity); err != nil {
		return 0, err
	}

	remaining := product.OnHand
	if product.IsLowStock(remaining) {
		product.AddDomainEvent(NewStockBelowThresholdEvent(product, remaining))
	}
	return remaining, nil
}

// LockProduct loads the product holding its row lock until the transaction ends
func (l *Ledger) LockProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	return l.lockProduct(ctx, productID)
}

func (l *Ledger) lockProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := l.products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.ErrProductNotFound
	}
	return product, nil
}

func (l *Ledger) available(ctx context.Context, productID uuid.UUID) (int64, error) {
	received, err := l.levels.ReceivedQuantity(ctx, productID)
	if err != nil {
		return 0, err
	}
	sold, err := l.levels.SoldQuantity(ctx, productID)
	if err != nil {
		return 0, err
	}
	if sold > received {
		// only reachable if history was edited outside the ledger
		return 0, nil
	}
	return received - sold, nil
}
