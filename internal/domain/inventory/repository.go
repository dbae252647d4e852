package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
)

// StockReceiptRepository defines the interface for stock receipt persistence.
// Receipts are append-only: there is no update or delete.
type StockReceiptRepository interface {
	// Create persists a new receipt
	Create(ctx context.Context, receipt *StockReceipt) error

	// FindByProduct lists receipts of a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockReceipt, error)
}

// StockLevelRepository reads the stock ledger and maintains the on-hand projection
type StockLevelRepository interface {
	// ReceivedQuantity sums the quantity of all receipts of a product
	ReceivedQuantity(ctx context.Context, productID uuid.UUID) (int64, error)

	// SoldQuantity sums the quantity of all non-cancelled sales of a product
	SoldQuantity(ctx context.Context, productID uuid.UUID) (int64, error)

	// DecrementOnHand lowers the on-hand projection by quantity only while it stays
	// non-negative. Returns shared.ErrInsufficientStock when no row qualified.
	DecrementOnHand(ctx context.Context, productID uuid.UUID, quantity int64) error
}
