package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIDForUpdate finds a sale and holds its row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll lists sales matching the filter, newest first unless the filter says otherwise.
	// Supported filters: "status", "product_id", "customer_id".
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create persists a new sale
	Create(ctx context.Context, sale *Sale) error

	// SaveWithLock saves settlement fields only if the stored version is sale.Version-1
	SaveWithLock(ctx context.Context, sale *Sale) error
}

// PaymentRepository defines the interface for the append-only payment ledger
type PaymentRepository interface {
	// Create appends a payment
	Create(ctx context.Context, payment *Payment) error

	// FindBySale lists the payments of a sale in the order they were made
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Payment, error)

	// SumBySale sums the amounts of all payments of a sale
	SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error)
}
