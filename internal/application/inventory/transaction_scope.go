package inventory

import (
	"context"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to stock repositories.
// All repository operations inside Execute share one database transaction and
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	ReceiptRepo() inventory.StockReceiptRepository
	StockLevelRepo() inventory.StockLevelRepository
}

// NoOpTransactionScope runs the function without a transaction.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	receiptRepo inventory.StockReceiptRepository
	levelRepo   inventory.StockLevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	receiptRepo inventory.StockReceiptRepository,
	levelRepo inventory.StockLevelRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		receiptRepo: receiptRepo,
		levelRepo:   levelRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ReceiptRepo returns the stock receipt repository
func (s *NoOpTransactionScope) ReceiptRepo() inventory.StockReceiptRepository {
	return s.receiptRepo
}

// StockLevelRepo returns the stock level repository
func (s *NoOpTransactionScope) StockLevelRepo() inventory.StockLevelRepository {
	return s.levelRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
