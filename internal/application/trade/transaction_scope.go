package trade

import (
	"context"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a sale touches.
// A sale commits its stock deduction, sale row and initial payment as one unit.
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
	CustomerRepo() partner.CustomerRepository
	SaleRepo() trade.SaleRepository
	PaymentRepo() trade.PaymentRepository
}

// NoOpTransactionScope runs the function without a transaction.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	receiptRepo  inventory.StockReceiptRepository
	levelRepo    inventory.StockLevelRepository
	customerRepo partner.CustomerRepository
	saleRepo     trade.SaleRepository
	paymentRepo  trade.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	receiptRepo inventory.StockReceiptRepository,
	levelRepo inventory.StockLevelRepository,
	customerRepo partner.CustomerRepository,
	saleRepo trade.SaleRepository,
	paymentRepo trade.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		receiptRepo:  receiptRepo,
		levelRepo:    levelRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// ReceiptRepo returns the stock receipt repository
func (s *NoOpTransactionScope) ReceiptRepo() inventory.StockReceiptRepository { return s.receiptRepo }

// StockLevelRepo returns the stock level repository
func (s *NoOpTransactionScope) StockLevelRepo() inventory.StockLevelRepository { return s.levelRepo }

// CustomerRepo returns the customer repository
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository { return s.saleRepo }

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() trade.PaymentRepository { return s.paymentRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
