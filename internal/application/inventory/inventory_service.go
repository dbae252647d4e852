package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles product registration and the stock ledger
type InventoryService struct {
	productRepo    catalog.ProductRepository
	receiptRepo    inventory.StockReceiptRepository
	levelRepo      inventory.StockLevelRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	productRepo catalog.ProductRepository,
	receiptRepo inventory.StockReceiptRepository,
	levelRepo inventory.StockLevelRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		receiptRepo: receiptRepo,
		levelRepo:   levelRepo,
		txScope:     txScope,
		logger:      zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the service logger
func (s *InventoryService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// publishDomainEvents publishes and clears the pending events of the given aggregates.
// It runs only after commit; publish errors are logged by the event bus.
func (s *InventoryService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
		agg.ClearDomainEvents()
	}
}

// RegisterProduct creates a product with zero stock
func (s *InventoryService) RegisterProduct(ctx context.Context, req RegisterProductRequest) (*ProductResponse, error) {
	reorderLevel := catalog.DefaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}

	product, err := catalog.NewProduct(req.Name, req.Unit, req.BuyingPrice, req.SellingPrice, reorderLevel)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetProduct retrieves a product by ID
func (s *InventoryService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// ListProducts lists products
func (s *InventoryService) ListProducts(ctx context.Context, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, nil
}

// ReceiveStock books a stock receipt. The receipt, the product's new cost
// (and optional list) price and the on-hand projection commit together.
func (s *InventoryService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) (*StockReceiptResponse, error) {
	var receipt *inventory.StockReceipt
	var product *catalog.Product

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := inventory.NewLedger(repos.ProductRepo(), repos.ReceiptRepo(), repos.StockLevelRepo())

		var err error
		receipt, product, err = ledger.Receive(ctx, req.ProductID, req.Quantity, req.UnitCost, req.SellingPrice)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock received",
		zap.String("product_id", receipt.ProductID.String()),
		zap.String("receipt_id", receipt.ID.String()),
		zap.Int64("quantity", receipt.Quantity),
		zap.String("unit_cost", receipt.UnitCost.String()),
		zap.Int64("on_hand", product.OnHand),
	)
	s.publishDomainEvents(ctx, receipt, product)

	response := ToStockReceiptResponse(receipt)
	return &response, nil
}

// GetStockLevel returns the stock of a product derived from receipts and sales
func (s *InventoryService) GetStockLevel(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	ledger := inventory.NewLedger(s.productRepo, s.receiptRepo, s.levelRepo)
	available, err := ledger.Available(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &StockLevelResponse{
		ProductID:    product.ID,
		Available:    available,
		ReorderLevel: product.ReorderLevel,
		IsLowStock:   product.IsLowStock(available),
	}, nil
}

// ListReceipts returns the receipt history of a product
func (s *InventoryService) ListReceipts(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockReceiptResponse, error) {
	exists, err := s.productRepo.ExistsByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrProductNotFound
	}

	receipts, err := s.receiptRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToStockReceiptResponse(&receipts[i])
	}
	return responses, nil
}

// ReconcileStock rewrites the on-hand projection of a product from the ledger.
// Running it on a consistent product changes nothing.
func (s *InventoryService) ReconcileStock(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	var response *StockLevelResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := inventory.NewLedger(repos.ProductRepo(), repos.ReceiptRepo(), repos.StockLevelRepo())

		product, err := ledger.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		available, err := ledger.Available(ctx, productID)
		if err != nil {
			return err
		}

		if product.OnHand != available {
			s.logger.Warn("on-hand projection drifted from ledger",
				zap.String("product_id", productID.String()),
				zap.Int64("on_hand", product.OnHand),
				zap.Int64("available", available),
			)
			product.SyncOnHand(available)
			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		response = &StockLevelResponse{
			ProductID:    product.ID,
			Available:    available,
			ReorderLevel: product.ReorderLevel,
			IsLowStock:   product.IsLowStock(available),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
