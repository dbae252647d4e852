package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/pricing"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService runs sale transactions: policy gate, stock deduction, sale record and
// initial payment commit together or not at all.
type SaleService struct {
	saleRepo       trade.SaleRepository
	txScope        TransactionScope
	policy         *pricing.Policy
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo trade.SaleRepository, txScope TransactionScope, policy *pricing.Policy) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		txScope:  txScope,
		policy:   policy,
		logger:   zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the service logger
func (s *SaleService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreateSale sells quantity units of a product.
//
// Inside one transaction the product row is locked, availability is derived from the
// ledger, the pricing policy is evaluated, stock is deducted, and the sale (plus its
// initial payment, if any) is persisted. Any failure rolls everything back.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	mode := trade.PaymentMode(strings.ToUpper(req.PaymentMode))
	initialMode := trade.PaymentMode(strings.ToUpper(req.InitialMode))
	if err := validateCreateSale(req, mode, initialMode); err != nil {
		return nil, err
	}

	var sale *trade.Sale
	var product *catalog.Product
	var available int64

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.CustomerID != nil {
			exists, err := repos.CustomerRepo().ExistsByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			if !exists {
				return shared.ErrCustomerNotFound
			}
		}

		ledger := inventory.NewLedger(repos.ProductRepo(), repos.ReceiptRepo(), repos.StockLevelRepo())
		var err error
		product, err = ledger.LockProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		available, err = ledger.Available(ctx, product.ID)
		if err != nil {
			return err
		}

		decision := s.policy.Evaluate(pricing.Request{
			Product:           product,
			Quantity:          req.Quantity,
			Price:             req.SellingPrice,
			Available:         available,
			AuthorizationCode: req.Authorization,
		})
		if !decision.Allowed {
			return decision.Err
		}

		sale, err = trade.NewSale(product, req.CustomerID, req.Quantity, req.SellingPrice, mode, decision.Overridden)
		if err != nil {
			return err
		}
		payment, err := sale.RecordInitialPayment(req.InitialPaid, initialMode)
		if err != nil {
			return err
		}

		// the override only lifts the policy gate; the zero floor still applies
		if _, err := ledger.Deduct(ctx, product, req.Quantity); err != nil {
			return err
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		if payment != nil {
			if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Info("sale rejected",
			zap.String("product_id", req.ProductID.String()),
			zap.Int64("quantity", req.Quantity),
			zap.Int64("available", available),
			zap.Error(err),
		)
		return nil, err
	}

	fields := []zap.Field{
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", sale.ProductID.String()),
		zap.Int64("quantity", sale.Quantity),
		zap.String("total_price", sale.TotalPrice.String()),
		zap.String("profit", sale.Profit.String()),
		zap.String("status", sale.Status.String()),
	}
	if sale.ApprovedByOverride {
		s.logger.Warn("sale committed with override", fields...)
	} else {
		s.logger.Info("sale committed", fields...)
	}
	s.publishDomainEvents(ctx, sale, product)

	response := ToSaleResponse(sale)
	return &response, nil
}

// publishDomainEvents publishes and clears the pending events of the given aggregates.
// It runs only after commit; publish errors are logged by the event bus.
func (s *SaleService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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

// GetSale retrieves a sale by ID
func (s *SaleService) GetSale(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// ListSales lists sales, newest first by default
func (s *SaleService) ListSales(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sold_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = strings.ToUpper(*filter.Status)
	}
	for key, raw := range map[string]*string{"product_id": filter.ProductID, "customer_id": filter.CustomerID} {
		if raw == nil || *raw == "" {
			continue
		}
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s", shared.ErrInvalidInput, key)
		}
		domainFilter.Filters[key] = id
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses, total, nil
}

func validateCreateSale(req CreateSaleRequest, mode, initialMode trade.PaymentMode) error {
	if req.Quantity <= 0 || req.SellingPrice.IsNegative() || req.InitialPaid.IsNegative() {
		return shared.ErrInvalidQuantityOrPrice
	}
	if !mode.IsValid() {
		return shared.ErrInvalidPaymentMode
	}
	if initialMode != "" && !initialMode.MovesMoney() {
		return shared.ErrInvalidPaymentMode
	}
	if req.InitialPaid.GreaterThan(req.SellingPrice.Mul(decimal.NewFromInt(req.Quantity))) {
		return shared.ErrPaymentExceedsBalance
	}
	return nil
}
