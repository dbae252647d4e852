package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// PaymentService keeps the payment ledger of sales.
// A sale's paid amount is always the sum of its payment rows.
type PaymentService struct {
	saleRepo          trade.SaleRepository
	paymentRepo       trade.PaymentRepository
	txScope           TransactionScope
	eventPublisher    shared.EventPublisher
	idempotencyStore  shared.IdempotencyStore
	idempotencyConfig shared.IdempotencyConfig
	logger            *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(saleRepo trade.SaleRepository, paymentRepo trade.PaymentRepository, txScope TransactionScope) *PaymentService {
	return &PaymentService{
		saleRepo:          saleRepo,
		paymentRepo:       paymentRepo,
		txScope:           txScope,
		idempotencyConfig: shared.DefaultIdempotencyConfig(),
		logger:            zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling on RecordPayment
func (s *PaymentService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyConfig = cfg
}

// SetLogger sets the service logger
func (s *PaymentService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// RecordPayment appends a payment to a sale and recomputes its balance and status.
// Payments against the same sale are serialized by the sale's row lock, and the
// saved sale is version checked.
func (s *PaymentService) RecordPayment(ctx context.Context, saleID uuid.UUID, req RecordPaymentRequest) (*PaymentResultResponse, error) {
	mode := trade.PaymentMode(strings.ToUpper(req.Mode))
	if !req.Amount.IsPositive() {
		return nil, shared.ErrInvalidQuantityOrPrice
	}
	if !mode.MovesMoney() {
		return nil, shared.ErrInvalidPaymentMode
	}

	key, err := s.claimIdempotencyKey(ctx, saleID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var sale *trade.Sale
	var payment *trade.Payment

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		paidSoFar, err := repos.PaymentRepo().SumBySale(ctx, saleID)
		if err != nil {
			return err
		}
		payment, err = sale.RecordPayment(req.Amount, mode, paidSoFar)
		if err != nil {
			return err
		}

		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return err
		}
		return repos.SaleRepo().SaveWithLock(ctx, sale)
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, key)
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("mode", payment.Mode.String()),
		zap.String("remaining", sale.RemainingAmount.String()),
		zap.String("status", sale.Status.String()),
	)
	s.publishDomainEvents(ctx, sale)

	return &PaymentResultResponse{
		Payment: ToPaymentResponse(payment),
		Sale:    ToSaleResponse(sale),
	}, nil
}

// ListPayments lists the payments of a sale in the order they were made
func (s *PaymentService) ListPayments(ctx context.Context, saleID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.saleRepo.FindByID(ctx, saleID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// ReconcileSale recomputes paid, remaining and status of a sale from its payment history.
// It is idempotent: a consistent sale is not written.
func (s *PaymentService) ReconcileSale(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	var changed bool

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		paid, err := repos.PaymentRepo().SumBySale(ctx, saleID)
		if err != nil {
			return err
		}
		if changed = sale.ApplyPaidTotal(paid); !changed {
			return nil
		}
		return repos.SaleRepo().SaveWithLock(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Warn("sale reconciled from payment history",
			zap.String("sale_id", sale.ID.String()),
			zap.String("paid", sale.PaidAmount.String()),
			zap.String("remaining", sale.RemainingAmount.String()),
			zap.String("status", sale.Status.String()),
		)
		s.publishDomainEvents(ctx, sale)
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

func (s *PaymentService) publishDomainEvents(ctx context.Context, sale *trade.Sale) {
	events := sale.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	sale.ClearDomainEvents()
}

// claimIdempotencyKey returns the namespaced key that was claimed, or "" when
// no key was supplied or idempotency is off.
func (s *PaymentService) claimIdempotencyKey(ctx context.Context, saleID uuid.UUID, key string) (string, error) {
	if key == "" || s.idempotencyStore == nil || !s.idempotencyConfig.Enabled {
		return "", nil
	}

	scoped := fmt.Sprintf("payment:%s:%s", saleID, key)
	fresh, err := s.idempotencyStore.MarkProcessed(ctx, scoped, s.idempotencyConfig.TTL)
	if err != nil {
		return "", fmt.Errorf("check idempotency key: %w", err)
	}
	if !fresh {
		return "", shared.ErrDuplicateRequest
	}
	return scoped, nil
}

// releaseIdempotencyKey forgets a claimed key so a failed payment can be retried
func (s *PaymentService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotencyStore.Forget(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}
