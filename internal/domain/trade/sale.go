package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the settlement status of a sale
type SaleStatus string

const (
	SaleStatusCompleted      SaleStatus = "COMPLETED"
	SaleStatusPendingPayment SaleStatus = "PENDING_PAYMENT"
	// SaleStatusCancelled sales do not count against stock
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusPendingPayment, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// Sale is one sale of a product. It is the aggregate root for the payment ledger.
//
// Everything except PaidAmount, RemainingAmount and Status is fixed at creation.
// Prices are snapshots and do not follow later changes to the product.
type Sale struct {
	shared.BaseAggregateRoot
	ProductID          uuid.UUID
	CustomerID         *uuid.UUID
	Quantity           int64
	SellingPrice       decimal.Decimal
	BuyingPrice        decimal.Decimal
	TotalPrice         decimal.Decimal
	PaidAmount         decimal.Decimal
	RemainingAmount    decimal.Decimal
	Profit             decimal.Decimal
	PaymentMode        PaymentMode
	Status             SaleStatus
	ApprovedByOverride bool
	SoldAt             time.Time
}

// NewSale creates an unpaid sale of quantity units of product at price.
// The product's current cost price becomes the sale's buying price snapshot.
func NewSale(
	product *catalog.Product,
	customerID *uuid.UUID,
	quantity int64,
	price decimal.Decimal,
	mode PaymentMode,
	overridden bool,
) (*Sale, error) {
	if product == nil {
		return nil, shared.ErrProductNotFound
	}
	if quantity <= 0 || price.IsNegative() {
		return nil, shared.ErrInvalidQuantityOrPrice
	}
	if !mode.IsValid() {
		return nil, shared.ErrInvalidPaymentMode
	}

	qty := decimal.NewFromInt(quantity)
	total := price.Mul(qty)
	s := &Sale{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ProductID:          product.ID,
		CustomerID:         customerID,
		Quantity:           quantity,
		SellingPrice:       price,
		BuyingPrice:        product.BuyingPrice,
		TotalPrice:         total,
		PaidAmount:         decimal.Zero,
		Profit:             price.Sub(product.BuyingPrice).Mul(qty),
		PaymentMode:        mode,
		ApprovedByOverride: overridden,
	}
	s.SoldAt = s.CreatedAt
	s.recompute()

	s.AddDomainEvent(NewSaleCreatedEvent(s))
	return s, nil
}

// RecordInitialPayment books the amount paid at the counter.
// A zero amount books nothing. Without an explicit mode the sale's mode is used,
// except that money handed over on a credit sale is taken as cash.
func (s *Sale) RecordInitialPayment(amount decimal.Decimal, mode PaymentMode) (*Payment, error) {
	if amount.IsNegative() {
		return nil, shared.ErrInvalidQuantityOrPrice
	}
	if amount.IsZero() {
		return nil, nil
	}
	if mode == "" {
		mode = s.PaymentMode
		if mode == PaymentModeCredit {
			mode = PaymentModeCash
		}
	}
	return s.RecordPayment(amount, mode, s.PaidAmount)
}

// RecordPayment books a payment against the sale. paidSoFar must be the sum of the
// sale's payment history read under the sale's lock; the outstanding balance is
// derived from it rather than from the stored running counter.
func (s *Sale) RecordPayment(amount decimal.Decimal, mode PaymentMode, paidSoFar decimal.Decimal) (*Payment, error) {
	if s.Status == SaleStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record payment for a cancelled sale")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidQuantityOrPrice
	}
	if !mode.MovesMoney() {
		return nil, shared.ErrInvalidPaymentMode
	}
	if amount.GreaterThan(s.balanceAfter(paidSoFar)) {
		return nil, shared.ErrPaymentExceedsBalance
	}

	payment := newPayment(s.ID, amount, mode)
	s.AddDomainEvent(NewPaymentRecordedEvent(s, payment))
	s.ApplyPaidTotal(paidSoFar.Add(amount))
	return payment, nil
}

// ApplyPaidTotal sets the paid amount to the sum of the payment history and recomputes
// the remaining balance and status. Running it again with the same total changes nothing.
// Returns true when the sale changed.
func (s *Sale) ApplyPaidTotal(paidTotal decimal.Decimal) bool {
	if s.PaidAmount.Equal(paidTotal) && s.RemainingAmount.Equal(s.balanceAfter(paidTotal)) && s.Status == s.statusFor(paidTotal) {
		return false
	}

	wasSettled := s.IsSettled()
	s.PaidAmount = paidTotal
	s.recompute()
	if !wasSettled && s.IsSettled() {
		s.AddDomainEvent(NewSaleSettledEvent(s))
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return true
}

// IsSettled returns true when nothing is owed on the sale
func (s *Sale) IsSettled() bool {
	return s.Status == SaleStatusCompleted
}

// CountsAgainstStock reports whether the sale's quantity is part of the stock ledger
func (s *Sale) CountsAgainstStock() bool {
	return s.Status != SaleStatusCancelled
}

func (s *Sale) recompute() {
	s.RemainingAmount = s.balanceAfter(s.PaidAmount)
	if s.Status != SaleStatusCancelled {
		s.Status = s.statusFor(s.PaidAmount)
	}
}

func (s *Sale) balanceAfter(paid decimal.Decimal) decimal.Decimal {
	remaining := s.TotalPrice.Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func (s *Sale) statusFor(paid decimal.Decimal) SaleStatus {
	if s.Status == SaleStatusCancelled {
		return SaleStatusCancelled
	}
	if s.balanceAfter(paid).IsZero() {
		return SaleStatusCompleted
	}
	return SaleStatusPendingPayment
}
