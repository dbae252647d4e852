package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMode is how a sale is (to be) paid
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeMpesa  PaymentMode = "MPESA"
	PaymentModeBank   PaymentMode = "BANK"
	PaymentModeLoop   PaymentMode = "LOOP"
	PaymentModeCredit PaymentMode = "CREDIT" // sold on account; never the mode of a money movement
)

// IsValid checks if the mode is a known payment mode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeMpesa, PaymentModeBank, PaymentModeLoop, PaymentModeCredit:
		return true
	}
	return false
}

// MovesMoney reports whether a Payment row may carry this mode
func (m PaymentMode) MovesMoney() bool {
	return m.IsValid() && m != PaymentModeCredit
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// Payment is one money movement against a sale. Payments are append-only.
type Payment struct {
	shared.BaseEntity
	SaleID uuid.UUID
	Amount decimal.Decimal
	Mode   PaymentMode
	PaidAt time.Time
}

func newPayment(saleID uuid.UUID, amount decimal.Decimal, mode PaymentMode) *Payment {
	p := &Payment{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     saleID,
		Amount:     amount,
		Mode:       mode,
	}
	p.PaidAt = p.CreatedAt
	return p
}

// SumPayments adds up the amounts of the given payments
func SumPayments(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
