package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newProduct(t *testing.T, cost, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Maize flour", "packet", dec(cost), dec(price), 5)
	require.NoError(t, err)
	return p
}

func TestNewSale(t *testing.T) {
	t.Run("computes totals and profit from snapshots", func(t *testing.T) {
		p := newProduct(t, 10, 15)

		s, err := NewSale(p, nil, 3, dec(15), PaymentModeCash, false)
		require.NoError(t, err)

		assert.Equal(t, p.ID, s.ProductID)
		assert.Nil(t, s.CustomerID)
		assert.True(t, s.TotalPrice.Equal(dec(45)))
		assert.True(t, s.Profit.Equal(dec(15)))
		assert.True(t, s.BuyingPrice.Equal(dec(10)))
		assert.True(t, s.PaidAmount.IsZero())
		assert.True(t, s.RemainingAmount.Equal(dec(45)))
		assert.Equal(t, SaleStatusPendingPayment, s.Status)
		assert.False(t, s.ApprovedByOverride)
		assert.Equal(t, s.CreatedAt, s.SoldAt)

		events := s.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSaleCreated, events[0].EventType())
	})

	t.Run("snapshot does not follow later product changes", func(t *testing.T) {
		p := newProduct(t, 10, 15)
		s, err := NewSale(p, nil, 1, dec(15), PaymentModeCash, false)
		require.NoError(t, err)

		price := dec(99)
		require.NoError(t, p.ApplyReceipt(1, dec(50), &price))

		assert.True(t, s.BuyingPrice.Equal(dec(10)))
		assert.True(t, s.SellingPrice.Equal(dec(15)))
	})

	t.Run("below cost sale has negative profit", func(t *testing.T) {
		p := newProduct(t, 10, 15)
		s, err := NewSale(p, nil, 2, dec(8), PaymentModeCash, true)
		require.NoError(t, err)
		assert.True(t, s.Profit.Equal(dec(-4)))
		assert.True(t, s.ApprovedByOverride)
	})

	t.Run("free sale is settled immediately", func(t *testing.T) {
		p := newProduct(t, 0, 0)
		s, err := NewSale(p, nil, 2, decimal.Zero, PaymentModeCash, false)
		require.NoError(t, err)
		assert.Equal(t, SaleStatusCompleted, s.Status)
	})

	t.Run("keeps customer reference", func(t *testing.T) {
		p := newProduct(t, 10, 15)
		customerID := uuid.New()
		s, err := NewSale(p, &customerID, 1, dec(15), PaymentModeCredit, false)
		require.NoError(t, err)
		require.NotNil(t, s.CustomerID)
		assert.Equal(t, customerID, *s.CustomerID)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		p := newProduct(t, 10, 15)

		_, err := NewSale(p, nil, 0, dec(15), PaymentModeCash, false)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantityOrPrice)

		_, err = NewSale(p, nil, 1, dec(-1), PaymentModeCash, false)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantityOrPrice)

		_, err = NewSale(p, nil, 1, dec(15), PaymentMode("CHEQUE"), false)
		assert.ErrorIs(t, err, shared.ErrInvalidPaymentMode)

		_, err = NewSale(nil, nil, 1, dec(15), PaymentModeCash, false)
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})
}

func TestSale_RecordInitialPayment(t *testing.T) {
	t.Run("full cash payment completes the sale", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 15), nil, 3, dec(15), PaymentModeCash, false)
		require.NoError(t, err)

		payment, err := s.RecordInitialPayment(dec(45), "")
		require.NoError(t, err)
		require.NotNil(t, payment)

		assert.Equal(t, PaymentModeCash, payment.Mode)
		assert.Equal(t, s.ID, payment.SaleID)
		assert.True(t, s.PaidAmount.Equal(dec(45)))
		assert.True(t, s.RemainingAmount.IsZero())
		assert.Equal(t, SaleStatusCompleted, s.Status)

		var types []string
		for _, e := range s.GetDomainEvents() {
			types = append(types, e.EventType())
		}
		assert.Equal(t, []string{EventTypeSaleCreated, EventTypePaymentRecorded, EventTypeSaleSettled}, types)
	})

	t.Run("zero amount books nothing", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 15), nil, 1, dec(15), PaymentModeCredit, false)
		require.NoError(t, err)

		payment, err := s.RecordInitialPayment(decimal.Zero, "")
		require.NoError(t, err)
		assert.Nil(t, payment)
		assert.Equal(t, SaleStatusPendingPayment, s.Status)
	})

	t.Run("credit sale deposit defaults to cash", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)

		payment, err := s.RecordInitialPayment(dec(10), "")
		require.NoError(t, err)
		assert.Equal(t, PaymentModeCash, payment.Mode)
		assert.True(t, s.RemainingAmount.Equal(dec(30)))
		assert.Equal(t, SaleStatusPendingPayment, s.Status)
	})

	t.Run("explicit deposit mode wins", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)

		payment, err := s.RecordInitialPayment(dec(10), PaymentModeMpesa)
		require.NoError(t, err)
		assert.Equal(t, PaymentModeMpesa, payment.Mode)
	})

	t.Run("rejects overpayment and negative amounts", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 15), nil, 1, dec(15), PaymentModeCash, false)
		require.NoError(t, err)

		_, err = s.RecordInitialPayment(dec(16), "")
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsBalance)

		_, err = s.RecordInitialPayment(dec(-1), "")
		assert.ErrorIs(t, err, shared.ErrInvalidQuantityOrPrice)

		assert.True(t, s.PaidAmount.IsZero())
	})
}

func TestSale_RecordPayment(t *testing.T) {
	t.Run("credit sale settles over several payments", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)

		var history []Payment
		pay := func(amount int64) error {
			p, err := s.RecordPayment(dec(amount), PaymentModeMpesa, SumPayments(history))
			if err == nil {
				history = append(history, *p)
			}
			return err
		}

		require.NoError(t, pay(10))
		assert.True(t, s.RemainingAmount.Equal(dec(30)))
		assert.Equal(t, SaleStatusPendingPayment, s.Status)

		require.NoError(t, pay(30))
		assert.True(t, s.RemainingAmount.IsZero())
		assert.Equal(t, SaleStatusCompleted, s.Status)

		err = pay(1)
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsBalance)
		assert.Equal(t, SaleStatusCompleted, s.Status)
		assert.True(t, s.PaidAmount.Equal(SumPayments(history)))
	})

	t.Run("balance is derived from history, not the stored counter", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)
		s.PaidAmount = dec(40) // stale counter

		_, err = s.RecordPayment(dec(15), PaymentModeCash, dec(10))
		require.NoError(t, err)
		assert.True(t, s.PaidAmount.Equal(dec(25)))
		assert.True(t, s.RemainingAmount.Equal(dec(15)))
	})

	t.Run("rejects invalid payments", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)

		_, err = s.RecordPayment(decimal.Zero, PaymentModeCash, decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantityOrPrice)

		_, err = s.RecordPayment(dec(5), PaymentModeCredit, decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidPaymentMode)

		_, err = s.RecordPayment(dec(5), PaymentMode("BARTER"), decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidPaymentMode)

		s.Status = SaleStatusCancelled
		_, err = s.RecordPayment(dec(5), PaymentModeCash, decimal.Zero)
		require.Error(t, err)
	})
}

func TestSale_ApplyPaidTotal(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)

		assert.True(t, s.ApplyPaidTotal(dec(25)))
		version := s.GetVersion()

		for i := 0; i < 3; i++ {
			assert.False(t, s.ApplyPaidTotal(dec(25)))
		}
		assert.Equal(t, version, s.GetVersion())
		assert.True(t, s.RemainingAmount.Equal(dec(15)))
	})

	t.Run("repairs a drifted counter", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)
		s.PaidAmount = dec(40)
		s.RemainingAmount = decimal.Zero
		s.Status = SaleStatusCompleted

		assert.True(t, s.ApplyPaidTotal(dec(20)))
		assert.True(t, s.RemainingAmount.Equal(dec(20)))
		assert.Equal(t, SaleStatusPendingPayment, s.Status)
	})

	t.Run("raises settled only on the transition", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 2, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)
		s.ClearDomainEvents()

		s.ApplyPaidTotal(dec(10))
		assert.False(t, s.IsSettled())
		assert.Empty(t, s.GetDomainEvents())

		s.ApplyPaidTotal(dec(40))
		assert.True(t, s.IsSettled())
		require.Len(t, s.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeSaleSettled, s.GetDomainEvents()[0].EventType())

		// already settled: a repaired overpayment does not settle twice
		s.ApplyPaidTotal(dec(45))
		assert.Len(t, s.GetDomainEvents(), 1)
	})

	t.Run("remaining never goes negative", func(t *testing.T) {
		s, err := NewSale(newProduct(t, 10, 20), nil, 1, dec(20), PaymentModeCredit, false)
		require.NoError(t, err)

		s.ApplyPaidTotal(dec(30))
		assert.True(t, s.RemainingAmount.IsZero())
		assert.Equal(t, SaleStatusCompleted, s.Status)
	})
}

func TestPaymentMode(t *testing.T) {
	for _, m := range []PaymentMode{PaymentModeCash, PaymentModeMpesa, PaymentModeBank, PaymentModeLoop} {
		assert.True(t, m.IsValid(), m)
		assert.True(t, m.MovesMoney(), m)
	}
	assert.True(t, PaymentModeCredit.IsValid())
	assert.False(t, PaymentModeCredit.MovesMoney())
	assert.False(t, PaymentMode("").IsValid())
}
