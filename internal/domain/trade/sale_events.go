package trade

import (
	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale is the aggregate type for sale events
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated     = "SaleCreated"
	EventTypePaymentRecorded = "PaymentRecorded"
	EventTypeSaleSettled     = "SaleSettled"
)

// SaleCreatedEvent is raised when a sale is committed
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID             uuid.UUID       `json:"sale_id"`
	ProductID          uuid.UUID       `json:"product_id"`
	CustomerID         *uuid.UUID      `json:"customer_id,omitempty"`
	Quantity           int64           `json:"quantity"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	Profit             decimal.Decimal `json:"profit"`
	PaymentMode        PaymentMode     `json:"payment_mode"`
	ApprovedByOverride bool            `json:"approved_by_override"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID),
		SaleID:             s.ID,
		ProductID:          s.ProductID,
		CustomerID:         s.CustomerID,
		Quantity:           s.Quantity,
		TotalPrice:         s.TotalPrice,
		Profit:             s.Profit,
		PaymentMode:        s.PaymentMode,
		ApprovedByOverride: s.ApprovedByOverride,
	}
}

// PaymentRecordedEvent is raised for every payment booked against a sale
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID       `json:"sale_id"`
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      PaymentMode     `json:"mode"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(s *Sale, p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Mode:            p.Mode,
	}
}

// SaleSettledEvent is raised when a sale's outstanding balance reaches zero
type SaleSettledEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewSaleSettledEvent creates a new SaleSettledEvent
func NewSaleSettledEvent(s *Sale) *SaleSettledEvent {
	return &SaleSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleSettled, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		TotalPrice:      s.TotalPrice,
	}
}
