package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate.
// Price and cost are snapshotted at sale time.
type SaleModel struct {
	AggregateModel
	ProductID          uuid.UUID         `gorm:"type:varchar(36);not null;index:idx_sales_product"`
	CustomerID         *uuid.UUID        `gorm:"type:varchar(36);index:idx_sales_customer"`
	Quantity           int64             `gorm:"not null"`
	SellingPrice       decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	BuyingPrice        decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	TotalPrice         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PaidAmount         decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingAmount    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Profit             decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PaymentMode        trade.PaymentMode `gorm:"type:varchar(10);not null"`
	Status             trade.SaleStatus  `gorm:"type:varchar(20);not null;index"`
	ApprovedByOverride bool              `gorm:"not null;default:false"`
	SoldAt             time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *trade.Sale {
	return &trade.Sale{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		ProductID:          m.ProductID,
		CustomerID:         m.CustomerID,
		Quantity:           m.Quantity,
		SellingPrice:       m.SellingPrice,
		BuyingPrice:        m.BuyingPrice,
		TotalPrice:         m.TotalPrice,
		PaidAmount:         m.PaidAmount,
		RemainingAmount:    m.RemainingAmount,
		Profit:             m.Profit,
		PaymentMode:        m.PaymentMode,
		Status:             m.Status,
		ApprovedByOverride: m.ApprovedByOverride,
		SoldAt:             m.SoldAt,
	}
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ProductID = s.ProductID
	m.CustomerID = s.CustomerID
	m.Quantity = s.Quantity
	m.SellingPrice = s.SellingPrice
	m.BuyingPrice = s.BuyingPrice
	m.TotalPrice = s.TotalPrice
	m.PaidAmount = s.PaidAmount
	m.RemainingAmount = s.RemainingAmount
	m.Profit = s.Profit
	m.PaymentMode = s.PaymentMode
	m.Status = s.Status
	m.ApprovedByOverride = s.ApprovedByOverride
	m.SoldAt = s.SoldAt.UTC()
}

// SaleModelFromDomain creates a new persistence model from a domain Sale
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// PaymentModel is the persistence model for a payment ledger row
type PaymentModel struct {
	BaseModel
	SaleID uuid.UUID         `gorm:"type:varchar(36);not null;index:idx_payments_sale"`
	Amount decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Mode   trade.PaymentMode `gorm:"type:varchar(10);not null"`
	PaidAt time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *trade.Payment {
	return &trade.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		SaleID:     m.SaleID,
		Amount:     m.Amount,
		Mode:       m.Mode,
		PaidAt:     m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *trade.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SaleID = p.SaleID
	m.Amount = p.Amount
	m.Mode = p.Mode
	m.PaidAt = p.PaidAt.UTC()
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *trade.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
