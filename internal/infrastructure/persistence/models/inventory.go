package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockReceiptModel is the persistence model for an append-only stock receipt
type StockReceiptModel struct {
	AggregateModel
	ProductID    uuid.UUID           `gorm:"type:varchar(36);not null;index:idx_stock_receipts_product"`
	Quantity     int64               `gorm:"not null"`
	UnitCost     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	SellingPrice decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	ReceivedAt   time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockReceiptModel) TableName() string {
	return "stock_receipts"
}

// ToDomain converts the persistence model to a domain StockReceipt
func (m *StockReceiptModel) ToDomain() *inventory.StockReceipt {
	r := &inventory.StockReceipt{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProductID:         m.ProductID,
		Quantity:          m.Quantity,
		UnitCost:          m.UnitCost,
		ReceivedAt:        m.ReceivedAt,
	}
	if m.SellingPrice.Valid {
		price := m.SellingPrice.Decimal
		r.SellingPrice = &price
	}
	return r
}

// FromDomain populates the persistence model from a domain StockReceipt
func (m *StockReceiptModel) FromDomain(r *inventory.StockReceipt) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ProductID = r.ProductID
	m.Quantity = r.Quantity
	m.UnitCost = r.UnitCost
	m.SellingPrice = decimal.NullDecimal{}
	if r.SellingPrice != nil {
		m.SellingPrice = decimal.NewNullDecimal(*r.SellingPrice)
	}
	m.ReceivedAt = r.ReceivedAt.UTC()
}

// StockReceiptModelFromDomain creates a new persistence model from a domain StockReceipt
func StockReceiptModelFromDomain(r *inventory.StockReceipt) *StockReceiptModel {
	m := &StockReceiptModel{}
	m.FromDomain(r)
	return m
}
