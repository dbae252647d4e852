package models

import (
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
// OnHand is the stock projection; the ledger tables are the source of truth.
type ProductModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(200);not null;index"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel int64           `gorm:"not null"`
	OnHand       int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Unit:              m.Unit,
		BuyingPrice:       m.BuyingPrice,
		SellingPrice:      m.SellingPrice,
		ReorderLevel:      m.ReorderLevel,
		OnHand:            m.OnHand,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Unit = p.Unit
	m.BuyingPrice = p.BuyingPrice
	m.SellingPrice = p.SellingPrice
	m.ReorderLevel = p.ReorderLevel
	m.OnHand = p.OnHand
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
