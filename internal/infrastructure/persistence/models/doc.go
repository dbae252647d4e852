// Package models contains GORM persistence models that map to database tables.
// Domain types carry no GORM tags; each model converts with ToDomain/FromDomain.
//
//   - base.go: BaseModel and AggregateModel (id, timestamps, version)
//   - catalog.go: products
//   - inventory.go: stock_receipts
//   - partner.go: customers
//   - trade.go: sales and payments
package models
