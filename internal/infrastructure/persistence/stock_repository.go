package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockReceiptRepository implements StockReceiptRepository using GORM
type GormStockReceiptRepository struct {
	db *gorm.DB
}

// NewGormStockReceiptRepository creates a new GormStockReceiptRepository
func NewGormStockReceiptRepository(db *gorm.DB) *GormStockReceiptRepository {
	return &GormStockReceiptRepository{db: db}
}

// Create persists a new receipt
func (r *GormStockReceiptRepository) Create(ctx context.Context, receipt *inventory.StockReceipt) error {
	return r.db.WithContext(ctx).Create(models.StockReceiptModelFromDomain(receipt)).Error
}

// FindByProduct lists receipts of a product, newest first
func (r *GormStockReceiptRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockReceipt, error) {
	var receiptModels []models.StockReceiptModel
	query := r.db.WithContext(ctx).Model(&models.StockReceiptModel{}).Where("product_id = ?", productID)
	query = applyPaging(query, filter, StockReceiptSortFields, "received_at")

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	receipts := make([]inventory.StockReceipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// GormStockLevelRepository derives stock from the receipt and sale tables
// and maintains the products.on_hand projection
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// ReceivedQuantity sums the quantity of all receipts of a product
func (r *GormStockLevelRepository) ReceivedQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.StockReceiptModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", productID).
		Scan(&total).Error
	return total, err
}

// SoldQuantity sums the quantity of all non-cancelled sales of a product
func (r *GormStockLevelRepository) SoldQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ? AND status <> ?", productID, trade.SaleStatusCancelled).
		Scan(&total).Error
	return total, err
}

// DecrementOnHand lowers on_hand by quantity in a single conditional UPDATE,
// so two writers can never both take the last units.
func (r *GormStockLevelRepository) DecrementOnHand(ctx context.Context, productID uuid.UUID, quantity int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND on_hand >= ?", productID, quantity).
		Updates(map[string]any{
			"on_hand": gorm.Expr("on_hand - ?", quantity),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

var (
	_ inventory.StockReceiptRepository = (*GormStockReceiptRepository)(nil)
	_ inventory.StockLevelRepository   = (*GormStockLevelRepository)(nil)
)
