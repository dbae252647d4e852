package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/shopledger/backend/internal/application/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// InventoryUseCases is the inventory application surface the handler drives
type InventoryUseCases interface {
	RegisterProduct(ctx context.Context, req inventoryapp.RegisterProductRequest) (*inventoryapp.ProductResponse, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*inventoryapp.ProductResponse, error)
	ListProducts(ctx context.Context, filter shared.Filter) ([]inventoryapp.ProductResponse, error)
	ReceiveStock(ctx context.Context, req inventoryapp.ReceiveStockRequest) (*inventoryapp.StockReceiptResponse, error)
	GetStockLevel(ctx context.Context, productID uuid.UUID) (*inventoryapp.StockLevelResponse, error)
	ListReceipts(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventoryapp.StockReceiptResponse, error)
	ReconcileStock(ctx context.Context, productID uuid.UUID) (*inventoryapp.StockLevelResponse, error)
}

// ProductHandler handles product and stock endpoints
type ProductHandler struct {
	BaseHandler
	inventory InventoryUseCases
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(inventory InventoryUseCases) *ProductHandler {
	return &ProductHandler{inventory: inventory}
}

// ReceiveStockBody is the stock-in request; the product comes from the path
type ReceiveStockBody struct {
	Quantity     int64            `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost" binding:"money"`
	SellingPrice *decimal.Decimal `json:"selling_price" binding:"omitempty,money"`
}

// RegisterRoutes mounts the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Register)
	products.GET("", h.List)
	products.GET("/:id", h.Get)
	products.POST("/:id/receipts", h.ReceiveStock)
	products.GET("/:id/receipts", h.ListReceipts)
	products.GET("/:id/stock", h.GetStockLevel)
	products.POST("/:id/stock/reconcile", h.ReconcileStock)
}

// Register creates a product with zero stock
// POST /products
func (h *ProductHandler) Register(c *gin.Context) {
	var req inventoryapp.RegisterProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.inventory.RegisterProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get returns one product with its cached on-hand projection
// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.inventory.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List searches products by name
// GET /products?search=&page=&page_size=&order_by=&order_dir=
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	req.Normalize()

	products, err := h.inventory.ListProducts(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ReceiveStock records a stock receipt
// POST /products/:id/receipts
func (h *ProductHandler) ReceiveStock(c *gin.Context) {
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var body ReceiveStockBody
	if !h.bindJSON(c, &body) {
		return
	}

	receipt, err := h.inventory.ReceiveStock(c.Request.Context(), inventoryapp.ReceiveStockRequest{
		ProductID:    productID,
		Quantity:     body.Quantity,
		UnitCost:     body.UnitCost,
		SellingPrice: body.SellingPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// ListReceipts returns the receipt audit trail, newest first
// GET /products/:id/receipts
func (h *ProductHandler) ListReceipts(c *gin.Context) {
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	req.Normalize()

	receipts, err := h.inventory.ListReceipts(c.Request.Context(), productID, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipts)
}

// GetStockLevel returns available stock derived from receipts and sales
// GET /products/:id/stock
func (h *ProductHandler) GetStockLevel(c *gin.Context) {
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	level, err := h.inventory.GetStockLevel(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// ReconcileStock rewrites the on-hand projection from history
// POST /products/:id/stock/reconcile
func (h *ProductHandler) ReconcileStock(c *gin.Context) {
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	level, err := h.inventory.ReconcileStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}
