package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/shopledger/backend/internal/application/trade"
)

// SaleUseCases is the sale application surface the handler drives
type SaleUseCases interface {
	CreateSale(ctx context.Context, req tradeapp.CreateSaleRequest) (*tradeapp.SaleResponse, error)
	GetSale(ctx context.Context, saleID uuid.UUID) (*tradeapp.SaleResponse, error)
	ListSales(ctx context.Context, filter tradeapp.SaleListFilter) ([]tradeapp.SaleResponse, int64, error)
}

// PaymentUseCases is the payment ledger surface the handler drives
type PaymentUseCases interface {
	RecordPayment(ctx context.Context, saleID uuid.UUID, req tradeapp.RecordPaymentRequest) (*tradeapp.PaymentResultResponse, error)
	ListPayments(ctx context.Context, saleID uuid.UUID) ([]tradeapp.PaymentResponse, error)
	ReconcileSale(ctx context.Context, saleID uuid.UUID) (*tradeapp.SaleResponse, error)
}

// SaleHandler handles sale and payment endpoints
type SaleHandler struct {
	BaseHandler
	sales    SaleUseCases
	payments PaymentUseCases
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales SaleUseCases, payments PaymentUseCases) *SaleHandler {
	return &SaleHandler{sales: sales, payments: payments}
}

// RegisterRoutes mounts the sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.POST("", h.Create)
	sales.GET("", h.List)
	sales.GET("/:id", h.Get)
	sales.POST("/:id/payments", h.RecordPayment)
	sales.GET("/:id/payments", h.ListPayments)
	sales.POST("/:id/reconcile", h.Reconcile)
}

// Create commits a sale, its stock deduction and any initial payment
// POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Get returns one sale
// GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List returns sales, newest first unless another order is requested
// GET /sales?status=&product_id=&customer_id=&page=&page_size=&order_by=&order_dir=
func (h *SaleHandler) List(c *gin.Context) {
	var filter tradeapp.SaleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	sales, total, err := h.sales.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// RecordPayment appends a payment to an open sale.
// An Idempotency-Key header makes client retries safe.
// POST /sales/:id/payments
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	saleID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	result, err := h.payments.RecordPayment(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListPayments returns a sale's payments in the order they were made
// GET /sales/:id/payments
func (h *SaleHandler) ListPayments(c *gin.Context) {
	saleID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.payments.ListPayments(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Reconcile recomputes paid, remaining and status from the payment history
// POST /sales/:id/reconcile
func (h *SaleHandler) Reconcile(c *gin.Context) {
	saleID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	sale, err := h.payments.ReconcileSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
