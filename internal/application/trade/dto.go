package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// CreateSaleRequest represents a request to sell a product
type CreateSaleRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
	Quantity      int64           `json:"quantity"`
	SellingPrice  decimal.Decimal `json:"selling_price" binding:"money"`
	PaymentMode   string          `json:"payment_mode"`
	InitialPaid   decimal.Decimal `json:"initial_paid_amount" binding:"money"`
	InitialMode   string          `json:"initial_payment_mode"`
	Authorization string          `json:"authorization_code"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Status     *string `form:"status" binding:"omitempty,oneof=COMPLETED PENDING_PAYMENT CANCELLED"`
	ProductID  *string `form:"product_id" binding:"omitempty,uuid"`
	CustomerID *string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int     `form:"page" binding:"omitempty,min=1"`
	PageSize   int     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string  `form:"order_by" binding:"omitempty,oneof=sold_at total_price created_at"`
	OrderDir   string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	CustomerID         *uuid.UUID      `json:"customer_id,omitempty"`
	Quantity           int64           `json:"quantity"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	BuyingPrice        decimal.Decimal `json:"buying_price"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	Profit             decimal.Decimal `json:"profit"`
	PaymentMode        string          `json:"payment_mode"`
	Status             string          `json:"status"`
	ApprovedByOverride bool            `json:"approved_by_override"`
	SoldAt             time.Time       `json:"sold_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ==================== Payment DTOs ====================

// RecordPaymentRequest represents a payment against a sale
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"money"`
	Mode   string          `json:"mode"`
	// IdempotencyKey deduplicates client retries; taken from the Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID     uuid.UUID       `json:"id"`
	SaleID uuid.UUID       `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode"`
	PaidAt time.Time       `json:"paid_at"`
}

// PaymentResultResponse is a recorded payment with the sale it settled against
type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Sale    SaleResponse    `json:"sale"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale) SaleResponse {
	return SaleResponse{
		ID:                 s.ID,
		ProductID:          s.ProductID,
		CustomerID:         s.CustomerID,
		Quantity:           s.Quantity,
		SellingPrice:       s.SellingPrice,
		BuyingPrice:        s.BuyingPrice,
		TotalPrice:         s.TotalPrice,
		PaidAmount:         s.PaidAmount,
		RemainingAmount:    s.RemainingAmount,
		Profit:             s.Profit,
		PaymentMode:        s.PaymentMode.String(),
		Status:             s.Status.String(),
		ApprovedByOverride: s.ApprovedByOverride,
		SoldAt:             s.SoldAt,
		UpdatedAt:          s.UpdatedAt,
		Version:            s.Version,
	}
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *trade.Payment) PaymentResponse {
	return PaymentResponse{
		ID:     p.ID,
		SaleID: p.SaleID,
		Amount: p.Amount,
		Mode:   p.Mode.String(),
		PaidAt: p.PaidAt,
	}
}
