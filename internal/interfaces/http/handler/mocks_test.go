package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/shopledger/backend/internal/application/inventory"
	partnerapp "github.com/shopledger/backend/internal/application/partner"
	tradeapp "github.com/shopledger/backend/internal/application/trade"
	"github.com/shopledger/backend/internal/domain/report"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
	"github.com/shopledger/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInventory struct{ mock.Mock }

func (m *MockInventory) RegisterProduct(ctx context.Context, req inventoryapp.RegisterProductRequest) (*inventoryapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ProductResponse), args.Error(1)
}

func (m *MockInventory) GetProduct(ctx context.Context, productID uuid.UUID) (*inventoryapp.ProductResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ProductResponse), args.Error(1)
}

func (m *MockInventory) ListProducts(ctx context.Context, filter shared.Filter) ([]inventoryapp.ProductResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventoryapp.ProductResponse), args.Error(1)
}

func (m *MockInventory) ReceiveStock(ctx context.Context, req inventoryapp.ReceiveStockRequest) (*inventoryapp.StockReceiptResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockReceiptResponse), args.Error(1)
}

func (m *MockInventory) GetStockLevel(ctx context.Context, productID uuid.UUID) (*inventoryapp.StockLevelResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockLevelResponse), args.Error(1)
}

func (m *MockInventory) ListReceipts(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventoryapp.StockReceiptResponse, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]inventoryapp.StockReceiptResponse), args.Error(1)
}

func (m *MockInventory) ReconcileStock(ctx context.Context, productID uuid.UUID) (*inventoryapp.StockLevelResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockLevelResponse), args.Error(1)
}

type MockSales struct{ mock.Mock }

func (m *MockSales) CreateSale(ctx context.Context, req tradeapp.CreateSaleRequest) (*tradeapp.SaleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SaleResponse), args.Error(1)
}

func (m *MockSales) GetSale(ctx context.Context, saleID uuid.UUID) (*tradeapp.SaleResponse, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SaleResponse), args.Error(1)
}

func (m *MockSales) ListSales(ctx context.Context, filter tradeapp.SaleListFilter) ([]tradeapp.SaleResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tradeapp.SaleResponse), args.Get(1).(int64), args.Error(2)
}

type MockPayments struct{ mock.Mock }

func (m *MockPayments) RecordPayment(ctx context.Context, saleID uuid.UUID, req tradeapp.RecordPaymentRequest) (*tradeapp.PaymentResultResponse, error) {
	args := m.Called(ctx, saleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.PaymentResultResponse), args.Error(1)
}

func (m *MockPayments) ListPayments(ctx context.Context, saleID uuid.UUID) ([]tradeapp.PaymentResponse, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]tradeapp.PaymentResponse), args.Error(1)
}

func (m *MockPayments) ReconcileSale(ctx context.Context, saleID uuid.UUID) (*tradeapp.SaleResponse, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SaleResponse), args.Error(1)
}

type MockCustomers struct{ mock.Mock }

func (m *MockCustomers) Create(ctx context.Context, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomers) GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomers) Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomers) List(ctx context.Context, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partnerapp.CustomerResponse), args.Get(1).(int64), args.Error(2)
}

type MockReports struct{ mock.Mock }

func (m *MockReports) Rollup(ctx context.Context, period report.Period, ref time.Time) (*report.SalesRollup, error) {
	args := m.Called(ctx, period, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SalesRollup), args.Error(1)
}

func (m *MockReports) GetAnalytics(ctx context.Context, ref time.Time) (*report.Analytics, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Analytics), args.Error(1)
}

func (m *MockReports) ListLowStock(ctx context.Context, limit int) ([]report.LowStockItem, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.LowStockItem), args.Error(1)
}

type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// newTestRouter mounts handlers under /api/v1 with the validator configured
func newTestRouter(handlers ...routeRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, "req-test")
		c.Next()
	})
	api := engine.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return engine
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}
