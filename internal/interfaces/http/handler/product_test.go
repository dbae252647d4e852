package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	inventoryapp "github.com/shopledger/backend/internal/application/inventory"
	"github.com/shopledger/backend/internal/domain/catalog"
	domaininv "github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_Register(t *testing.T) {
	inventory := new(MockInventory)
	router := newTestRouter(NewProductHandler(inventory))

	t.Run("creates product", func(t *testing.T) {
		productID := uuid.New()
		inventory.On("RegisterProduct", mock.Anything, mock.MatchedBy(func(req inventoryapp.RegisterProductRequest) bool {
			return req.Name == "Sugar 1kg" && req.BuyingPrice.Equal(decimal.NewFromInt(60))
		})).Return(&inventoryapp.ProductResponse{ID: productID, Name: "Sugar 1kg"}, nil).Once()

		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products",
			`{"name":"Sugar 1kg","unit":"packet","buying_price":"60","selling_price":"100"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, productID.String(), resp.Data.(map[string]any)["id"])
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products",
			`{"unit":"packet","buying_price":"60","selling_price":"100"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
	})

	t.Run("negative price is a domain error", func(t *testing.T) {
		inventory.On("RegisterProduct", mock.Anything, mock.Anything).Return(nil, shared.ErrInvalidQuantityOrPrice).Once()

		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products",
			`{"name":"Salt","unit":"kg","buying_price":"-1","selling_price":"10"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidQuantityOrPrice, resp.Error.Code)
		assert.Equal(t, "req-test", resp.Error.RequestID)
	})

	constructorErr := func(name, unit string, buying int64, reorder int64) error {
		_, err := catalog.NewProduct(name, unit, decimal.NewFromInt(buying), decimal.NewFromInt(10), reorder)
		require.Error(t, err)
		return err
	}
	rejected := []struct {
		name string
		err  error
		code string
	}{
		{"negative buying price", constructorErr("Salt", "kg", -10, 0), dto.ErrCodeInvalidPrice},
		{"negative reorder level", constructorErr("Salt", "kg", 5, -1), dto.ErrCodeInvalidReorderLevel},
		{"blank name", constructorErr("", "kg", 5, 0), dto.ErrCodeInvalidName},
		{"blank unit", constructorErr("Salt", "", 5, 0), dto.ErrCodeInvalidUnit},
	}
	for _, tt := range rejected {
		t.Run(tt.name+" is a bad request", func(t *testing.T) {
			inventory.On("RegisterProduct", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products",
				`{"name":"Salt","unit":"kg","buying_price":"-10","selling_price":"10"}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	inventory.AssertExpectations(t)
}

func TestProductHandler_ReceiveStock(t *testing.T) {
	inventory := new(MockInventory)
	router := newTestRouter(NewProductHandler(inventory))
	productID := uuid.New()

	t.Run("product comes from the path", func(t *testing.T) {
		inventory.On("ReceiveStock", mock.Anything, mock.MatchedBy(func(req inventoryapp.ReceiveStockRequest) bool {
			return req.ProductID == productID && req.Quantity == 10 &&
				req.SellingPrice != nil && req.SellingPrice.Equal(decimal.NewFromInt(120))
		})).Return(&inventoryapp.StockReceiptResponse{ID: uuid.New(), ProductID: productID, Quantity: 10}, nil).Once()

		w, _ := doRequest(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/receipts",
			`{"quantity":10,"unit_cost":"70.5","selling_price":"120"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		inventory.On("ReceiveStock", mock.Anything, mock.Anything).Return(nil, shared.ErrProductNotFound).Once()

		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products/"+uuid.NewString()+"/receipts",
			`{"quantity":1,"unit_cost":"1"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeProductNotFound, resp.Error.Code)
	})

	t.Run("receipt without a product is a bad request", func(t *testing.T) {
		_, receiptErr := domaininv.NewStockReceipt(uuid.Nil, 1, decimal.NewFromInt(1), nil)
		require.Error(t, receiptErr)
		inventory.On("ReceiveStock", mock.Anything, mock.Anything).Return(nil, receiptErr).Once()

		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products/"+uuid.Nil.String()+"/receipts",
			`{"quantity":1,"unit_cost":"1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidProduct, resp.Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/products/not-a-uuid/receipts", `{"quantity":1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})

	inventory.AssertExpectations(t)
}

func TestProductHandler_StockLevel(t *testing.T) {
	inventory := new(MockInventory)
	router := newTestRouter(NewProductHandler(inventory))
	productID := uuid.New()

	inventory.On("GetStockLevel", mock.Anything, productID).
		Return(&inventoryapp.StockLevelResponse{ProductID: productID, Available: 3, ReorderLevel: 5, IsLowStock: true}, nil)
	inventory.On("ReconcileStock", mock.Anything, productID).
		Return(&inventoryapp.StockLevelResponse{ProductID: productID, Available: 3, ReorderLevel: 5, IsLowStock: true}, nil)

	w, resp := doRequest(t, router, http.MethodGet, "/api/v1/products/"+productID.String()+"/stock", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	assert.EqualValues(t, 3, data["available"])
	assert.Equal(t, true, data["is_low_stock"])

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/products/"+productID.String()+"/stock/reconcile", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	inventory.AssertExpectations(t)
}

func TestProductHandler_List(t *testing.T) {
	inventory := new(MockInventory)
	router := newTestRouter(NewProductHandler(inventory))

	inventory.On("ListProducts", mock.Anything, shared.Filter{Page: 1, PageSize: dto.DefaultPageSize, Search: "flour"}).
		Return([]inventoryapp.ProductResponse{{Name: "Maize flour"}, {Name: "Wheat flour"}}, nil)

	w, resp := doRequest(t, router, http.MethodGet, "/api/v1/products?search=flour", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 2)
	inventory.AssertExpectations(t)
}
