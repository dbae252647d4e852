package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	partnerapp "github.com/shopledger/backend/internal/application/partner"
	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler(t *testing.T) {
	customers := new(MockCustomers)
	router := newTestRouter(NewCustomerHandler(customers))
	id := uuid.New()

	t.Run("create", func(t *testing.T) {
		customers.On("Create", mock.Anything, partnerapp.CreateCustomerRequest{Name: "Wanjiku", Phone: "0712345678"}).
			Return(&partnerapp.CustomerResponse{ID: id, Name: "Wanjiku", Phone: "0712345678"}, nil).Once()

		w, _ := doRequest(t, router, http.MethodPost, "/api/v1/customers", `{"name":"Wanjiku","phone":"0712345678"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("phone too long", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/customers",
			`{"name":"Wanjiku","phone":"071234567807123456780712"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidationRange, resp.Error.Details[0].Code)
	})

	t.Run("malformed phone is a bad request", func(t *testing.T) {
		_, phoneErr := partner.NewCustomer("Wanjiku", "not-a-phone")
		require.Error(t, phoneErr)
		customers.On("Create", mock.Anything, partnerapp.CreateCustomerRequest{Name: "Wanjiku", Phone: "not-a-phone"}).
			Return(nil, phoneErr).Once()

		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/customers", `{"name":"Wanjiku","phone":"not-a-phone"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidPhone, resp.Error.Code)
	})

	t.Run("blank name is a bad request", func(t *testing.T) {
		_, nameErr := partner.NewCustomer("   ", "")
		require.Error(t, nameErr)
		customers.On("Create", mock.Anything, partnerapp.CreateCustomerRequest{Name: " ", Phone: ""}).
			Return(nil, nameErr).Once()

		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/customers", `{"name":" "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidName, resp.Error.Code)
	})

	t.Run("update", func(t *testing.T) {
		customers.On("Update", mock.Anything, id, partnerapp.UpdateCustomerRequest{Phone: "0799000111"}).
			Return(&partnerapp.CustomerResponse{ID: id, Phone: "0799000111"}, nil).Once()

		w, resp := doRequest(t, router, http.MethodPut, "/api/v1/customers/"+id.String(), `{"phone":"0799000111"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0799000111", resp.Data.(map[string]any)["phone"])
	})

	t.Run("missing", func(t *testing.T) {
		missing := uuid.New()
		customers.On("GetByID", mock.Anything, missing).Return(nil, shared.ErrCustomerNotFound).Once()

		w, resp := doRequest(t, router, http.MethodGet, "/api/v1/customers/"+missing.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeCustomerNotFound, resp.Error.Code)
	})

	t.Run("list", func(t *testing.T) {
		customers.On("List", mock.Anything, partnerapp.CustomerListFilter{Search: "07", Page: 2, PageSize: 1}).
			Return([]partnerapp.CustomerResponse{{ID: id}}, int64(3), nil).Once()

		w, resp := doRequest(t, router, http.MethodGet, "/api/v1/customers?search=07&page=2&page_size=1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	customers.AssertExpectations(t)
}
