package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("registers customer and publishes event", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		publisher := new(MockEventPublisher)
		svc := NewCustomerService(repo)
		svc.SetEventPublisher(publisher)

		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == partner.EventTypeCustomerRegistered
		})).Return(nil)

		resp, err := svc.Create(ctx, CreateCustomerRequest{Name: "Jane", Phone: "0712345678"})
		require.NoError(t, err)
		assert.Equal(t, "Jane", resp.Name)
		assert.Equal(t, "0712345678", resp.Phone)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects invalid phone without saving", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, CreateCustomerRequest{Name: "Jane", Phone: "phone"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrCustomerNotFound)

	_, err := svc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	customer, err := partner.NewCustomer("Jane", "")
	require.NoError(t, err)
	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, customer).Return(nil)

	resp, err := svc.Update(ctx, customer.ID, UpdateCustomerRequest{Phone: "+254712345678"})
	require.NoError(t, err)
	assert.Equal(t, "+254712345678", resp.Phone)
	assert.Equal(t, 2, resp.Version)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	a, _ := partner.NewCustomer("Alice", "")
	b, _ := partner.NewCustomer("Bob", "")

	expected := shared.Filter{Page: 1, PageSize: 20, OrderBy: "name", OrderDir: "asc", Search: "o"}
	repo.On("FindAll", ctx, expected).Return([]partner.Customer{*a, *b}, nil)
	repo.On("Count", ctx, expected).Return(int64(2), nil)

	list, total, err := svc.List(ctx, CustomerListFilter{Search: "o"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
}
