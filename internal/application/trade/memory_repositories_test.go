package trade

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// memStore backs the in-memory repositories used by the service tests
type memStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]catalog.Product
	receipts  []inventory.StockReceipt
	customers map[uuid.UUID]partner.Customer
	sales     map[uuid.UUID]trade.Sale
	payments  []trade.Payment
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]catalog.Product),
		customers: make(map[uuid.UUID]partner.Customer),
		sales:     make(map[uuid.UUID]trade.Sale),
	}
}

func (m *memStore) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		&memProducts{m}, &memReceipts{m}, &memLevels{m},
		&memCustomers{m}, &memSales{m}, &memPayments{m},
	)
}

type memProducts struct{ *memStore }

func (r *memProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProducts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProducts) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProducts) Save(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *memProducts) SaveWithLock(ctx context.Context, p *catalog.Product) error {
	r.mu.Lock()
	stored, ok := r.products[p.ID]
	r.mu.Unlock()
	if !ok || stored.Version != p.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	return r.Save(ctx, p)
}

func (r *memProducts) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	return ok, nil
}

type memReceipts struct{ *memStore }

func (r *memReceipts) Create(_ context.Context, receipt *inventory.StockReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, *receipt)
	return nil
}

func (r *memReceipts) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StockReceipt
	for _, rc := range r.receipts {
		if rc.ProductID == productID {
			out = append(out, rc)
		}
	}
	return out, nil
}

type memLevels struct{ *memStore }

func (r *memLevels) ReceivedQuantity(_ context.Context, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, rc := range r.receipts {
		if rc.ProductID == productID {
			total += rc.Quantity
		}
	}
	return total, nil
}

func (r *memLevels) SoldQuantity(_ context.Context, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, s := range r.sales {
		if s.ProductID == productID && s.CountsAgainstStock() {
			total += s.Quantity
		}
	}
	return total, nil
}

func (r *memLevels) DecrementOnHand(_ context.Context, productID uuid.UUID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[productID]
	if p.OnHand < quantity {
		return shared.ErrInsufficientStock
	}
	p.OnHand -= quantity
	p.Version++
	r.products[productID] = p
	return nil
}

type memCustomers struct{ *memStore }

func (r *memCustomers) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *memCustomers) FindAll(context.Context, shared.Filter) ([]partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCustomers) Count(context.Context, shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.customers)), nil
}

func (r *memCustomers) Save(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = *c
	return nil
}

func (r *memCustomers) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.customers[id]
	return ok, nil
}

type memSales struct{ *memStore }

func (r *memSales) FindByID(_ context.Context, id uuid.UUID) (*trade.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrSaleNotFound
	}
	return &s, nil
}

func (r *memSales) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *memSales) FindAll(_ context.Context, filter shared.Filter) ([]trade.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]trade.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if status, ok := filter.Filters["status"]; ok && string(s.Status) != status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	return out, nil
}

func (r *memSales) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	sales, err := r.FindAll(ctx, filter)
	return int64(len(sales)), err
}

func (r *memSales) Create(_ context.Context, s *trade.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[s.ID] = *s
	return nil
}

func (r *memSales) SaveWithLock(_ context.Context, s *trade.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sales[s.ID]
	if !ok || stored.Version != s.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.sales[s.ID] = *s
	return nil
}

type memPayments struct{ *memStore }

func (r *memPayments) Create(_ context.Context, p *trade.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *memPayments) FindBySale(_ context.Context, saleID uuid.UUID) ([]trade.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Payment
	for _, p := range r.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPayments) SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	payments, err := r.FindBySale(ctx, saleID)
	return trade.SumPayments(payments), err
}

// memIdempotencyStore is a map-backed shared.IdempotencyStore
type memIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys == nil {
		s.keys = make(map[string]time.Time)
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = time.Now().Add(ttl)
	return true, nil
}

func (s *memIdempotencyStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *memIdempotencyStore) Close() error { return nil }
