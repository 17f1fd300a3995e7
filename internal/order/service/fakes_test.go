package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/stock"
)

// memStore is an in-memory stand-in for MySQL. fakeTxRunner serializes
// transactions and restores a snapshot when fn fails, which is the contract
// the service relies on.
type memStore struct {
	products  map[int64]domain.Product
	orders    map[string]domain.Order
	inventory map[int64]int64
}

func newMemStore(products ...domain.Product) *memStore {
	s := &memStore{
		products:  map[int64]domain.Product{},
		orders:    map[string]domain.Order{},
		inventory: map[int64]int64{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.products, s.orders, s.inventory = from.products, from.orders, from.inventory
}

type fakeTxRunner struct {
	mu       sync.Mutex
	store    *memStore
	BeginErr error
	commits  int
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.BeginErr != nil {
		return f.BeginErr
	}

	snap := f.store.snapshot()
	if err := fn(ctx, nil); err != nil {
		f.store.restore(snap)
		return err
	}
	f.commits++
	return nil
}

type fakeLedger struct {
	store *memStore
}

func (l *fakeLedger) Reserve(ctx context.Context, tx *sql.Tx, items []stock.Item) ([]domain.Product, error) {
	merged, err := stock.Normalize(items)
	if err != nil {
		return nil, err
	}
	for _, it := range merged {
		p, ok := l.store.products[it.ProductID]
		if !ok {
			return nil, apperrors.NewNotFoundError("product not found")
		}
		if !p.CanReserve(it.Quantity) {
			return nil, apperrors.NewInsufficientStockError(it.ProductID, it.Quantity, p.AvailableQuantity)
		}
	}
	out := make([]domain.Product, 0, len(merged))
	for _, it := range merged {
		p := l.store.products[it.ProductID]
		p.AvailableQuantity -= it.Quantity
		l.store.products[it.ProductID] = p
		out = append(out, p)
	}
	return out, nil
}

func (l *fakeLedger) Release(ctx context.Context, tx *sql.Tx, items []stock.Item) error {
	for _, it := range items {
		p, ok := l.store.products[it.ProductID]
		if !ok {
			return apperrors.NewNotFoundError("product not found")
		}
		p.AvailableQuantity += it.Quantity
		l.store.products[it.ProductID] = p
	}
	return nil
}

type fakeInventory struct {
	store    *memStore
	FailWith error
}

func (i *fakeInventory) ApplyDeliveryEvent(ctx context.Context, tx *sql.Tx, event domain.DeliveryEvent) error {
	if i.FailWith != nil {
		return i.FailWith
	}
	i.store.inventory[event.ProductID] += event.Quantity
	return nil
}

type fakeOrderRepo struct {
	store     *memStore
	InsertErr error
}

func (r *fakeOrderRepo) Insert(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.store.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order " + id + " not found")
	}
	return &o, nil
}

func (r *fakeOrderRepo) FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Order, error) {
	var out []domain.Order
	for _, id := range ids {
		if o, ok := r.store.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdatePayment(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	if r.store.orders[o.ID].IsPaid {
		return apperrors.NewAlreadyPaidError(o.ID)
	}
	r.store.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) UpdateShipment(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	r.store.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) UpdateDelivery(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	if r.store.orders[o.ID].IsDeliveryConfirmed {
		return errors.New("delivery already stored")
	}
	r.store.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) DeleteByIDs(ctx context.Context, tx *sql.Tx, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.store.orders[id]; ok {
			delete(r.store.orders, id)
			n++
		}
	}
	return n, nil
}
