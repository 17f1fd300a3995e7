package product

import (
	"context"
	"database/sql"

	"supplyhub/internal/domain"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	f.calls++
	return fn(ctx, nil)
}

type mockLedger struct {
	RestockFunc func(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error
}

func (m *mockLedger) Restock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	return m.RestockFunc(ctx, tx, productID, quantity)
}

// memRepository keeps products in a map keyed by id.
type memRepository struct {
	products map[int64]domain.Product
	nextID   int64
}

func newMemRepository(seed ...domain.Product) *memRepository {
	r := &memRepository{products: map[int64]domain.Product{}}
	for _, p := range seed {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *memRepository) Insert(_ context.Context, _ *sql.Tx, p *domain.Product) (int64, error) {
	r.nextID++
	stored := *p
	stored.ID = r.nextID
	stored.AvailableQuantity = 0
	r.products[stored.ID] = stored
	return stored.ID, nil
}

func (r *memRepository) Update(_ context.Context, p *domain.Product) error {
	stored := r.products[p.ID]
	stored.Name, stored.Category, stored.Price = p.Name, p.Category, p.Price
	r.products[p.ID] = stored
	return nil
}

func (r *memRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, notFound(id)
	}
	return &p, nil
}

func (r *memRepository) List(_ context.Context, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	for id := int64(1); id <= r.nextID; id++ {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *memRepository) Count(_ context.Context) (int, error) {
	return len(r.products), nil
}

// restockInto returns a ledger that adds stock to the in-memory repository.
func restockInto(repo *memRepository) *mockLedger {
	return &mockLedger{
		RestockFunc: func(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
			p, ok := repo.products[productID]
			if !ok {
				return notFound(productID)
			}
			p.AvailableQuantity += quantity
			repo.products[productID] = p
			return nil
		},
	}
}
