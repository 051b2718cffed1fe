package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
)

type memoryProductRepo struct {
	products map[string]*domain.Product
}

func (r *memoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.products[product.ID] = product
	return nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return product, nil
}

func (r *memoryProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, int, error) {
	return nil, 0, nil
}

func (r *memoryProductRepo) AddReview(_ context.Context, productID string, review *domain.Review) error {
	product, ok := r.products[productID]
	if !ok {
		return pgx.ErrNoRows
	}
	product.AverageRating = (product.AverageRating*float64(product.ReviewCount) + float64(review.Rating)) / float64(product.ReviewCount+1)
	product.ReviewCount++
	return nil
}

type memoryOrderRepo struct {
	seq    int
	orders map[string]*domain.Order
}

func (r *memoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.seq++
	order.ID = "order-" + strconv.Itoa(r.seq)
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *memoryOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *order
	return &clone, nil
}

func (r *memoryOrderRepo) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]domain.Order, int, error) {
	matched := []domain.Order{}
	for _, order := range r.orders {
		if order.AccountID == accountID {
			matched = append(matched, *order)
		}
	}
	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func newOrderFixture() (*OrderService, *memoryAccountRepo) {
	products := &memoryProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Widget", Price: 9.99, Stock: 10},
		"p2": {ID: "p2", Name: "Gadget", Price: 25.00, Stock: 3},
	}}
	orders := &memoryOrderRepo{orders: map[string]*domain.Order{}}
	accounts := newMemoryAccountRepo()
	return NewOrderService(orders, products, accounts, nil), accounts
}

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	svc, _ := newOrderFixture()
	ctx := context.Background()

	order, err := svc.Create(ctx, "acct-1", []OrderItemInput{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2*9.99+25.00, order.Total, 0.001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 9.99, order.Items[0].UnitPrice)
}

func TestCreateOrderValidatesInput(t *testing.T) {
	svc, _ := newOrderFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, "acct-1", nil)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	_, err = svc.Create(ctx, "acct-1", []OrderItemInput{{ProductID: "p1", Quantity: 0}})
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	_, err = svc.Create(ctx, "acct-1", []OrderItemInput{{ProductID: "missing", Quantity: 1}})
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestGetOrderIsOwnerScoped(t *testing.T) {
	svc, accounts := newOrderFixture()
	ctx := context.Background()

	customer := &domain.Account{Name: "Bob", Email: "bob@x.com", Role: domain.RoleCustomer, Verified: true}
	require.NoError(t, accounts.Create(ctx, customer))

	order, err := svc.Create(ctx, "owner-1", []OrderItemInput{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, "owner-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)

	// Another customer cannot see the order; it reads as missing.
	_, err = svc.Get(ctx, customer.ID, order.ID)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))

	// So does a caller with no account at all.
	_, err = svc.Get(ctx, "ghost", order.ID)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestGetOrderAdmitsAdmin(t *testing.T) {
	svc, accounts := newOrderFixture()
	ctx := context.Background()

	admin := &domain.Account{Name: "Root", Email: "root@x.com", Role: domain.RoleAdmin, Verified: true}
	require.NoError(t, accounts.Create(ctx, admin))

	order, err := svc.Create(ctx, "owner-1", []OrderItemInput{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, admin.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, "owner-1", fetched.AccountID)
}
