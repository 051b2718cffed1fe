package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderPage is a paginated listing of an account's orders.
type OrderPage struct {
	Orders      []domain.Order
	CurrentPage int
	TotalPages  int
	TotalItems  int
}

// OrderService coordinates order placement and retrieval.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, accounts repository.AccountRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, products: products, accounts: accounts, dispatcher: dispatcher}
}

// Create places an order owned by the caller. Unit prices come from the
// catalog at order time, never from the request.
func (s *OrderService) Create(ctx context.Context, accountID string, items []OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("order requires at least one product")
	}

	order := &domain.Order{AccountID: accountID}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperrors.NewValidationError("quantity must be at least 1")
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("product")
			}
			return nil, apperrors.MapError(err)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		order.Total += product.Price * float64(item.Quantity)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderCreated,
			AccountID: accountID,
			Timestamp: time.Now(),
			Payload:   events.OrderCreatedPayload{OrderID: order.ID, Total: order.Total},
		}
		go func() {
			_ = s.dispatcher.Publish(context.Background(), event)
		}()
	}

	return order, nil
}

// List returns the caller's own orders, newest first.
func (s *OrderService) List(ctx context.Context, accountID string, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	orders, total, err := s.orders.ListByAccount(ctx, accountID, limit, (page-1)*limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &OrderPage{
		Orders:      orders,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalItems:  total,
	}, nil
}

// Get fetches an order. Owners see their own orders, admins see any;
// anyone else reads the order as missing.
func (s *OrderService) Get(ctx context.Context, callerID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, apperrors.MapError(err)
	}
	if order.AccountID == callerID {
		return order, nil
	}

	caller, err := s.accounts.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role != domain.RoleAdmin {
		return nil, apperrors.NewNotFound("order")
	}
	return order, nil
}
