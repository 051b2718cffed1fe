package dto

import "time"

// OrderItemRequest is one requested product line.
type OrderItemRequest struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest payload for placing an order.
type CreateOrderRequest struct {
	Products []OrderItemRequest `json:"products"`
}

// OrderItemResponse is one purchased product line.
type OrderItemResponse struct {
	ProductID string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderResponse is the order view.
type OrderResponse struct {
	ID        string              `json:"id"`
	Items     []OrderItemResponse `json:"products"`
	Total     float64             `json:"total"`
	CreatedAt time.Time           `json:"createdAt"`
}

// OrderListResponse is the paginated order view.
type OrderListResponse struct {
	Orders      []OrderResponse `json:"orders"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalItems  int             `json:"totalItems"`
}
