package domain

import "time"

// OrderItem is one product line within an order.
type OrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// Order records a purchase made by an account.
type Order struct {
	ID        string
	AccountID string
	Items     []OrderItem
	Total     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
