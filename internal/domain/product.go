package domain

import "time"

// Review is a customer rating embedded in a product.
type Review struct {
	ID        string
	AccountID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Product is the catalog entry sold by the store.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	Stock         int
	Category      string
	AverageRating float64
	ReviewCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
