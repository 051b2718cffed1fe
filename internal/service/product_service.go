package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// ProductInput carries catalog fields for create/update.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// ProductPage is a paginated listing result.
type ProductPage struct {
	Products    []domain.Product
	CurrentPage int
	TotalPages  int
	TotalItems  int
}

// ProductService coordinates catalog operations.
type ProductService struct {
	products repository.ProductRepository
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Create adds a catalog entry.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// Update replaces the mutable fields of a product.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product")
		}
		return nil, apperrors.MapError(err)
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.Category = input.Category
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Get fetches a single product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product")
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// List returns a filtered, paginated slice of the catalog.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	totalPages := (total + limit - 1) / limit
	return &ProductPage{
		Products:    products,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
	}, nil
}

// AddReview records a rating and folds it into the product aggregate.
func (s *ProductService) AddReview(ctx context.Context, accountID, productID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	review := &domain.Review{
		AccountID: accountID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.products.AddReview(ctx, productID, review); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product")
		}
		return nil, apperrors.MapError(err)
	}
	return review, nil
}
