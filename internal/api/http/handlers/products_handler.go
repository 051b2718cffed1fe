package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
	"github.com/spec-kit/commerce-service/internal/service"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// ProductsHandler manages catalog endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	filter := repository.ProductFilter{}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	if v := c.Query("search"); v != "" {
		filter.SearchTerm = &v
	}

	result, err := h.products.List(c.Context(), filter, page, limit)
	if err != nil {
		return err
	}

	items := make([]dto.ProductResponse, 0, len(result.Products))
	for i := range result.Products {
		items = append(items, productResponse(&result.Products[i]))
	}
	return c.JSON(dto.ProductListResponse{
		Products:    items,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		TotalItems:  result.TotalItems,
	})
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// Create POST /api/products (admin only).
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	input, err := parseProductInput(c)
	if err != nil {
		return err
	}
	product, err := h.products.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(productResponse(product))
}

// Update PUT /api/products/:id (admin only).
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	input, err := parseProductInput(c)
	if err != nil {
		return err
	}
	product, err := h.products.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// Delete DELETE /api/products/:id (admin only).
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Product deleted"})
}

// AddReview POST /api/products/:id/reviews.
func (h *ProductsHandler) AddReview(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return apperrors.NewNoToken()
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Comment) == "" {
		return apperrors.NewValidationError("comment is required")
	}

	if _, err := h.products.AddReview(c.Context(), accountID, c.Params("id"), req.Rating, req.Comment); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Review added"})
}

func parseProductInput(c *fiber.Ctx) (service.ProductInput, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ProductInput{}, apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return service.ProductInput{}, apperrors.NewValidationError("name is required")
	}
	if len(strings.TrimSpace(req.Description)) < 10 {
		return service.ProductInput{}, apperrors.NewValidationError("description must be at least 10 characters long")
	}
	if req.Price < 0 {
		return service.ProductInput{}, apperrors.NewValidationError("price must be a positive number")
	}
	if req.Stock < 0 {
		return service.ProductInput{}, apperrors.NewValidationError("stock must be a non-negative integer")
	}
	if strings.TrimSpace(req.Category) == "" {
		return service.ProductInput{}, apperrors.NewValidationError("category is required")
	}
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	}, nil
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		Stock:         product.Stock,
		Category:      product.Category,
		AverageRating: product.AverageRating,
		ReviewCount:   product.ReviewCount,
		CreatedAt:     product.CreatedAt,
	}
}
