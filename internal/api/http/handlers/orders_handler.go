package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/service"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create POST /api/orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return apperrors.NewNoToken()
	}

	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	items := make([]service.OrderItemInput, 0, len(req.Products))
	for _, item := range req.Products {
		items = append(items, service.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orders.Create(c.Context(), accountID, items)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(orderResponse(order))
}

// List GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return apperrors.NewNoToken()
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.orders.List(c.Context(), accountID, page, limit)
	if err != nil {
		return err
	}

	items := make([]dto.OrderResponse, 0, len(result.Orders))
	for i := range result.Orders {
		items = append(items, orderResponse(&result.Orders[i]))
	}
	return c.JSON(dto.OrderListResponse{
		Orders:      items,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		TotalItems:  result.TotalItems,
	})
}

// Get GET /api/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return apperrors.NewNoToken()
	}

	order, err := h.orders.Get(c.Context(), accountID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(orderResponse(order))
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return dto.OrderResponse{
		ID:        order.ID,
		Items:     items,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
}
