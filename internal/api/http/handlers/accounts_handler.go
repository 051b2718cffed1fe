package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/service"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// AccountsHandler exposes registration, verification and session endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// Register handles POST /api/users/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		return apperrors.NewValidationError("name must be at least 2 characters long")
	}
	if !strings.Contains(req.Email, "@") {
		return apperrors.NewValidationError("must be a valid email address")
	}
	if len(req.Password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters long")
	}

	if _, err := h.accounts.Register(c.Context(), req.Name, req.Email, req.Password); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{
		Message: "User registered. Please check your email to verify your account.",
	})
}

// VerifyEmail handles GET /api/users/verify/:token.
func (h *AccountsHandler) VerifyEmail(c *fiber.Ctx) error {
	if err := h.accounts.VerifyEmail(c.Context(), c.Params("token")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}

// Login handles POST /api/users/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	pair, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Refresh handles POST /api/users/refresh-token.
func (h *AccountsHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refreshToken required")
	}

	pair, err := h.accounts.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Profile handles GET /api/users/profile.
func (h *AccountsHandler) Profile(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return apperrors.NewNoToken()
	}

	account, err := h.accounts.GetProfile(c.Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      string(account.Role),
		Verified:  account.Verified,
		CreatedAt: account.CreatedAt,
	})
}
