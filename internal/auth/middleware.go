package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

const identityKey = "auth_account_id"

// Middleware resolves the caller identity from the Authorization header
// before protected handlers run.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle rejects requests without a valid access token and attaches the
// resolved account ID to the request context.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewNoToken()
	}

	// Both a raw token and the conventional "Bearer <token>" form are accepted.
	token := authHeader
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		token = parts[1]
	}

	accountID, err := m.tokens.Verify(token, KindAccess)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewTokenExpired()
		}
		return apperrors.NewTokenInvalid()
	}

	c.Locals(identityKey, accountID)
	return c.Next()
}

// AccountIDFromContext retrieves the authenticated account ID.
func AccountIDFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
