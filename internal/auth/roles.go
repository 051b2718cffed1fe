package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// RequireAdmin loads the resolved account and requires the admin role. It
// composes with Middleware.Handle and never bypasses the identity check:
// an unresolved identity is rejected before the store lookup.
func RequireAdmin(accounts repository.AccountRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, ok := AccountIDFromContext(c)
		if !ok {
			return apperrors.NewNoToken()
		}

		account, err := accounts.GetByID(c.Context(), accountID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewForbidden("access denied")
			}
			return apperrors.MapError(err)
		}
		if account.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}
