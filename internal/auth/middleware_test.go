package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-service/internal/domain"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByVerificationToken(_ context.Context, token string, now time.Time) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.VerificationToken != nil && *account.VerificationToken == token &&
			account.VerificationTokenExpiry != nil && account.VerificationTokenExpiry.After(now) {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(tokens *TokenService, repo *fakeAccountRepo) *fiber.App {
	app := fiber.New()
	// Mirrors the production error middleware's status+message rendering.
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		}
		return nil
	})

	mw := NewMiddleware(tokens)
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		id, _ := AccountIDFromContext(c)
		return c.SendString(id)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(repo), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	app := newTestApp(newTestTokenService(15*time.Minute), &fakeAccountRepo{accounts: map[string]*domain.Account{}})

	status, body := doRequest(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "no token")
}

func TestMiddlewareAcceptsBearerAndRawTokens(t *testing.T) {
	tokens := newTestTokenService(15 * time.Minute)
	app := newTestApp(tokens, &fakeAccountRepo{accounts: map[string]*domain.Account{}})

	token, err := tokens.IssueAccessToken("acct-1")
	require.NoError(t, err)

	status, body := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "acct-1", body)

	status, body = doRequest(t, app, "/me", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "acct-1", body)
}

func TestMiddlewareDistinguishesExpiredFromInvalid(t *testing.T) {
	tokens := newTestTokenService(time.Millisecond)
	app := newTestApp(tokens, &fakeAccountRepo{accounts: map[string]*domain.Account{}})

	token, err := tokens.IssueAccessToken("acct-1")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	status, body := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "token expired")

	status, body = doRequest(t, app, "/me", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "not valid")
}

func TestRequireAdminGating(t *testing.T) {
	tokens := newTestTokenService(15 * time.Minute)
	repo := &fakeAccountRepo{accounts: map[string]*domain.Account{
		"admin-1":    {ID: "admin-1", Role: domain.RoleAdmin},
		"customer-1": {ID: "customer-1", Role: domain.RoleCustomer},
	}}
	app := newTestApp(tokens, repo)

	adminToken, err := tokens.IssueAccessToken("admin-1")
	require.NoError(t, err)
	customerToken, err := tokens.IssueAccessToken("customer-1")
	require.NoError(t, err)
	ghostToken, err := tokens.IssueAccessToken("ghost")
	require.NoError(t, err)

	status, _ := doRequest(t, app, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, "/admin", "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body, "access denied")

	status, _ = doRequest(t, app, "/admin", "Bearer "+ghostToken)
	assert.Equal(t, http.StatusForbidden, status)

	// The identity check still runs on admin routes.
	status, _ = doRequest(t, app, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
