package cache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/auth"
)

func newCachedApp(t *testing.T, tokens *auth.TokenService, store Store) (*fiber.App, *int) {
	t.Helper()
	hits := 0
	app := fiber.New()
	mw := auth.NewMiddleware(tokens)

	app.Get("/public", Respond("public", store, zap.NewNop()), func(c *fiber.Ctx) error {
		hits++
		return c.JSON(fiber.Map{"hits": hits, "q": c.Queries()})
	})
	app.Get("/private", mw.Handle, Respond("private", store, zap.NewNop()), func(c *fiber.Ctx) error {
		hits++
		id, _ := auth.AccountIDFromContext(c)
		return c.JSON(fiber.Map{"hits": hits, "id": id})
	})
	return app, &hits
}

func get(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRespondServesEquivalentQueriesFromCache(t *testing.T) {
	tokens := auth.NewTokenService("a-secret", "r-secret", time.Minute, time.Hour, time.Hour)
	app, hits := newCachedApp(t, tokens, NewMemoryStore(time.Minute))

	status, first := get(t, app, "/public?page=2&limit=10&category=books", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, *hits)

	// Same filters, different parameter order: must be a cache hit.
	status, second := get(t, app, "/public?category=books&page=2&limit=10", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, *hits)
	assert.JSONEq(t, first, second)

	// Different filter values miss.
	status, _ = get(t, app, "/public?page=3&limit=10&category=books", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, *hits)
}

func TestRespondKeysByResolvedIdentity(t *testing.T) {
	tokens := auth.NewTokenService("a-secret", "r-secret", time.Minute, time.Hour, time.Hour)
	app, hits := newCachedApp(t, tokens, NewMemoryStore(time.Minute))

	tokenOne, err := tokens.IssueAccessToken("acct-1")
	require.NoError(t, err)
	tokenTwo, err := tokens.IssueAccessToken("acct-2")
	require.NoError(t, err)

	status, bodyOne := get(t, app, "/private?page=1", tokenOne)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, *hits)

	// Another caller with the same query must not see the first caller's
	// cached response.
	status, bodyTwo := get(t, app, "/private?page=1", tokenTwo)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, *hits)
	assert.NotEqual(t, bodyOne, bodyTwo)

	// Repeat for the first caller: cache hit, identical payload.
	status, replay := get(t, app, "/private?page=1", tokenOne)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, *hits)
	assert.JSONEq(t, bodyOne, replay)
}

func TestRespondTTLBoundsStaleness(t *testing.T) {
	tokens := auth.NewTokenService("a-secret", "r-secret", time.Minute, time.Hour, time.Hour)
	app, hits := newCachedApp(t, tokens, NewMemoryStore(30*time.Millisecond))

	for i := 0; i < 2; i++ {
		status, _ := get(t, app, "/public?page=1", "")
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, 1, *hits)

	time.Sleep(50 * time.Millisecond)

	status, _ := get(t, app, "/public?page=1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, *hits)
}
