package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vinemarket-backend/internal/application/feed"
	"vinemarket-backend/internal/config"
	"vinemarket-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]*domain.Identity

func (s staticVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid token")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		ListingsCollection: "listings",
		ListingTTLDays:     30,
		DefaultLocale:      "ka",
	}
}

func setupRouterTest(t *testing.T) (*fiber.App, *Runtime) {
	mem := feed.NewMemory()
	mem.Publish("listings", []feed.Document{
		{ID: "l1", Data: map[string]interface{}{"variety": "Saperavi", "image": "https://example.com/a.jpg", "createdAt": time.Now()}},
		{ID: "l2", Data: map[string]interface{}{"variety": "Kisi", "hidden": true, "createdAt": time.Now()}},
	})
	app, rt := NewApp(testConfig(), Deps{
		Source: mem,
		Writer: mem,
		Verifier: staticVerifier{
			"admin": {UID: "a1", Admin: true},
			"user":  {UID: "u1"},
		},
	})
	require.NoError(t, rt.Start(context.Background()))
	t.Cleanup(rt.Close)
	return app, rt
}

func request(t *testing.T, app *fiber.App, method, target, token string) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRuntime_UsesMemoryFeed(t *testing.T) {
	_, rt := setupRouterTest(t)
	require.NotNil(t, rt.Memory)
	assert.Equal(t, 2, rt.Memory.Subscribers("listings"))
	assert.Len(t, rt.Public.Snapshot().Listings, 1)
	assert.Len(t, rt.Admin.Snapshot().Listings, 2)
}

func TestPublicListings(t *testing.T) {
	app, _ := setupRouterTest(t)

	code, body := request(t, app, "GET", "/api/v1/listings", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, _ = request(t, app, "GET", "/api/v1/listings/l2", "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestAdminRoutesAreGuarded(t *testing.T) {
	app, _ := setupRouterTest(t)

	code, _ := request(t, app, "GET", "/api/v1/admin/listings", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = request(t, app, "GET", "/api/v1/admin/listings", "user")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, body := request(t, app, "GET", "/api/v1/admin/listings", "admin")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 2)
}

func TestModerationReachesPublicCatalog(t *testing.T) {
	app, rt := setupRouterTest(t)

	code, _ := request(t, app, "PATCH", "/api/v1/admin/listings/l1/hidden", "admin")
	assert.Equal(t, fiber.StatusBadRequest, code)

	req := httptest.NewRequest("PATCH", "/api/v1/admin/listings/l1/hidden", jsonBody(`{"hidden":true}`))
	req.Header.Set("Authorization", "Bearer admin")
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Empty(t, rt.Public.Snapshot().Listings)
	assert.Len(t, rt.Admin.Snapshot().Listings, 2)
}

func TestHealthWithoutRedis(t *testing.T) {
	app, _ := setupRouterTest(t)
	code, body := request(t, app, "GET", "/health/json", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "vinemarket-api", body["service"])
	assert.Equal(t, "ok", body["status"])
}

func TestHandler_ServesNetHTTP(t *testing.T) {
	app, _ := setupRouterTest(t)
	h := Handler(app)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/listings", nil))
	require.Equal(t, fiber.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])
	assert.Len(t, body["data"], 1)
}

func jsonBody(s string) *strings.Reader { return strings.NewReader(s) }
