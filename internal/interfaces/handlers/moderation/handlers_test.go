package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"vinemarket-backend/internal/application/feed"
	listsvc "vinemarket-backend/internal/application/listings"
	modsvc "vinemarket-backend/internal/application/moderation"
	"vinemarket-backend/internal/domain"
	"vinemarket-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupModerationTest(t *testing.T, identity *domain.Identity) (*fiber.App, *modsvc.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AdminLog{}))

	m := feed.NewMemory()
	m.Publish("listings", []feed.Document{
		{ID: "l1", Data: map[string]interface{}{"variety": "Saperavi", "createdAt": time.Unix(100, 0)}},
		{ID: "l2", Data: map[string]interface{}{"variety": "Kisi", "hidden": true, "createdAt": time.Unix(200, 0)}},
	})
	m.Publish(modsvc.ReportsCollection, []feed.Document{
		{ID: "r1", Data: map[string]interface{}{"listingId": "l1", "reason": "spam"}},
	})
	c := &listsvc.Catalog{
		Source:        m,
		Query:         feed.Query{Collection: "listings"},
		IncludeHidden: true,
	}
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)

	svc := &modsvc.Service{
		Catalog: c,
		Source:  m,
		Writer:  &modsvc.DocumentWriter{Store: m, Collection: "listings"},
		Audit:   &modsvc.GormAuditLog{DB: db},
	}
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if identity != nil {
			middleware.SetIdentity(c, identity)
		}
		return c.Next()
	})
	app.Get("/admin/listings", h.Listings)
	app.Patch("/admin/listings/:id/hidden", h.SetHidden)
	app.Patch("/admin/listings/:id/status", h.SetStatus)
	app.Patch("/admin/listings/:id/featured", h.SetFeatured)
	app.Get("/admin/reports", h.Reports)
	app.Get("/admin/notifications", h.Notifications)
	app.Get("/admin/users", h.Users)
	app.Get("/admin/logs", h.Logs)
	return app, svc
}

func call(t *testing.T, app *fiber.App, method, target string, payload interface{}) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, target, nil)
	if payload != nil {
		b, _ := json.Marshal(payload)
		req = httptest.NewRequest(method, target, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

var admin = &domain.Identity{UID: "admin-1", Admin: true}

func TestListings_IncludesHidden(t *testing.T) {
	app, _ := setupModerationTest(t, admin)

	code, body := call(t, app, "GET", "/admin/listings", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 2)

	_, body = call(t, app, "GET", "/admin/listings?hidden=only", nil)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "l2", data[0].(map[string]interface{})["id"])

	code, _ = call(t, app, "GET", "/admin/listings?hidden=maybe", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestSetHiddenAndLogs(t *testing.T) {
	app, _ := setupModerationTest(t, admin)

	code, _ := call(t, app, "PATCH", "/admin/listings/l1/hidden", map[string]bool{"hidden": true})
	require.Equal(t, fiber.StatusOK, code)

	code, body := call(t, app, "GET", "/admin/logs?listingId=l1", nil)
	require.Equal(t, fiber.StatusOK, code)
	logs := body["data"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActionHide, logs[0].(map[string]interface{})["action"])

	code, _ = call(t, app, "PATCH", "/admin/listings/l1/hidden", map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = call(t, app, "GET", "/admin/logs?limit=-1", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestSetStatusAndFeatured(t *testing.T) {
	app, svc := setupModerationTest(t, admin)

	code, _ := call(t, app, "PATCH", "/admin/listings/l1/status", map[string]string{"status": "reserved"})
	require.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, "PATCH", "/admin/listings/l1/status", map[string]string{"status": "gone"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = call(t, app, "PATCH", "/admin/listings/l2/featured", map[string]bool{"featured": true})
	require.Equal(t, fiber.StatusOK, code)

	ls, err := svc.Listings(context.Background(), modsvc.ViewFilter{Listings: listsvc.DefaultFilterState()})
	require.NoError(t, err)
	byID := map[string]domain.Listing{}
	for _, l := range ls {
		byID[l.ID] = l
	}
	assert.Equal(t, domain.StatusReserved, byID["l1"].Status)
	assert.True(t, byID["l2"].Featured)

	code, _ = call(t, app, "PATCH", "/admin/listings/nope/featured", map[string]bool{"featured": true})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestActionsRequireActor(t *testing.T) {
	app, _ := setupModerationTest(t, nil)
	code, _ := call(t, app, "PATCH", "/admin/listings/l1/hidden", map[string]bool{"hidden": true})
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestInboxes(t *testing.T) {
	app, _ := setupModerationTest(t, admin)

	code, body := call(t, app, "GET", "/admin/reports?status=open", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 1)
	assert.Equal(t, float64(1), body["metadata"].(map[string]interface{})["total"])

	code, body = call(t, app, "GET", "/admin/notifications?unread=true", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, body["data"])

	code, _ = call(t, app, "GET", "/admin/users", nil)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestListings_PageOutOfRange(t *testing.T) {
	app, _ := setupModerationTest(t, admin)
	code, _ := call(t, app, "GET", "/admin/listings?page=9223372036854775807", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
