package moderation

import (
	"errors"
	"strconv"

	listsvc "vinemarket-backend/internal/application/listings"
	modsvc "vinemarket-backend/internal/application/moderation"
	"vinemarket-backend/internal/middleware"
	"vinemarket-backend/internal/pkg/response"
	"vinemarket-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *modsvc.Service
}

type listingsQuery struct {
	Q        string `query:"q"`
	Category string `query:"category"`
	Region   string `query:"region"`
	Village  string `query:"village"`
	Sort     string `query:"sort"`
	Hidden   string `query:"hidden" validate:"omitempty,oneof=all only exclude"`
	Flagged  bool   `query:"flagged"`
	Page     int    `query:"page" validate:"min=0,max=100000"`
	Limit    int    `query:"limit" validate:"min=0,max=100"`
}

type hiddenBody struct {
	Hidden *bool `json:"hidden" validate:"required"`
}

type statusBody struct {
	Status string `json:"status" validate:"required,oneof=active reserved sold expired removed"`
}

type featuredBody struct {
	Featured *bool `json:"featured" validate:"required"`
}

// GET /api/v1/admin/listings
func (h *Handlers) Listings(c *fiber.Ctx) error {
	var q listingsQuery
	if err := c.QueryParser(&q); err != nil {
		return response.BadRequest(c, "Invalid query parameters", nil)
	}
	if details := validation.Struct(q); details != nil {
		return response.BadRequest(c, "Invalid query parameters", details)
	}
	state := listsvc.DefaultFilterState()
	state.Search, state.Region, state.Village = q.Q, q.Region, q.Village
	if q.Category != "" {
		state.Category = q.Category
	}
	state.Sort = listsvc.ParseSortKey(q.Sort)

	ls, err := h.Service.Listings(c.UserContext(), modsvc.ViewFilter{Listings: state, Hidden: q.Hidden, FlaggedOnly: q.Flagged})
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
	}
	items, meta := listsvc.Paginate(ls, q.Page, q.Limit)
	return response.Success(c, "Listings fetched successfully", items, meta)
}

// PATCH /api/v1/admin/listings/:id/hidden
func (h *Handlers) SetHidden(c *fiber.Ctx) error {
	var body hiddenBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	if details := validation.Struct(body); details != nil {
		return response.BadRequest(c, "Invalid request body", details)
	}
	if err := h.Service.SetHidden(c.UserContext(), actor(c), c.Params("id"), *body.Hidden); err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Listing visibility updated", fiber.Map{"id": c.Params("id"), "hidden": *body.Hidden}, nil)
}

// PATCH /api/v1/admin/listings/:id/status
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	if details := validation.Struct(body); details != nil {
		return response.BadRequest(c, "Invalid request body", details)
	}
	if err := h.Service.SetStatus(c.UserContext(), actor(c), c.Params("id"), body.Status); err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Listing status updated", fiber.Map{"id": c.Params("id"), "status": body.Status}, nil)
}

// PATCH /api/v1/admin/listings/:id/featured
func (h *Handlers) SetFeatured(c *fiber.Ctx) error {
	var body featuredBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	if details := validation.Struct(body); details != nil {
		return response.BadRequest(c, "Invalid request body", details)
	}
	if err := h.Service.SetFeatured(c.UserContext(), actor(c), c.Params("id"), *body.Featured); err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Listing featured flag updated", fiber.Map{"id": c.Params("id"), "featured": *body.Featured}, nil)
}

// GET /api/v1/admin/reports?status=open
func (h *Handlers) Reports(c *fiber.Ctx) error {
	out, err := h.Service.Reports(c.UserContext(), c.Query("status"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Reports fetched successfully", out, fiber.Map{"total": len(out)})
}

// GET /api/v1/admin/notifications?unread=true
func (h *Handlers) Notifications(c *fiber.Ctx) error {
	out, err := h.Service.Notifications(c.UserContext(), c.QueryBool("unread"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notifications fetched successfully", out, fiber.Map{"total": len(out)})
}

// GET /api/v1/admin/users
func (h *Handlers) Users(c *fiber.Ctx) error {
	out, err := h.Service.Users(c.UserContext())
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Users fetched successfully", out, fiber.Map{"total": len(out)})
}

// GET /api/v1/admin/logs?listingId=&limit=
func (h *Handlers) Logs(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 0 {
		return response.BadRequest(c, "limit must be a non-negative integer", nil)
	}
	out, err := h.Service.Logs(c.UserContext(), c.Query("listingId"), limit)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Admin logs fetched successfully", out, fiber.Map{"total": len(out)})
}

func actor(c *fiber.Ctx) string {
	if id := middleware.GetIdentity(c); id != nil {
		return id.UID
	}
	return ""
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, modsvc.ErrListingNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, modsvc.ErrInvalidStatus):
		return response.BadRequest(c, err.Error(), nil)
	case errors.Is(err, modsvc.ErrActorRequired):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, modsvc.ErrReadOnly):
		return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
