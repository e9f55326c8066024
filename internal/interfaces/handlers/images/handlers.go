package images

import (
	"errors"

	imgsvc "vinemarket-backend/internal/application/images"
	listsvc "vinemarket-backend/internal/application/listings"
	"vinemarket-backend/internal/pkg/response"
	"vinemarket-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service  *imgsvc.Service
	Listings *listsvc.Service
}

type loadedBody struct {
	URL string `json:"url" validate:"required,url"`
}

type failedBody struct {
	ListingID string `json:"listingId" validate:"required"`
	Context   string `json:"context" validate:"required,oneof=card thumb detail grid fullscreen"`
	URL       string `json:"url" validate:"required"`
}

// POST /api/v1/images/loaded
func (h *Handlers) MarkLoaded(c *fiber.Ctx) error {
	var body loadedBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	if details := validation.Struct(body); details != nil {
		return response.BadRequest(c, "Invalid request body", details)
	}
	if err := h.Service.MarkLoaded(c.UserContext(), body.URL); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Image marked as loaded", fiber.Map{"url": body.URL}, nil)
}

// GET /api/v1/images/loaded?url=a&url=b
func (h *Handlers) Loaded(c *fiber.Ctx) error {
	var urls []string
	for _, v := range c.Context().QueryArgs().PeekMulti("url") {
		if s := string(v); s != "" {
			urls = append(urls, s)
		}
	}
	if len(urls) == 0 {
		return response.BadRequest(c, "url is required", nil)
	}
	out := make(map[string]bool, len(urls))
	if h.Service.Loaded != nil {
		hits, err := h.Service.Loaded.Loaded(c.UserContext(), urls...)
		if err != nil {
			return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
		}
		out = hits
	} else {
		for _, u := range urls {
			out[u] = false
		}
	}
	return response.Success(c, "Loaded state fetched successfully", out, nil)
}

// POST /api/v1/images/failed tells the client what to show after url failed.
func (h *Handlers) Failed(c *fiber.Ctx) error {
	var body failedBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	if details := validation.Struct(body); details != nil {
		return response.BadRequest(c, "Invalid request body", details)
	}
	l, err := h.Listings.Get(c.UserContext(), body.ListingID)
	if err != nil {
		if errors.Is(err, listsvc.ErrListingNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	ictx, _ := imgsvc.ParseContext(body.Context)
	return response.Success(c, "Fallback resolved", h.Service.AfterFailure(*l, ictx, body.URL), nil)
}
