package listings

import (
	"errors"

	imgsvc "vinemarket-backend/internal/application/images"
	listsvc "vinemarket-backend/internal/application/listings"
	"vinemarket-backend/internal/domain"
	"vinemarket-backend/internal/middleware"
	"vinemarket-backend/internal/pkg/response"
	"vinemarket-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
	Images  *imgsvc.Service
}

// BrowseQuery is the query string of GET /api/v1/listings. Range bounds stay
// text; unparsable bounds are ignored rather than rejected.
type BrowseQuery struct {
	Q         string `query:"q" validate:"max=200"`
	Category  string `query:"category"`
	Region    string `query:"region"`
	Village   string `query:"village"`
	MinPrice  string `query:"minPrice"`
	MaxPrice  string `query:"maxPrice"`
	MinSugar  string `query:"minSugar"`
	MaxSugar  string `query:"maxSugar"`
	Favorites bool   `query:"favorites"`
	Sort      string `query:"sort"`
	Page      int    `query:"page" validate:"min=0,max=100000"`
	Limit     int    `query:"limit" validate:"min=0,max=100"`
	Image     string `query:"image" validate:"omitempty,oneof=card thumb detail grid fullscreen"`
}

// FilterState maps the query onto the engine's filter state for userID.
func (q BrowseQuery) FilterState(userID string) listsvc.FilterState {
	s := listsvc.DefaultFilterState()
	s.Search = q.Q
	if q.Category != "" {
		s.Category = q.Category
	}
	s.Region = q.Region
	s.Village = q.Village
	s.MinPrice, s.MaxPrice = q.MinPrice, q.MaxPrice
	s.MinSugar, s.MaxSugar = q.MinSugar, q.MaxSugar
	s.FavoritesOnly = q.Favorites
	s.Sort = listsvc.ParseSortKey(q.Sort)
	s.UserID = userID
	return s
}

// ListingView is a listing as served to clients.
type ListingView struct {
	domain.Listing
	EffectiveStatus domain.Status                  `json:"effectiveStatus"`
	DaysLeft        int                            `json:"daysLeft"`
	ExpiresAt       *int64                         `json:"expiresAt"`
	PriceLabel      string                         `json:"priceLabel,omitempty"`
	Image           *imgsvc.View                   `json:"image,omitempty"`
	Images          map[imgsvc.Context]imgsvc.View `json:"images,omitempty"`
}

// GET /api/v1/listings
func (h *Handlers) Browse(c *fiber.Ctx) error {
	var q BrowseQuery
	if err := c.QueryParser(&q); err != nil {
		return response.BadRequest(c, "Invalid query parameters", nil)
	}
	if details := validation.Struct(q); details != nil {
		return response.BadRequest(c, "Invalid query parameters", details)
	}

	locale := middleware.GetLocale(c)
	userID := ""
	if id := middleware.GetIdentity(c); id != nil {
		userID = id.UID
	}
	if q.Favorites && userID == "" {
		return response.Unauthorized(c, domain.Localize(locale, domain.MsgLoginRequired))
	}

	res, err := h.Service.Browse(c.UserContext(), q.FilterState(userID), q.Page, q.Limit)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}

	ctxName := imgsvc.ContextCard
	if ic, ok := imgsvc.ParseContext(q.Image); ok {
		ctxName = ic
	}
	var views map[string]imgsvc.View
	if h.Images != nil {
		views = h.Images.Views(c.UserContext(), res.Listings, ctxName)
	}

	out := make([]ListingView, 0, len(res.Listings))
	for _, l := range res.Listings {
		v := h.view(l, locale)
		if iv, ok := views[l.ID]; ok {
			v.Image = &iv
		}
		out = append(out, v)
	}

	message := "Listings fetched successfully"
	if res.FeedErr != nil {
		message = domain.Localize(locale, domain.MsgFeedError)
	}
	return response.Success(c, message, out, res.Meta)
}

// GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	locale := middleware.GetLocale(c)
	l, err := h.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, listsvc.ErrListingNotFound) || errors.Is(err, listsvc.ErrListingIDMissing) {
			return response.NotFound(c, domain.Localize(locale, domain.MsgListingNotFound))
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	v := h.view(*l, locale)
	if h.Images != nil {
		v.Images = h.Images.AllViews(c.UserContext(), *l)
	}
	return response.Success(c, "Listing fetched successfully", v, nil)
}

func (h *Handlers) view(l domain.Listing, locale string) ListingView {
	now, ttl := h.Service.Clock(), h.Service.Lifetime()
	if l.Variety == "" && l.Title == "" {
		l.Name = domain.Localize(locale, domain.MsgUnknownVariety)
	}
	v := ListingView{
		Listing:         l,
		EffectiveStatus: l.EffectiveStatus(now, ttl),
		DaysLeft:        l.DaysLeft(now, ttl),
	}
	if exp := l.ExpiresAt(ttl); !exp.IsZero() {
		ms := exp.UnixMilli()
		v.ExpiresAt = &ms
	}
	if l.ByAgreement() {
		v.PriceLabel = domain.Localize(locale, domain.MsgPriceByAgreement)
	}
	return v
}
