package listings

import (
	"math"

	"vinemarket-backend/internal/application/feed"
	"vinemarket-backend/internal/domain"
)

// Normalizer maps raw feed documents onto the canonical Listing shape.
// Every source field is optional; a document is never rejected.
type Normalizer struct {
	// UnknownName is used when a record has neither variety nor title.
	UnknownName string
}

// Normalize converts one document.
func (n Normalizer) Normalize(doc feed.Document) domain.Listing {
	d := doc.Data
	if d == nil {
		d = map[string]interface{}{}
	}
	id := doc.ID
	if id == "" {
		id = feed.String(d["id"])
	}

	l := domain.Listing{
		ID:              id,
		Category:        domain.ParseCategory(feed.String(d["category"])),
		Variety:         feed.String(d["variety"]),
		Title:           feed.String(d["title"]),
		Description:     feed.String(d["description"]),
		Notes:           feed.String(d["notes"]),
		Price:           feed.NumberPtr(d["price"]),
		Quantity:        feed.NumberPtr(d["quantity"]),
		Unit:            feed.String(d["unit"]),
		Region:          feed.String(d["region"]),
		Village:         feed.String(d["village"]),
		SugarBrix:       feed.NumberPtr(d["sugarBrix"]),
		VintageYear:     intPtr(d["vintageYear"]),
		Photos:          photoSet(d),
		Status:          domain.ParseStatus(feed.String(d["status"])),
		Hidden:          feed.Bool(d["hidden"]),
		FlaggedBySystem: feed.Bool(d["flaggedBySystem"]),
		Featured:        feed.Bool(d["featured"]),
		UserID:          feed.String(d["userId"]),
	}
	if t, ok := feed.Time(d["createdAt"]); ok {
		l.CreatedAt = t
	}
	if t, ok := feed.Time(d["updatedAt"]); ok {
		l.UpdatedAt = t
	}

	switch {
	case l.Variety != "":
		l.Name = l.Variety
	case l.Title != "":
		l.Name = l.Title
	default:
		l.Name = n.UnknownName
	}
	return l
}

// NormalizeAll converts a snapshot, drops hidden listings unless includeHidden,
// and applies the newest-first order once so the first render is stable.
func (n Normalizer) NormalizeAll(docs []feed.Document, includeHidden bool) []domain.Listing {
	out := make([]domain.Listing, 0, len(docs))
	for _, doc := range docs {
		l := n.Normalize(doc)
		if l.Hidden && !includeHidden {
			continue
		}
		out = append(out, l)
	}
	SortListings(out, SortNewest)
	return out
}

func photoSet(d map[string]interface{}) domain.PhotoSet {
	return domain.PhotoSet{
		PhotoURLs:    feed.Strings(d["photoUrls"]),
		PhotoURLs200: feed.Strings(d["photoUrls200"]),
		PhotoURLs400: feed.Strings(d["photoUrls400"]),
		ImageURL:     feed.String(d["imageUrl"]),
		Image:        feed.String(d["image"]),
		Image200:     feed.String(d["image200"]),
		Image400:     feed.String(d["image400"]),
		Photos:       feed.Strings(d["photos"]),
		Thumbnail:    feed.String(d["thumbnail"]),
	}
}

func intPtr(v interface{}) *int {
	f, ok := feed.Number(v)
	if !ok {
		return nil
	}
	i := int(math.Trunc(f))
	return &i
}
