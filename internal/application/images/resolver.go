package images

import (
	"strings"

	"vinemarket-backend/internal/domain"
)

// Context is where an image is displayed.
type Context string

const (
	ContextCard       Context = "card"
	ContextThumb      Context = "thumb"
	ContextDetail     Context = "detail"
	ContextGrid       Context = "grid"
	ContextFullscreen Context = "fullscreen"
)

// Contexts lists every display context.
var Contexts = []Context{ContextCard, ContextThumb, ContextDetail, ContextGrid, ContextFullscreen}

// ParseContext reports whether s names a display context.
func ParseContext(s string) (Context, bool) {
	c := Context(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Contexts {
		if c == known {
			return c, true
		}
	}
	return "", false
}

const (
	cardSize   = 200
	detailSize = 400
	largeWidth = 600
	lowWidth   = 80
)

// Resolution is the URL to load first and the one to try once if it fails.
// Fallback is empty when there is nothing to fall back to.
type Resolution struct {
	Primary  string
	Fallback string
}

// Progressive is a low/high pair for blur-up loading.
type Progressive struct {
	Low  string
	High string
}

// photoField probes one named photo field.
type photoField struct {
	name string
	get  func(p domain.PhotoSet) string
}

// originalFields is the fixed priority of full-size photo fields. First hit wins.
var originalFields = []photoField{
	{"photoUrls", func(p domain.PhotoSet) string { return first(p.PhotoURLs) }},
	{"imageUrl", func(p domain.PhotoSet) string { return p.ImageURL }},
	{"image", func(p domain.PhotoSet) string { return p.Image }},
	{"thumbnail", func(p domain.PhotoSet) string { return p.Thumbnail }},
	{"photos", func(p domain.PhotoSet) string { return first(p.Photos) }},
}

var smallFields = []photoField{
	{"photoUrls200", func(p domain.PhotoSet) string { return first(p.PhotoURLs200) }},
	{"image200", func(p domain.PhotoSet) string { return p.Image200 }},
}

var mediumFields = []photoField{
	{"photoUrls400", func(p domain.PhotoSet) string { return first(p.PhotoURLs400) }},
	{"image400", func(p domain.PhotoSet) string { return p.Image400 }},
}

func probe(fields []photoField, p domain.PhotoSet) string {
	for _, f := range fields {
		if u := strings.TrimSpace(f.get(p)); u != "" {
			return u
		}
	}
	return ""
}

// OriginalField returns the name of the field the original URL was read from.
func OriginalField(p domain.PhotoSet) string {
	for _, f := range originalFields {
		if strings.TrimSpace(f.get(p)) != "" {
			return f.name
		}
	}
	return ""
}

// Resolver picks image URLs for listings. It is a pure function of its
// configuration and the listing.
type Resolver struct {
	Storage *Storage
	Proxy   *Proxy
}

func NewResolver(storageHosts []string, proxyBaseURL string) *Resolver {
	return &Resolver{
		Storage: NewStorage(storageHosts),
		Proxy:   NewProxy(proxyBaseURL),
	}
}

// Original is the full-size URL. Records that only carry pre-sized variants
// fall back to the largest of those.
func (r *Resolver) Original(l domain.Listing) string {
	if u := probe(originalFields, l.Photos); u != "" {
		return u
	}
	if u := probe(mediumFields, l.Photos); u != "" {
		return u
	}
	return probe(smallFields, l.Photos)
}

// Resolve returns the URL pair for ctx. ok is false when the listing has no photo.
func (r *Resolver) Resolve(l domain.Listing, ctx Context) (Resolution, bool) {
	orig := r.Original(l)
	if orig == "" {
		return Resolution{}, false
	}
	switch ctx {
	case ContextFullscreen:
		return Resolution{Primary: orig}, true
	case ContextDetail, ContextGrid:
		return r.detail(l, orig), true
	default:
		return r.card(l, orig), true
	}
}

func (r *Resolver) card(l domain.Listing, orig string) Resolution {
	if small := probe(smallFields, l.Photos); small != "" {
		return withFallback(small, orig)
	}
	if thumb, ok := r.Storage.Thumbnail(orig, cardSize); ok {
		return withFallback(thumb, r.Proxy.URL(orig, cardSize, cardSize, FitCover))
	}
	return withFallback(r.Proxy.URL(orig, cardSize, cardSize, FitCover), orig)
}

func (r *Resolver) detail(l domain.Listing, orig string) Resolution {
	primary := r.Proxy.URL(orig, largeWidth, 0, FitInside)
	if medium := probe(mediumFields, l.Photos); medium != "" {
		return withFallback(primary, medium)
	}
	if thumb, ok := r.Storage.Thumbnail(orig, detailSize); ok {
		return withFallback(primary, thumb)
	}
	return withFallback(primary, orig)
}

// medium is the best 400px candidate: a stored variant, a storage thumbnail or a proxy request.
func (r *Resolver) medium(l domain.Listing, orig string) string {
	if medium := probe(mediumFields, l.Photos); medium != "" {
		return medium
	}
	if thumb, ok := r.Storage.Thumbnail(orig, detailSize); ok {
		return thumb
	}
	return r.Proxy.URL(orig, detailSize, detailSize, FitCover)
}

// Progressive returns a low/high pair for ctx when both resolve and differ.
// A proxy-sized low image is replaced by an 80px proxy request.
func (r *Resolver) Progressive(l domain.Listing, ctx Context) (Progressive, bool) {
	orig := r.Original(l)
	if orig == "" {
		return Progressive{}, false
	}
	var low, high string
	switch ctx {
	case ContextFullscreen:
		low, high = r.medium(l, orig), orig
	case ContextDetail, ContextGrid:
		low, high = r.card(l, orig).Primary, r.detail(l, orig).Primary
	default:
		low, high = r.card(l, orig).Primary, r.medium(l, orig)
	}
	if r.Proxy.Owns(low) {
		low = r.Proxy.URL(orig, lowWidth, 0, FitCover)
	}
	if low == "" || high == "" || low == high {
		return Progressive{}, false
	}
	return Progressive{Low: low, High: high}, true
}

func withFallback(primary, fallback string) Resolution {
	if fallback == primary {
		fallback = ""
	}
	return Resolution{Primary: primary, Fallback: fallback}
}

func first(ss []string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
