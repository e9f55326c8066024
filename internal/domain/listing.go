package domain

import (
	"math"
	"strings"
	"time"
)

// Category is the closed set of marketplace sections.
type Category string

const (
	CategoryGrapes    Category = "grapes"
	CategoryWine      Category = "wine"
	CategoryNobati    Category = "nobati"
	CategoryInventory Category = "inventory"
	CategorySeedlings Category = "seedlings"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryGrapes, CategoryWine, CategoryNobati, CategoryInventory, CategorySeedlings}

// ParseCategory maps a raw value to a Category. Absent or unknown values read as grapes.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryGrapes
}

// Status drives the visual treatment of a listing and its expiry countdown.
type Status string

const (
	StatusActive   Status = "active"
	StatusReserved Status = "reserved"
	StatusSold     Status = "sold"
	StatusExpired  Status = "expired"
	StatusRemoved  Status = "removed"
)

var statuses = []Status{StatusActive, StatusReserved, StatusSold, StatusExpired, StatusRemoved}

// ParseStatus maps a raw value to a Status. Absent or unknown values read as active.
func ParseStatus(s string) Status {
	st, ok := LookupStatus(s)
	if !ok {
		return StatusActive
	}
	return st
}

// LookupStatus reports whether s names a known status.
func LookupStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// DefaultListingTTL is how long a listing stays active after creation.
const DefaultListingTTL = 30 * 24 * time.Hour

// PhotoSet holds every field name a listing's photos have been stored under.
// At most one logical set is populated per listing.
type PhotoSet struct {
	PhotoURLs    []string `json:"photoUrls,omitempty"`
	PhotoURLs200 []string `json:"photoUrls200,omitempty"`
	PhotoURLs400 []string `json:"photoUrls400,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Image        string   `json:"image,omitempty"`
	Image200     string   `json:"image200,omitempty"`
	Image400     string   `json:"image400,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
}

// Empty reports whether no photo field is populated.
func (p PhotoSet) Empty() bool {
	return len(p.PhotoURLs) == 0 && len(p.PhotoURLs200) == 0 && len(p.PhotoURLs400) == 0 &&
		p.ImageURL == "" && p.Image == "" && p.Image200 == "" && p.Image400 == "" &&
		len(p.Photos) == 0 && p.Thumbnail == ""
}

// Listing is the canonical in-memory shape every consumer reads.
// Optional numbers are nil when the source record did not carry a number.
type Listing struct {
	ID              string    `json:"id"`
	Category        Category  `json:"category"`
	Name            string    `json:"name"`
	Variety         string    `json:"variety,omitempty"`
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Quantity        *float64  `json:"quantity,omitempty"`
	Unit            string    `json:"unit,omitempty"`
	Region          string    `json:"region,omitempty"`
	Village         string    `json:"village,omitempty"`
	SugarBrix       *float64  `json:"sugarBrix,omitempty"`
	VintageYear     *int      `json:"vintageYear,omitempty"`
	Photos          PhotoSet  `json:"photos"`
	Status          Status    `json:"status"`
	Hidden          bool      `json:"hidden"`
	FlaggedBySystem bool      `json:"flaggedBySystem"`
	Featured        bool      `json:"featured"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
	UserID          string    `json:"userId,omitempty"`
}

// PriceValue returns the price with absent read as 0.
func (l Listing) PriceValue() float64 { return deref(l.Price) }

// SugarValue returns the Brix reading with absent read as 0.
func (l Listing) SugarValue() float64 { return deref(l.SugarBrix) }

// VintageValue returns the vintage year with absent read as 0.
func (l Listing) VintageValue() int {
	if l.VintageYear == nil {
		return 0
	}
	return *l.VintageYear
}

// ByAgreement reports whether the price is absent or the zero sentinel.
func (l Listing) ByAgreement() bool { return l.PriceValue() <= 0 }

// CreatedMillis is the creation instant in epoch milliseconds; a missing timestamp is 0.
func (l Listing) CreatedMillis() int64 {
	if l.CreatedAt.IsZero() {
		return 0
	}
	return l.CreatedAt.UnixMilli()
}

// ExpiresAt is CreatedAt+ttl. Zero when the creation time is unknown.
func (l Listing) ExpiresAt(ttl time.Duration) time.Time {
	if l.CreatedAt.IsZero() {
		return time.Time{}
	}
	return l.CreatedAt.Add(ttl)
}

// IsExpired reports whether an active listing has outlived ttl.
func (l Listing) IsExpired(now time.Time, ttl time.Duration) bool {
	exp := l.ExpiresAt(ttl)
	return !exp.IsZero() && !now.Before(exp)
}

// DaysLeft rounds the remaining lifetime up to whole days, never below zero.
// Listings with an unknown creation time report -1.
func (l Listing) DaysLeft(now time.Time, ttl time.Duration) int {
	exp := l.ExpiresAt(ttl)
	if exp.IsZero() {
		return -1
	}
	left := exp.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// EffectiveStatus is the stored status with expiry applied to active listings.
func (l Listing) EffectiveStatus(now time.Time, ttl time.Duration) Status {
	if l.Status == StatusActive && l.IsExpired(now, ttl) {
		return StatusExpired
	}
	return l.Status
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
