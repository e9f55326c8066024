package listings

import (
	"sort"
	"strings"

	"vinemarket-backend/internal/domain"
)

// SortKey selects the listing comparator.
type SortKey string

const (
	SortNewest      SortKey = "newest"
	SortPriceAsc    SortKey = "price_asc"
	SortPriceDesc   SortKey = "price_desc"
	SortBrixAsc     SortKey = "brix_asc"
	SortBrixDesc    SortKey = "brix_desc"
	SortVintageAsc  SortKey = "vintage_asc"
	SortVintageDesc SortKey = "vintage_desc"
)

// comparators report, per key, whether a sorts strictly before b. Missing values read as 0.
var comparators = map[SortKey]func(a, b *domain.Listing) bool{
	SortNewest:      func(a, b *domain.Listing) bool { return a.CreatedMillis() > b.CreatedMillis() },
	SortPriceAsc:    func(a, b *domain.Listing) bool { return a.PriceValue() < b.PriceValue() },
	SortPriceDesc:   func(a, b *domain.Listing) bool { return a.PriceValue() > b.PriceValue() },
	SortBrixAsc:     func(a, b *domain.Listing) bool { return a.SugarValue() < b.SugarValue() },
	SortBrixDesc:    func(a, b *domain.Listing) bool { return a.SugarValue() > b.SugarValue() },
	SortVintageAsc:  func(a, b *domain.Listing) bool { return a.VintageValue() < b.VintageValue() },
	SortVintageDesc: func(a, b *domain.Listing) bool { return a.VintageValue() > b.VintageValue() },
}

// ParseSortKey returns the matching key, or SortNewest for anything unknown.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := comparators[k]; ok {
		return k
	}
	return SortNewest
}

// SortListings orders ls in place. Equal keys keep their input order.
func SortListings(ls []domain.Listing, key SortKey) {
	less, ok := comparators[key]
	if !ok {
		less = comparators[SortNewest]
	}
	sort.SliceStable(ls, func(i, j int) bool { return less(&ls[i], &ls[j]) })
}
