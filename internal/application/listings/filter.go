package listings

import (
	"math"
	"strconv"
	"strings"

	"vinemarket-backend/internal/domain"

	"golang.org/x/text/cases"
)

// CategoryAll disables the category predicate.
const CategoryAll = "all"

// FilterState is everything the visitor can change on the listing page.
// Range bounds are kept as typed text and parsed on every derivation.
type FilterState struct {
	Search        string
	Category      string
	Region        string
	Village       string
	MinPrice      string
	MaxPrice      string
	MinSugar      string
	MaxSugar      string
	FavoritesOnly bool
	Sort          SortKey

	// UserID is the authenticated visitor, empty for guests. Favorites-only
	// applies only when it is set.
	UserID    string
	Favorites map[string]struct{}
}

// DefaultFilterState matches a freshly opened listing page.
func DefaultFilterState() FilterState {
	return FilterState{Category: CategoryAll, Sort: SortNewest}
}

// Reset clears every filter but keeps the visitor identity.
func (s FilterState) Reset() FilterState {
	d := DefaultFilterState()
	d.UserID = s.UserID
	d.Favorites = s.Favorites
	return d
}

// ParseBound reads a free-text numeric bound. A comma decimal separator is
// accepted. Empty, unparsable, non-finite and negative input yields ok=false,
// which means the bound is not applied.
func ParseBound(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

type predicate func(l *domain.Listing) bool

// predicates compiles s into the AND-list of active filters.
func (s FilterState) predicates() []predicate {
	fold := cases.Fold()
	var ps []predicate

	if q := strings.TrimSpace(s.Search); q != "" {
		needle := fold.String(q)
		ps = append(ps, func(l *domain.Listing) bool {
			for _, f := range []string{l.Variety, l.Title, l.Description, l.Region, l.Village, l.Notes} {
				if f != "" && strings.Contains(fold.String(f), needle) {
					return true
				}
			}
			return false
		})
	}

	if c := strings.TrimSpace(s.Category); c != "" && c != CategoryAll {
		ps = append(ps, func(l *domain.Listing) bool { return string(l.Category) == c })
	}

	if r := strings.TrimSpace(s.Region); r != "" {
		want := fold.String(r)
		ps = append(ps, func(l *domain.Listing) bool { return fold.String(strings.TrimSpace(l.Region)) == want })
	}
	if v := strings.TrimSpace(s.Village); v != "" {
		want := fold.String(v)
		ps = append(ps, func(l *domain.Listing) bool { return fold.String(strings.TrimSpace(l.Village)) == want })
	}

	ps = append(ps, rangePredicates(s.MinPrice, s.MaxPrice, domain.Listing.PriceValue)...)
	ps = append(ps, rangePredicates(s.MinSugar, s.MaxSugar, domain.Listing.SugarValue)...)

	if s.FavoritesOnly && s.UserID != "" {
		favs := s.Favorites
		ps = append(ps, func(l *domain.Listing) bool {
			_, ok := favs[l.ID]
			return ok
		})
	}
	return ps
}

// rangePredicates treats a value of 0 as "not specified": it never passes an
// upper bound and never fails a lower one.
func rangePredicates(minText, maxText string, value func(domain.Listing) float64) []predicate {
	var ps []predicate
	if min, ok := ParseBound(minText); ok {
		ps = append(ps, func(l *domain.Listing) bool {
			v := value(*l)
			return v <= 0 || v >= min
		})
	}
	if max, ok := ParseBound(maxText); ok {
		ps = append(ps, func(l *domain.Listing) bool {
			v := value(*l)
			return v > 0 && v <= max
		})
	}
	return ps
}

// DeriveVisibleListings filters all by s and orders the result by s.Sort.
// It never mutates all and always returns a non-nil slice.
func DeriveVisibleListings(all []domain.Listing, s FilterState) []domain.Listing {
	ps := s.predicates()
	out := make([]domain.Listing, 0, len(all))
next:
	for i := range all {
		for _, p := range ps {
			if !p(&all[i]) {
				continue next
			}
		}
		out = append(out, all[i])
	}
	SortListings(out, s.Sort)
	return out
}
