package listings

import (
	"math"

	"vinemarket-backend/internal/domain"
)

const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// MaxPage bounds the page number accepted from query strings.
const MaxPage = 100000

// PageMeta describes one page of a derived listing set.
type PageMeta struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Paginate slices ls to the requested 1-based page. Out-of-range pages are empty.
func Paginate(ls []domain.Listing, page, limit int) ([]domain.Listing, PageMeta) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	total := len(ls)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	meta := PageMeta{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      total,
		ItemsPerPage:    limit,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
	if page > totalPages {
		return []domain.Listing{}, meta
	}
	start := (page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}
	return ls[start:end], meta
}
