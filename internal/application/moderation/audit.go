package moderation

import (
	"context"
	"fmt"

	"vinemarket-backend/internal/domain"

	"gorm.io/gorm"
)

// AuditLog persists moderator actions.
type AuditLog interface {
	Append(ctx context.Context, entry *domain.AdminLog) error
	Recent(ctx context.Context, listingID string, limit int) ([]domain.AdminLog, error)
}

// GormAuditLog stores AdminLog rows through GORM.
type GormAuditLog struct {
	DB *gorm.DB
}

func (g *GormAuditLog) Append(ctx context.Context, entry *domain.AdminLog) error {
	if err := g.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("Failed to write admin log: %w", err)
	}
	return nil
}

// Recent returns the newest entries first, optionally for one listing.
func (g *GormAuditLog) Recent(ctx context.Context, listingID string, limit int) ([]domain.AdminLog, error) {
	var logs []domain.AdminLog
	q := g.DB.WithContext(ctx).Order(`"createdAt" DESC`)
	if listingID != "" {
		q = q.Where("listing_id = ?", listingID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch admin logs: %w", err)
	}
	return logs, nil
}
