package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vinemarket-backend/internal/application/feed"
	"vinemarket-backend/internal/application/listings"
	"vinemarket-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

var (
	ErrListingNotFound = errors.New("Listing not found")
	ErrInvalidStatus   = errors.New("Invalid status")
	ErrActorRequired   = errors.New("Moderator identity is required")
	ErrReadOnly        = errors.New("Listing store is read-only")
)

// Hidden filter values for moderation views.
const (
	HiddenAll     = "all"
	HiddenOnly    = "only"
	HiddenExclude = "exclude"
)

// ListingWriter applies moderator changes to the hosted listing store.
type ListingWriter interface {
	SetHidden(ctx context.Context, listingID string, hidden bool) error
	SetStatus(ctx context.Context, listingID string, status domain.Status) error
	SetFeatured(ctx context.Context, listingID string, featured bool) error
}

// ViewFilter narrows the hidden-inclusive catalog for the console.
type ViewFilter struct {
	Listings    listings.FilterState
	Hidden      string
	FlaggedOnly bool
}

type Service struct {
	// Catalog must be built with IncludeHidden.
	Catalog *listings.Catalog
	Source  feed.Source
	Writer  ListingWriter
	Audit   AuditLog
}

// Listings derives the moderation view. Hidden listings are included unless filtered out.
func (s *Service) Listings(ctx context.Context, f ViewFilter) ([]domain.Listing, error) {
	snap := s.Catalog.Snapshot()
	if snap.Err != nil {
		return nil, snap.Err
	}
	pool := make([]domain.Listing, 0, len(snap.Listings))
	for _, l := range snap.Listings {
		switch strings.ToLower(f.Hidden) {
		case HiddenOnly:
			if !l.Hidden {
				continue
			}
		case HiddenExclude:
			if l.Hidden {
				continue
			}
		}
		if f.FlaggedOnly && !l.FlaggedBySystem {
			continue
		}
		pool = append(pool, l)
	}
	return listings.DeriveVisibleListings(pool, f.Listings), nil
}

// SetHidden hides or unhides a listing and records the action.
func (s *Service) SetHidden(ctx context.Context, actorID, listingID string, hidden bool) error {
	if err := s.check(actorID, listingID); err != nil {
		return err
	}
	if err := s.Writer.SetHidden(ctx, listingID, hidden); err != nil {
		return err
	}
	action := domain.ActionUnhide
	if hidden {
		action = domain.ActionHide
	}
	s.record(ctx, actorID, action, listingID, map[string]interface{}{"hidden": hidden})
	return nil
}

// SetStatus changes a listing's lifecycle status and records the action.
func (s *Service) SetStatus(ctx context.Context, actorID, listingID, status string) error {
	st, ok := domain.LookupStatus(status)
	if !ok {
		return ErrInvalidStatus
	}
	if err := s.check(actorID, listingID); err != nil {
		return err
	}
	prev := s.find(listingID).Status
	if err := s.Writer.SetStatus(ctx, listingID, st); err != nil {
		return err
	}
	s.record(ctx, actorID, domain.ActionStatus, listingID, map[string]interface{}{
		"from": prev,
		"to":   st,
	})
	return nil
}

// SetFeatured pins or unpins a listing and records the action.
func (s *Service) SetFeatured(ctx context.Context, actorID, listingID string, featured bool) error {
	if err := s.check(actorID, listingID); err != nil {
		return err
	}
	if err := s.Writer.SetFeatured(ctx, listingID, featured); err != nil {
		return err
	}
	action := domain.ActionUnfeature
	if featured {
		action = domain.ActionFeature
	}
	s.record(ctx, actorID, action, listingID, map[string]interface{}{"featured": featured})
	return nil
}

// Logs returns recent moderator actions.
func (s *Service) Logs(ctx context.Context, listingID string, limit int) ([]domain.AdminLog, error) {
	if s.Audit == nil {
		return []domain.AdminLog{}, nil
	}
	return s.Audit.Recent(ctx, listingID, limit)
}

// Reports returns user reports, newest first, optionally by status.
func (s *Service) Reports(ctx context.Context, status string) ([]domain.Report, error) {
	docs, err := s.Source.Documents(ctx, feed.Query{Collection: ReportsCollection})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch reports: %w", err)
	}
	out := make([]domain.Report, 0, len(docs))
	for _, d := range docs {
		r := normalizeReport(d)
		if status != "" && !strings.EqualFold(r.Status, status) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Notifications returns the moderators' inbox, newest first.
func (s *Service) Notifications(ctx context.Context, unreadOnly bool) ([]domain.AdminNotification, error) {
	docs, err := s.Source.Documents(ctx, feed.Query{Collection: NotificationsCollection})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch notifications: %w", err)
	}
	out := make([]domain.AdminNotification, 0, len(docs))
	for _, d := range docs {
		n := normalizeNotification(d)
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Users returns account profiles, newest first.
func (s *Service) Users(ctx context.Context) ([]domain.UserProfile, error) {
	docs, err := s.Source.Documents(ctx, feed.Query{Collection: UsersCollection})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch users: %w", err)
	}
	out := make([]domain.UserProfile, 0, len(docs))
	for _, d := range docs {
		out = append(out, normalizeUser(d))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) check(actorID, listingID string) error {
	if actorID == "" {
		return ErrActorRequired
	}
	if s.find(listingID) == nil {
		return ErrListingNotFound
	}
	if s.Writer == nil {
		return ErrReadOnly
	}
	return nil
}

func (s *Service) find(listingID string) *domain.Listing {
	if listingID == "" {
		return nil
	}
	snap := s.Catalog.Snapshot()
	for i := range snap.Listings {
		if snap.Listings[i].ID == listingID {
			return &snap.Listings[i]
		}
	}
	return nil
}

// record runs after the listing write has committed, so an audit failure is logged and not returned.
func (s *Service) record(ctx context.Context, actorID, action, listingID string, details map[string]interface{}) {
	log.Info().Str("actor", actorID).Str("action", action).Str("listing_id", listingID).Msg("Moderation action applied")
	if s.Audit == nil {
		return
	}
	b, _ := json.Marshal(details)
	err := s.Audit.Append(ctx, &domain.AdminLog{
		ActorID:   actorID,
		Action:    action,
		ListingID: listingID,
		Details:   datatypes.JSON(b),
	})
	if err != nil {
		log.Error().Err(err).Str("action", action).Str("listing_id", listingID).Msg("Failed to write admin log")
	}
}
