package moderation

import (
	"vinemarket-backend/internal/application/feed"
	"vinemarket-backend/internal/domain"
)

// Collections read by the moderation console.
const (
	ReportsCollection       = "reports"
	NotificationsCollection = "adminNotifications"
	UsersCollection         = "users"
)

func normalizeReport(doc feed.Document) domain.Report {
	d := doc.Data
	r := domain.Report{
		ID:         doc.ID,
		ListingID:  feed.String(d["listingId"]),
		ReporterID: feed.String(d["reporterId"]),
		Reason:     feed.String(d["reason"]),
		Comment:    feed.String(d["comment"]),
		Status:     feed.String(d["status"]),
	}
	if r.ReporterID == "" {
		r.ReporterID = feed.String(d["userId"])
	}
	if r.Status == "" {
		r.Status = "open"
	}
	r.CreatedAt, _ = feed.Time(d["createdAt"])
	return r
}

func normalizeNotification(doc feed.Document) domain.AdminNotification {
	d := doc.Data
	n := domain.AdminNotification{
		ID:        doc.ID,
		Type:      feed.String(d["type"]),
		Message:   feed.String(d["message"]),
		ListingID: feed.String(d["listingId"]),
		UserID:    feed.String(d["userId"]),
		Read:      feed.Bool(d["read"]),
	}
	n.CreatedAt, _ = feed.Time(d["createdAt"])
	return n
}

func normalizeUser(doc feed.Document) domain.UserProfile {
	d := doc.Data
	u := domain.UserProfile{
		ID:          doc.ID,
		DisplayName: feed.String(d["displayName"]),
		Email:       feed.String(d["email"]),
		Phone:       feed.String(d["phone"]),
		Region:      feed.String(d["region"]),
		Banned:      feed.Bool(d["banned"]),
	}
	if u.DisplayName == "" {
		u.DisplayName = feed.String(d["name"])
	}
	u.CreatedAt, _ = feed.Time(d["createdAt"])
	return u
}
