package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is a user complaint about a listing.
type Report struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	ReporterID string    `json:"reporterId,omitempty"`
	Reason     string    `json:"reason"`
	Comment    string    `json:"comment,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserProfile is the public part of an account.
type UserProfile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Region      string    `json:"region,omitempty"`
	Banned      bool      `json:"banned"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdminNotification is an item in the moderators' inbox.
type AdminNotification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ListingID string    `json:"listingId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Admin log actions.
const (
	ActionHide      = "HIDE"
	ActionUnhide    = "UNHIDE"
	ActionStatus    = "STATUS_CHANGE"
	ActionFeature   = "FEATURE"
	ActionUnfeature = "UNFEATURE"
)

// AdminLog records one moderator action.
type AdminLog struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ActorID   string         `gorm:"column:actor_id;not null;index" json:"actorId"`
	Action    string         `gorm:"column:action;type:varchar(32);not null" json:"action"`
	ListingID string         `gorm:"column:listing_id;index" json:"listingId"`
	Details   datatypes.JSON `gorm:"column:details" json:"details"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (AdminLog) TableName() string {
	return "AdminLogs"
}

// BeforeCreate sets id if not already set.
func (a *AdminLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
