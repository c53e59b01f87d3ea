package model

import (
	"time"

	"github.com/google/uuid"
)

// UserLocation is the single latest known position per user, always
// overwritten on every accepted telemetry sample. At most one row per user.
type UserLocation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Latitude  *float64
	Longitude *float64
	IsOnline  bool      `gorm:"not null;default:false"`
	LastSeen  time.Time `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
}

func (UserLocation) TableName() string { return "user_locations" }

// LocationHistory is the deduplicated, append-only movement trail.
// A row is only written when the new sample is at least 20 m away from the
// previous history entry (or when no previous entry exists). Rows older
// than the retention window are purged by the cleanup sweep.
type LocationHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_location_history_user_ts"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	Timestamp time.Time `gorm:"not null;index:idx_location_history_user_ts;index"`

	User *User `gorm:"foreignKey:UserID"`
}

func (LocationHistory) TableName() string { return "location_history" }
