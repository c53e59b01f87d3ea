package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationGeneral    = "general"
	NotificationTask       = "task"
	NotificationStockAlert = "stock_alert"
)

// Notification is a persisted message for the in-app notification feed.
// Delivery to transports (socket fan-out, alert email) happens through the
// worker dispatcher, never as a save-side-effect.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string    `gorm:"not null"`
	Message   string
	Type      string     `gorm:"not null;default:'general';index"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"` // nil = broadcast to everyone
	TaskID    *uuid.UUID `gorm:"type:uuid"`
	Read      bool       `gorm:"not null;default:false"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID"`
	Task *Task `gorm:"foreignKey:TaskID"`
}
