package model

import (
	"time"

	"github.com/google/uuid"
)

// Region groups warehouses and field crews geographically.
type Region struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}
