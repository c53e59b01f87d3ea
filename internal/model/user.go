package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles, ordered by privilege.
const (
	RoleOperator   = "operator"
	RoleDispatcher = "dispatcher"
	RoleAdmin      = "admin"
)

// User is an operations employee (field technician, dispatcher or admin).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'operator'"` // "operator" | "dispatcher" | "admin"
	RegionID     *uuid.UUID
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Region *Region `gorm:"foreignKey:RegionID"`
}

func (User) TableName() string { return "users" }
