package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is static reference data for the inventory ledger.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index:idx_warehouses_region_name,unique;not null"`
	RegionID  uuid.UUID `gorm:"type:uuid;index:idx_warehouses_region_name,unique;not null"`
	Address   string
	Latitude  *float64
	Longitude *float64
	Note      string
	Active    bool `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Region *Region `gorm:"foreignKey:RegionID"`
}
