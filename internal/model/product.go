package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit of measure values accepted for Product.Unit.
const (
	UnitPcs  = "pcs"
	UnitKg   = "kg"
	UnitG    = "g"
	UnitL    = "l"
	UnitMl   = "ml"
	UnitM    = "m"
	UnitCm   = "cm"
	UnitMm   = "mm"
	UnitBox  = "box"
	UnitPack = "pack"
	UnitSet  = "set"
	UnitBag  = "bag"
	UnitTon  = "ton"
)

// Product is a stock-keeping item. MinQuantity/MaxQuantity drive low/over
// stock alerting; they are thresholds, not hard limits.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	Description  string
	Unit         string `gorm:"not null;default:'pcs'"`
	Brand        string
	Model        string
	SerialNumber string
	Price        decimal.Decimal  `gorm:"type:decimal(18,3);default:0"`
	MinQuantity  *decimal.Decimal `gorm:"type:decimal(18,3)"`
	MaxQuantity  *decimal.Decimal `gorm:"type:decimal(18,3)"`
	Note         string
	Active       bool `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
