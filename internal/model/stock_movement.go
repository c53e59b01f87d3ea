package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types. TRANSFER produces two rows: one on the source warehouse
// with ToWarehouseID set, one on the destination with FromWarehouseID set,
// sharing the same reference number.
const (
	MovementIn       = "in"
	MovementOut      = "out"
	MovementTransfer = "transfer"
	MovementAdjust   = "adjust"
	MovementReturn   = "return"
)

// StockMovement is the immutable audit trail of every balance-affecting
// operation. QuantityOld/QuantityNew are full snapshots (not just a delta)
// so an audit can be reconstructed without replaying history.
type StockMovement struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_movements_wh_created"`
	FromWarehouseID *uuid.UUID `gorm:"type:uuid"`
	ToWarehouseID   *uuid.UUID `gorm:"type:uuid"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_movements_product_created"`
	MovementType    string     `gorm:"not null;index"`
	Reason          string
	QuantityOld     decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	QuantityNew     decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	CreatedByID     *uuid.UUID      `gorm:"type:uuid"`
	ReferenceNo     string          `gorm:"index"`
	CreatedAt       time.Time       `gorm:"index:idx_movements_wh_created;index:idx_movements_product_created"`

	Warehouse     *Warehouse `gorm:"foreignKey:WarehouseID"`
	FromWarehouse *Warehouse `gorm:"foreignKey:FromWarehouseID"`
	ToWarehouse   *Warehouse `gorm:"foreignKey:ToWarehouseID"`
	Product       *Product   `gorm:"foreignKey:ProductID"`
	CreatedBy     *User      `gorm:"foreignKey:CreatedByID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
