package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBalance is the materialized stock quantity for one
// (warehouse, product) pair. It is derived state: at any point the quantity
// equals the sum of signed deltas of all StockMovement rows for the pair.
// Only the ledger engine mutates it, never API consumers directly.
type InventoryBalance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_wh_product;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_wh_product;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
}

func (InventoryBalance) TableName() string { return "inventory_balances" }
