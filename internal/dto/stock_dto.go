package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AdjustStockRequest drives every manual ledger operation. Quantity must be
// a positive magnitude for in/out/return/transfer; for adjust it is a signed
// delta (negative = downward correction) and only needs to be non-zero.
type AdjustStockRequest struct {
	WarehouseID   string          `json:"warehouse_id"    validate:"required,uuid"`
	ProductID     string          `json:"product_id"      validate:"required,uuid"`
	MovementType  string          `json:"movement_type"   validate:"required,oneof=in out transfer adjust return"`
	Quantity      decimal.Decimal `json:"quantity"        validate:"required"`
	Reason        string          `json:"reason"`
	ReferenceNo   string          `json:"reference_no"`
	ToWarehouseID *string         `json:"to_warehouse_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type BalanceFilter struct {
	WarehouseID string `form:"warehouse_id" validate:"omitempty,uuid"`
	ProductID   string `form:"product_id"   validate:"omitempty,uuid"`
	Search      string `form:"search"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type MovementFilter struct {
	WarehouseID  string `form:"warehouse_id"  validate:"omitempty,uuid"`
	ProductID    string `form:"product_id"    validate:"omitempty,uuid"`
	MovementType string `form:"movement_type" validate:"omitempty,oneof=in out transfer adjust return"`
	ReferenceNo  string `form:"reference_no"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BalanceResponse struct {
	ID            string          `json:"id"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	ProductUnit   string          `json:"product_unit,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

type BalanceListResponse struct {
	Data  []BalanceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type MovementResponse struct {
	ID              string          `json:"id"`
	WarehouseID     string          `json:"warehouse_id"`
	WarehouseName   string          `json:"warehouse_name,omitempty"`
	FromWarehouseID *string         `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   *string         `json:"to_warehouse_id,omitempty"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	MovementType    string          `json:"movement_type"`
	Reason          string          `json:"reason"`
	QuantityOld     decimal.Decimal `json:"quantity_old"`
	QuantityNew     decimal.Decimal `json:"quantity_new"`
	ReferenceNo     string          `json:"reference_no"`
	CreatedBy       *string         `json:"created_by,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// AdjustStockResponse returns the movement record(s) an operation produced —
// two for transfers, one otherwise.
type AdjustStockResponse struct {
	Movements []MovementResponse `json:"movements"`
}

// StockAlertResponse flags balances outside the product's min/max window.
type StockAlertResponse struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinQuantity   decimal.Decimal `json:"min_quantity"`
	Level         string          `json:"level"` // "low" | "over"
}
