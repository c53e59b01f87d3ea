package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string           `json:"name"          validate:"required,min=2,max=200"`
	Description  string           `json:"description"`
	Unit         string           `json:"unit"          validate:"omitempty,oneof=pcs kg g l ml m cm mm box pack set bag ton"`
	Brand        string           `json:"brand"`
	Model        string           `json:"model"`
	SerialNumber string           `json:"serial_number"`
	Price        *decimal.Decimal `json:"price"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	MaxQuantity  *decimal.Decimal `json:"max_quantity"`
	Note         string           `json:"note"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=200"`
	Description  *string          `json:"description"`
	Unit         *string          `json:"unit"          validate:"omitempty,oneof=pcs kg g l ml m cm mm box pack set bag ton"`
	Brand        *string          `json:"brand"`
	Model        *string          `json:"model"`
	SerialNumber *string          `json:"serial_number"`
	Price        *decimal.Decimal `json:"price"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	MaxQuantity  *decimal.Decimal `json:"max_quantity"`
	Note         *string          `json:"note"`
}

type ProductFilter struct {
	Name   string `form:"name"`
	Brand  string `form:"brand"`
	Active string `form:"active"` // "false" = inactive, "all" = everything, default active only
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Unit         string           `json:"unit"`
	Brand        string           `json:"brand"`
	Model        string           `json:"model"`
	SerialNumber string           `json:"serial_number"`
	Price        decimal.Decimal  `json:"price"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	MaxQuantity  *decimal.Decimal `json:"max_quantity"`
	Note         string           `json:"note"`
	Active       bool             `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
