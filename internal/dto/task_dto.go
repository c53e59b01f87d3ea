package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TaskProductRequest struct {
	ProductID   string          `json:"product_id"   validate:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
}

type CreateTaskRequest struct {
	Title        string               `json:"title"         validate:"required,min=2,max=255"`
	Note         string               `json:"note"`
	CustomerName string               `json:"customer_name"`
	Latitude     *float64             `json:"latitude"      validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64             `json:"longitude"     validate:"omitempty,gte=-180,lte=180"`
	AssignedToID *string              `json:"assigned_to_id" validate:"omitempty,uuid"`
	RegionID     *string              `json:"region_id"      validate:"omitempty,uuid"`
	Products     []TaskProductRequest `json:"products"       validate:"omitempty,dive"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress arrived done pending rejected"`
}

type TaskFilter struct {
	Status       string `form:"status"         validate:"omitempty,oneof=todo in_progress arrived done pending rejected"`
	AssignedToID string `form:"assigned_to_id" validate:"omitempty,uuid"`
	RegionID     string `form:"region_id"      validate:"omitempty,uuid"`
	Search       string `form:"search"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TaskProductResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Deducted    bool            `json:"deducted"`
}

type TaskResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Note         string                `json:"note"`
	Status       string                `json:"status"`
	CustomerName string                `json:"customer_name"`
	Latitude     *float64              `json:"latitude"`
	Longitude    *float64              `json:"longitude"`
	AssignedToID *string               `json:"assigned_to_id"`
	RegionID     *string               `json:"region_id"`
	Products     []TaskProductResponse `json:"products"`
	CreatedAt    string                `json:"created_at"`
}

type TaskListResponse struct {
	Data  []TaskResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
