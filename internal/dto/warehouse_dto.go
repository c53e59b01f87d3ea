package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateWarehouseRequest struct {
	Name      string   `json:"name"      validate:"required,min=2,max=160"`
	RegionID  string   `json:"region_id" validate:"required,uuid"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Note      string   `json:"note"`
}

type UpdateWarehouseRequest struct {
	Name      *string  `json:"name"      validate:"omitempty,min=2,max=160"`
	RegionID  *string  `json:"region_id" validate:"omitempty,uuid"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Note      *string  `json:"note"`
}

type WarehouseFilter struct {
	RegionID string `form:"region_id" validate:"omitempty,uuid"`
	Search   string `form:"search"`
	Active   string `form:"active"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type WarehouseResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	RegionID  string   `json:"region_id"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Note      string   `json:"note"`
	Active    bool     `json:"active"`
}

type WarehouseListResponse struct {
	Data  []WarehouseResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
