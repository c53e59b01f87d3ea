package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LocationSampleRequest is one inbound telemetry message.
type LocationSampleRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type PresenceRequest struct {
	IsOnline *bool `json:"is_online" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// LocationBroadcast is the payload the transport layer fans out to live-map
// subscribers after an accepted sample.
type LocationBroadcast struct {
	UserID    string  `json:"user_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsOnline  bool    `json:"is_online"`
}

type UserLocationResponse struct {
	UserID    string   `json:"user_id"`
	FullName  string   `json:"full_name"`
	Role      string   `json:"role"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsOnline  bool     `json:"is_online"`
	LastSeen  string   `json:"last_seen"`
}

type WarehousePinResponse struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	Type string   `json:"type"`
}

// LiveMapResponse is the combined read model for the live map: every user
// with a location profile plus all active warehouses.
type LiveMapResponse struct {
	Users      []UserLocationResponse `json:"users"`
	Warehouses []WarehousePinResponse `json:"warehouses"`
}

type HistoryPointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}

type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}
