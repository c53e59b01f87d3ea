package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Username string  `json:"username"  validate:"required,min=3,max=80"`
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email"     validate:"omitempty,email"`
	Password string  `json:"password"  validate:"required,min=4"`
	Role     string  `json:"role"      validate:"required,oneof=operator dispatcher admin"`
	RegionID *string `json:"region_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	RegionID *string `json:"region_id"`
	Active   bool    `json:"active"`
}
