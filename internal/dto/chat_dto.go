package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateChatGroupRequest struct {
	Name             string   `json:"name"                validate:"required,min=2,max=255"`
	OnlyOwnerCanSend bool     `json:"only_owner_can_send"`
	MemberIDs        []string `json:"member_ids"          validate:"omitempty,dive,uuid"`
}

type PostChatMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ChatGroupResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OwnerID          string `json:"owner_id"`
	OnlyOwnerCanSend bool   `json:"only_owner_can_send"`
	MemberCount      int    `json:"member_count"`
	CreatedAt        string `json:"created_at"`
}

type ChatMessageResponse struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}
