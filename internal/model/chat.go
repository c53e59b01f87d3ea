package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatGroup is a named room owned by one user. OnlyOwnerCanSend turns the
// room into an announcement channel.
type ChatGroup struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"not null"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	OnlyOwnerCanSend bool      `gorm:"not null;default:false"`
	Active           bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time

	Owner   *User        `gorm:"foreignKey:OwnerID"`
	Members []ChatMember `gorm:"foreignKey:GroupID"`
}

// ChatMember ties a user into a group, at most once per group. CanSend
// allows muting a single member without locking the whole room.
type ChatMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_group_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_group_user"`
	CanSend  bool      `gorm:"not null;default:true"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	User *User `gorm:"foreignKey:UserID"`
}

// ChatMessage is one message in a group. Listings read oldest first.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time

	Sender *User `gorm:"foreignKey:SenderID"`
}
