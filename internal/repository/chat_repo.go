package repository

import (
	"context"

	"digitask/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	CreateGroup(ctx context.Context, g *model.ChatGroup) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*model.ChatGroup, error)
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.ChatGroup, error)
	AddMember(ctx context.Context, m *model.ChatMember) error
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	ListMessages(ctx context.Context, groupID uuid.UUID, limit int) ([]model.ChatMessage, error)
}

type chatRepo struct{ db *gorm.DB }

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) CreateGroup(ctx context.Context, g *model.ChatGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *chatRepo) FindGroupByID(ctx context.Context, id uuid.UUID) (*model.ChatGroup, error) {
	var g model.ChatGroup
	err := r.db.WithContext(ctx).
		Preload("Members").
		First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *chatRepo) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.ChatGroup, error) {
	var groups []model.ChatGroup
	err := r.db.WithContext(ctx).
		Preload("Members").
		Joins("JOIN chat_members ON chat_members.group_id = chat_groups.id").
		Where("chat_members.user_id = ? AND chat_groups.active", userID).
		Order("chat_groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}

// AddMember is idempotent: re-adding an existing member is a no-op.
func (r *chatRepo) AddMember(ctx context.Context, m *model.ChatMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m).Error
}

func (r *chatRepo) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepo) ListMessages(ctx context.Context, groupID uuid.UUID, limit int) ([]model.ChatMessage, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}
