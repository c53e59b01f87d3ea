package service

import (
	"context"
	"fmt"
	"time"

	"digitask/internal/dto"
	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
)

// ChatService manages group rooms and their message log. Delivery to
// connected clients happens through the publisher, one channel per group;
// the persisted log is the source of truth.
type ChatService interface {
	CreateGroup(ctx context.Context, ownerID uuid.UUID, req dto.CreateChatGroupRequest) (*dto.ChatGroupResponse, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]dto.ChatGroupResponse, error)
	// PostMessage persists a message and fans it out. Senders must be
	// members; locked groups accept only the owner.
	PostMessage(ctx context.Context, groupID, senderID uuid.UUID, content string) (*dto.ChatMessageResponse, error)
	Messages(ctx context.Context, groupID, userID uuid.UUID, limit int) ([]dto.ChatMessageResponse, error)
}

type chatService struct {
	repo      repository.ChatRepository
	publisher EventPublisher
}

func NewChatService(repo repository.ChatRepository, publisher EventPublisher) ChatService {
	return &chatService{repo: repo, publisher: publisher}
}

func (s *chatService) CreateGroup(ctx context.Context, ownerID uuid.UUID, req dto.CreateChatGroupRequest) (*dto.ChatGroupResponse, error) {
	group := model.ChatGroup{
		Name:             req.Name,
		OwnerID:          ownerID,
		OnlyOwnerCanSend: req.OnlyOwnerCanSend,
		Active:           true,
	}
	if err := s.repo.CreateGroup(ctx, &group); err != nil {
		return nil, err
	}

	// The owner is always a member; requested members ride along.
	members := []uuid.UUID{ownerID}
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: member_ids", ErrValidation)
		}
		if id != ownerID {
			members = append(members, id)
		}
	}
	for _, userID := range members {
		m := model.ChatMember{GroupID: group.ID, UserID: userID, CanSend: true}
		if err := s.repo.AddMember(ctx, &m); err != nil {
			return nil, err
		}
		group.Members = append(group.Members, m)
	}
	return chatGroupToResponse(&group), nil
}

func (s *chatService) ListGroups(ctx context.Context, userID uuid.UUID) ([]dto.ChatGroupResponse, error) {
	groups, err := s.repo.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatGroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, *chatGroupToResponse(&groups[i]))
	}
	return out, nil
}

func (s *chatService) PostMessage(ctx context.Context, groupID, senderID uuid.UUID, content string) (*dto.ChatMessageResponse, error) {
	group, member, err := s.membership(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if group.OnlyOwnerCanSend && senderID != group.OwnerID {
		return nil, fmt.Errorf("%w: only the owner can post in this group", ErrValidation)
	}
	if !member.CanSend {
		return nil, fmt.Errorf("%w: posting is disabled for this member", ErrValidation)
	}

	msg := model.ChatMessage{
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, &msg); err != nil {
		return nil, err
	}

	resp := chatMessageToResponse(&msg)
	if s.publisher != nil {
		s.publisher.PublishChatMessage(ctx, *resp)
	}
	return resp, nil
}

func (s *chatService) Messages(ctx context.Context, groupID, userID uuid.UUID, limit int) ([]dto.ChatMessageResponse, error) {
	if _, _, err := s.membership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, groupID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatMessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, *chatMessageToResponse(&msgs[i]))
	}
	return out, nil
}

// membership resolves the group and the caller's member row. Non-members
// get not-found, the room stays invisible to them.
func (s *chatService) membership(ctx context.Context, groupID, userID uuid.UUID) (*model.ChatGroup, *model.ChatMember, error) {
	group, err := s.repo.FindGroupByID(ctx, groupID)
	if err != nil || !group.Active {
		return nil, nil, fmt.Errorf("%w: chat group %s", ErrNotFound, groupID)
	}
	for i := range group.Members {
		if group.Members[i].UserID == userID {
			return group, &group.Members[i], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: chat group %s", ErrNotFound, groupID)
}

func chatGroupToResponse(g *model.ChatGroup) *dto.ChatGroupResponse {
	return &dto.ChatGroupResponse{
		ID:               g.ID.String(),
		Name:             g.Name,
		OwnerID:          g.OwnerID.String(),
		OnlyOwnerCanSend: g.OnlyOwnerCanSend,
		MemberCount:      len(g.Members),
		CreatedAt:        g.CreatedAt.Format(time.RFC3339),
	}
}

func chatMessageToResponse(m *model.ChatMessage) *dto.ChatMessageResponse {
	resp := &dto.ChatMessageResponse{
		ID:        m.ID.String(),
		GroupID:   m.GroupID.String(),
		SenderID:  m.SenderID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if m.Sender != nil {
		resp.SenderName = m.Sender.FullName
	}
	return resp
}
