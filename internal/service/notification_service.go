package service

import (
	"context"

	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}
