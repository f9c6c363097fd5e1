package service

import (
	"context"
	"fmt"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

// InboxLimit caps how many notifications a single inbox read returns.
const InboxLimit = 50

type NotificationRepository interface {
	FindByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

func (s *NotificationService) GetInbox(ctx context.Context, userID string) ([]domain.Notification, error) {
	notifications, err := s.repo.FindByUser(ctx, userID, InboxLimit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return notifications, nil
}

// MarkRead flips the read flag. Scoped to the owner, so a user cannot
// touch someone else's notification.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}

	return nil
}
