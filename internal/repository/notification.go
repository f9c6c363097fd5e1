package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/repository/dao"
)

var (
	ErrNotificationNotFound = dao.ErrNotificationNotFound
)

type NotificationRepository struct {
	dao *dao.NotificationDAO
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		dao: dao.NewNotificationDAO(db),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	err := r.dao.Insert(ctx, dao.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		AuctionID: n.AuctionID,
		Category:  n.Category,
		ActorUID:  n.ActorUID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return n, nil
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	notifications, err := r.dao.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	result := make([]domain.Notification, len(notifications))
	for i, n := range notifications {
		result[i] = domain.Notification{
			ID:        n.ID,
			UserID:    n.UserID,
			Type:      domain.NotificationType(n.Type),
			Title:     n.Title,
			Body:      n.Body,
			AuctionID: n.AuctionID,
			Category:  n.Category,
			ActorUID:  n.ActorUID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}

	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	return r.dao.MarkRead(ctx, id, userID)
}
