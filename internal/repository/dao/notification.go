package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type Notification struct {
	ID string `gorm:"primaryKey"`

	UserID    string `gorm:"not null;index"`
	Type      string `gorm:"not null"`
	Title     string `gorm:"not null"`
	Body      string
	AuctionID string
	Category  string
	ActorUID  string
	Read      bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, notification Notification) error {
	return d.db.WithContext(ctx).Create(&notification).Error
}

func (d *NotificationDAO) FindByUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	var notifications []Notification

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

// MarkRead toggles the read flag on one notification, scoped to its owner.
func (d *NotificationDAO) MarkRead(ctx context.Context, id, userID string) error {
	result := d.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
