package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type LedgerEntry struct {
	ID string `gorm:"primaryKey"`

	UserID    string `gorm:"not null;index"`
	Type      string `gorm:"not null"`
	Amount    int64  `gorm:"not null"`
	LotteryID string
	TicketID  string

	CreatedAt time.Time `gorm:"not null"`
}

func (LedgerEntry) TableName() string {
	return "transactions"
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

func (d *LedgerDAO) Insert(ctx context.Context, entry LedgerEntry) error {
	return d.db.WithContext(ctx).Create(&entry).Error
}

func (d *LedgerDAO) FindByUser(ctx context.Context, userID string) ([]LedgerEntry, error) {
	var entries []LedgerEntry

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
