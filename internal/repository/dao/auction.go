package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAuctionNotFound = errors.New("auction not found")
)

type Auction struct {
	ID string `gorm:"primaryKey"`

	Title         string `gorm:"not null"`
	Category      string `gorm:"index"`
	SellerID      string `gorm:"not null;index"`
	SellerCityRef string
	Status        string `gorm:"not null;default:active"`
	WinnerID      string
	CurrentPrice  float64 `gorm:"not null;default:0"`

	WeightKg float64
	LengthCm float64
	WidthCm  float64
	HeightCm float64

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Bid struct {
	ID string `gorm:"primaryKey"`

	AuctionID string  `gorm:"not null;index:idx_bids_auction_amount"`
	UserID    string  `gorm:"not null"`
	Amount    float64 `gorm:"not null;index:idx_bids_auction_amount"`

	CreatedAt time.Time `gorm:"not null"`
}

type CategorySubscription struct {
	UserID   string `gorm:"primaryKey"`
	Category string `gorm:"primaryKey;index"`

	CreatedAt time.Time `gorm:"not null"`
}

type AuctionDAO struct {
	db *gorm.DB
}

func NewAuctionDAO(db *gorm.DB) *AuctionDAO {
	return &AuctionDAO{
		db: db,
	}
}

func (d *AuctionDAO) FindByID(ctx context.Context, id string) (Auction, error) {
	var auction Auction

	result := d.db.WithContext(ctx).First(&auction, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Auction{}, ErrAuctionNotFound
		}

		return Auction{}, result.Error
	}

	return auction, nil
}

func (d *AuctionDAO) Insert(ctx context.Context, auction Auction) error {
	return d.db.WithContext(ctx).Create(&auction).Error
}

func (d *AuctionDAO) Update(ctx context.Context, auction Auction) error {
	result := d.db.WithContext(ctx).
		Model(&Auction{}).
		Where("id = ?", auction.ID).
		Updates(map[string]any{
			"status":        auction.Status,
			"winner_id":     auction.WinnerID,
			"current_price": auction.CurrentPrice,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAuctionNotFound
	}

	return nil
}

func (d *AuctionDAO) InsertBid(ctx context.Context, bid Bid) error {
	return d.db.WithContext(ctx).Create(&bid).Error
}

// TopBids returns the highest bids for an auction, ordered by amount
// descending with newer bids winning ties.
func (d *AuctionDAO) TopBids(ctx context.Context, auctionID string, limit int) ([]Bid, error) {
	var bids []Bid

	result := d.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount DESC, created_at DESC").
		Limit(limit).
		Find(&bids)
	if result.Error != nil {
		return nil, result.Error
	}

	return bids, nil
}

func (d *AuctionDAO) SubscribersByCategory(ctx context.Context, category string, limit int) ([]string, error) {
	var userIDs []string

	result := d.db.WithContext(ctx).
		Model(&CategorySubscription{}).
		Where("category = ?", category).
		Order("created_at").
		Limit(limit).
		Pluck("user_id", &userIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return userIDs, nil
}
