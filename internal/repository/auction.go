package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/events"
	"github.com/Holiuk2005/lotex/internal/repository/dao"
)

var (
	ErrAuctionNotFound = dao.ErrAuctionNotFound
)

// AuctionRepository persists auctions and bids and publishes a change event
// to the feed after each successful commit. Consumers therefore only ever
// observe committed state.
type AuctionRepository struct {
	db   *gorm.DB
	feed *events.Feed
}

func NewAuctionRepository(db *gorm.DB, feed *events.Feed) *AuctionRepository {
	return &AuctionRepository{
		db:   db,
		feed: feed,
	}
}

func (r *AuctionRepository) FindByID(ctx context.Context, id string) (domain.Auction, error) {
	auction, err := dao.NewAuctionDAO(r.db).FindByID(ctx, id)
	if err != nil {
		return domain.Auction{}, err
	}

	return auctionDaoToDomain(auction), nil
}

func (r *AuctionRepository) Create(ctx context.Context, auction domain.Auction) (domain.Auction, error) {
	if auction.ID == "" {
		auction.ID = uuid.NewString()
	}
	if auction.Status == "" {
		auction.Status = domain.AuctionStatusActive
	}
	now := time.Now()
	auction.CreatedAt = now
	auction.UpdatedAt = now

	if err := dao.NewAuctionDAO(r.db).Insert(ctx, auctionDomainToDao(auction)); err != nil {
		return domain.Auction{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	r.feed.Publish(events.Event{
		Type:  events.AuctionCreated,
		After: &auction,
	})

	return auction, nil
}

// PlaceBid records a bid and raises the auction's current price when the bid
// tops it, atomically. The bid event carries the post-commit auction.
func (r *AuctionRepository) PlaceBid(ctx context.Context, bid domain.Bid) (domain.Bid, error) {
	if bid.ID == "" {
		bid.ID = uuid.NewString()
	}
	bid.CreatedAt = time.Now()

	var after domain.Auction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auctionDAO := dao.NewAuctionDAO(tx)

		auction, err := auctionDAO.FindByID(ctx, bid.AuctionID)
		if err != nil {
			return err
		}

		if err = auctionDAO.InsertBid(ctx, dao.Bid{
			ID:        bid.ID,
			AuctionID: bid.AuctionID,
			UserID:    bid.UserID,
			Amount:    bid.Amount,
			CreatedAt: bid.CreatedAt,
		}); err != nil {
			return fmt.Errorf("auctionDAO.InsertBid -> %w", err)
		}

		if bid.Amount > auction.CurrentPrice {
			auction.CurrentPrice = bid.Amount
			if err = auctionDAO.Update(ctx, auction); err != nil {
				return fmt.Errorf("auctionDAO.Update -> %w", err)
			}
		}

		after = auctionDaoToDomain(auction)

		return nil
	})
	if err != nil {
		return domain.Bid{}, err
	}

	r.feed.Publish(events.Event{
		Type:  events.BidPlaced,
		After: &after,
		Bid:   &bid,
	})

	return bid, nil
}

// MarkSold transitions the auction to sold and records the winner, emitting
// an update event with the before/after pair.
func (r *AuctionRepository) MarkSold(ctx context.Context, auctionID, winnerID string) (domain.Auction, error) {
	var before, after domain.Auction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auctionDAO := dao.NewAuctionDAO(tx)

		auction, err := auctionDAO.FindByID(ctx, auctionID)
		if err != nil {
			return err
		}
		before = auctionDaoToDomain(auction)

		auction.Status = domain.AuctionStatusSold
		auction.WinnerID = winnerID
		if err = auctionDAO.Update(ctx, auction); err != nil {
			return fmt.Errorf("auctionDAO.Update -> %w", err)
		}
		after = auctionDaoToDomain(auction)

		return nil
	})
	if err != nil {
		return domain.Auction{}, err
	}

	r.feed.Publish(events.Event{
		Type:   events.AuctionUpdated,
		Before: &before,
		After:  &after,
	})

	return after, nil
}

func (r *AuctionRepository) TopBids(ctx context.Context, auctionID string, limit int) ([]domain.Bid, error) {
	bids, err := dao.NewAuctionDAO(r.db).TopBids(ctx, auctionID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.TopBids -> %w", err)
	}

	result := make([]domain.Bid, len(bids))
	for i, b := range bids {
		result[i] = domain.Bid{
			ID:        b.ID,
			AuctionID: b.AuctionID,
			UserID:    b.UserID,
			Amount:    b.Amount,
			CreatedAt: b.CreatedAt,
		}
	}

	return result, nil
}

func (r *AuctionRepository) SubscribersByCategory(ctx context.Context, category string, limit int) ([]string, error) {
	userIDs, err := dao.NewAuctionDAO(r.db).SubscribersByCategory(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SubscribersByCategory -> %w", err)
	}

	return userIDs, nil
}

func auctionDomainToDao(a domain.Auction) dao.Auction {
	return dao.Auction{
		ID:            a.ID,
		Title:         a.Title,
		Category:      a.Category,
		SellerID:      a.SellerID,
		SellerCityRef: a.SellerCityRef,
		Status:        a.Status,
		WinnerID:      a.WinnerID,
		CurrentPrice:  a.CurrentPrice,
		WeightKg:      a.WeightKg,
		LengthCm:      a.LengthCm,
		WidthCm:       a.WidthCm,
		HeightCm:      a.HeightCm,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func auctionDaoToDomain(a dao.Auction) domain.Auction {
	return domain.Auction{
		ID:            a.ID,
		Title:         a.Title,
		Category:      a.Category,
		SellerID:      a.SellerID,
		SellerCityRef: a.SellerCityRef,
		Status:        a.Status,
		WinnerID:      a.WinnerID,
		CurrentPrice:  a.CurrentPrice,
		WeightKg:      a.WeightKg,
		LengthCm:      a.LengthCm,
		WidthCm:       a.WidthCm,
		HeightCm:      a.HeightCm,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
