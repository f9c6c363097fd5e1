package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/events"
)

// MaxFanout bounds how many subscribers a single auction-created event can
// reach, so one event cannot generate unbounded work.
const MaxFanout = 200

type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

type AuctionReader interface {
	TopBids(ctx context.Context, auctionID string, limit int) ([]domain.Bid, error)
	SubscribersByCategory(ctx context.Context, category string, limit int) ([]string, error)
}

// Pusher delivers a stored notification to a live client, if one is
// connected. Delivery is best-effort.
type Pusher interface {
	Push(userID string, n domain.Notification)
}

// Notifier consumes the committed-change feed and fans auction lifecycle
// events out as in-app notifications. Every write here is fire-and-forget:
// failures are logged and never reach the code path that produced the event.
type Notifier struct {
	notifications NotificationStore
	auctions      AuctionReader
	pusher        Pusher
}

func NewNotifier(notifications NotificationStore, auctions AuctionReader, pusher Pusher) *Notifier {
	return &Notifier{
		notifications: notifications,
		auctions:      auctions,
		pusher:        pusher,
	}
}

// Run consumes the feed until ctx is cancelled or the channel closes.
func (n *Notifier) Run(ctx context.Context, feed <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-feed:
			if !ok {
				return
			}
			n.Handle(ctx, e)
		}
	}
}

func (n *Notifier) Handle(ctx context.Context, e events.Event) {
	switch e.Type {
	case events.AuctionCreated:
		if e.After != nil {
			n.handleAuctionCreated(ctx, *e.After)
		}
	case events.BidPlaced:
		if e.After != nil && e.Bid != nil {
			n.handleBidPlaced(ctx, *e.After, *e.Bid)
		}
	case events.AuctionUpdated:
		if e.Before != nil && e.After != nil {
			n.handleAuctionUpdated(ctx, *e.Before, *e.After)
		}
	}
}

func (n *Notifier) handleAuctionCreated(ctx context.Context, auction domain.Auction) {
	if auction.Category == "" {
		return
	}

	subscribers, err := n.auctions.SubscribersByCategory(ctx, auction.Category, MaxFanout)
	if err != nil {
		zap.L().Error("notifier: failed to list category subscribers",
			zap.String("auction_id", auction.ID),
			zap.String("category", auction.Category),
			zap.Error(err),
		)
		return
	}

	for _, userID := range subscribers {
		if userID == auction.SellerID {
			continue
		}

		n.deliver(ctx, domain.Notification{
			UserID:    userID,
			Type:      domain.NotificationNewAuction,
			Title:     "New auction in " + auction.Category,
			Body:      fmt.Sprintf("%q was just listed in a category you follow.", auction.Title),
			AuctionID: auction.ID,
			Category:  auction.Category,
			ActorUID:  auction.SellerID,
		})
	}
}

func (n *Notifier) handleBidPlaced(ctx context.Context, auction domain.Auction, bid domain.Bid) {
	// The previous top bid sits right below the new one.
	top, err := n.auctions.TopBids(ctx, auction.ID, 2)
	if err != nil {
		zap.L().Error("notifier: failed to read top bids",
			zap.String("auction_id", auction.ID),
			zap.Error(err),
		)
	} else if len(top) >= 2 && top[1].UserID != bid.UserID {
		n.deliver(ctx, domain.Notification{
			UserID:    top[1].UserID,
			Type:      domain.NotificationOutbid,
			Title:     "You have been outbid",
			Body:      fmt.Sprintf("Someone bid %.2f on %q, topping your %.2f.", bid.Amount, auction.Title, top[1].Amount),
			AuctionID: auction.ID,
			ActorUID:  bid.UserID,
		})
	}

	if bid.UserID != auction.SellerID {
		n.deliver(ctx, domain.Notification{
			UserID:    auction.SellerID,
			Type:      domain.NotificationNewBid,
			Title:     "New bid on your auction",
			Body:      fmt.Sprintf("%q received a bid of %.2f.", auction.Title, bid.Amount),
			AuctionID: auction.ID,
			ActorUID:  bid.UserID,
		})
	}
}

func (n *Notifier) handleAuctionUpdated(ctx context.Context, before, after domain.Auction) {
	if before.Status == after.Status || after.Status != domain.AuctionStatusSold {
		return
	}

	if after.WinnerID != "" {
		n.deliver(ctx, domain.Notification{
			UserID:    after.WinnerID,
			Type:      domain.NotificationAuctionWon,
			Title:     "You won the auction",
			Body:      fmt.Sprintf("Congratulations, %q is yours for %.2f.", after.Title, after.CurrentPrice),
			AuctionID: after.ID,
		})
	}

	n.deliver(ctx, domain.Notification{
		UserID:    after.SellerID,
		Type:      domain.NotificationAuctionSold,
		Title:     "Your auction sold",
		Body:      fmt.Sprintf("%q sold for %.2f.", after.Title, after.CurrentPrice),
		AuctionID: after.ID,
		ActorUID:  after.WinnerID,
	})
}

func (n *Notifier) deliver(ctx context.Context, notification domain.Notification) {
	created, err := n.notifications.Create(ctx, notification)
	if err != nil {
		zap.L().Error("notifier: failed to store notification",
			zap.String("user_id", notification.UserID),
			zap.String("type", string(notification.Type)),
			zap.Error(err),
		)
		return
	}

	if n.pusher != nil {
		n.pusher.Push(created.UserID, created)
	}
}
