package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/events"
)

type fakeNotificationStore struct {
	created   []domain.Notification
	createErr error
}

func (s *fakeNotificationStore) Create(_ context.Context, n domain.Notification) (domain.Notification, error) {
	if s.createErr != nil {
		return domain.Notification{}, s.createErr
	}
	n.ID = fmt.Sprintf("n%d", len(s.created)+1)
	s.created = append(s.created, n)

	return n, nil
}

func (s *fakeNotificationStore) byType(t domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, n := range s.created {
		if n.Type == t {
			out = append(out, n)
		}
	}

	return out
}

type fakeAuctionReader struct {
	bids        []domain.Bid
	subscribers []string
	bidsErr     error
	subsErr     error
}

func (r *fakeAuctionReader) TopBids(_ context.Context, _ string, limit int) ([]domain.Bid, error) {
	if r.bidsErr != nil {
		return nil, r.bidsErr
	}
	if len(r.bids) > limit {
		return r.bids[:limit], nil
	}

	return r.bids, nil
}

func (r *fakeAuctionReader) SubscribersByCategory(_ context.Context, _ string, limit int) ([]string, error) {
	if r.subsErr != nil {
		return nil, r.subsErr
	}
	if len(r.subscribers) > limit {
		return r.subscribers[:limit], nil
	}

	return r.subscribers, nil
}

type fakePusher struct {
	pushed []domain.Notification
}

func (p *fakePusher) Push(_ string, n domain.Notification) {
	p.pushed = append(p.pushed, n)
}

func TestNotifier_AuctionCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies category subscribers except the seller", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{subscribers: []string{"u1", "seller", "u2"}}
		pusher := &fakePusher{}
		notifier := NewNotifier(store, reader, pusher)

		notifier.Handle(ctx, events.Event{
			Type:  events.AuctionCreated,
			After: &domain.Auction{ID: "a1", Title: "Old clock", Category: "antiques", SellerID: "seller"},
		})

		require.Len(t, store.created, 2)
		for _, n := range store.created {
			require.Equal(t, domain.NotificationNewAuction, n.Type)
			require.Equal(t, "a1", n.AuctionID)
			require.NotEqual(t, "seller", n.UserID)
		}
		require.Len(t, pusher.pushed, 2)
	})

	t.Run("auction without a category notifies nobody", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{subscribers: []string{"u1"}}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.AuctionCreated,
			After: &domain.Auction{ID: "a1", SellerID: "seller"},
		})

		require.Empty(t, store.created)
	})

	t.Run("fan-out is capped", func(t *testing.T) {
		subscribers := make([]string, MaxFanout+50)
		for i := range subscribers {
			subscribers[i] = fmt.Sprintf("u%d", i)
		}

		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{subscribers: subscribers}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.AuctionCreated,
			After: &domain.Auction{ID: "a1", Category: "antiques", SellerID: "seller"},
		})

		require.Len(t, store.created, MaxFanout)
	})

	t.Run("subscriber lookup failure is swallowed", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{subsErr: errors.New("db down")}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.AuctionCreated,
			After: &domain.Auction{ID: "a1", Category: "antiques", SellerID: "seller"},
		})

		require.Empty(t, store.created)
	})
}

func TestNotifier_BidPlaced(t *testing.T) {
	ctx := context.Background()
	auction := &domain.Auction{ID: "a1", Title: "Old clock", SellerID: "seller", CurrentPrice: 200}

	t.Run("outbids the previous top bidder and notifies the seller", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{bids: []domain.Bid{
			{UserID: "carol", Amount: 200},
			{UserID: "bob", Amount: 150},
			{UserID: "alice", Amount: 100},
		}}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.BidPlaced,
			After: auction,
			Bid:   &domain.Bid{AuctionID: "a1", UserID: "carol", Amount: 200},
		})

		outbid := store.byType(domain.NotificationOutbid)
		require.Len(t, outbid, 1)
		require.Equal(t, "bob", outbid[0].UserID)
		require.Equal(t, "carol", outbid[0].ActorUID)

		newBid := store.byType(domain.NotificationNewBid)
		require.Len(t, newBid, 1)
		require.Equal(t, "seller", newBid[0].UserID)

		// Earlier bidders hear nothing.
		for _, n := range store.created {
			require.NotEqual(t, "alice", n.UserID)
		}
	})

	t.Run("bidder raising their own top bid is not outbid", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{bids: []domain.Bid{
			{UserID: "bob", Amount: 200},
			{UserID: "bob", Amount: 150},
		}}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.BidPlaced,
			After: auction,
			Bid:   &domain.Bid{AuctionID: "a1", UserID: "bob", Amount: 200},
		})

		require.Empty(t, store.byType(domain.NotificationOutbid))
		require.Len(t, store.byType(domain.NotificationNewBid), 1)
	})

	t.Run("first bid only notifies the seller", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{bids: []domain.Bid{
			{UserID: "alice", Amount: 100},
		}}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.BidPlaced,
			After: auction,
			Bid:   &domain.Bid{AuctionID: "a1", UserID: "alice", Amount: 100},
		})

		require.Empty(t, store.byType(domain.NotificationOutbid))
		require.Len(t, store.byType(domain.NotificationNewBid), 1)
	})

	t.Run("seller bidding on their own auction gets no new-bid note", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{bids: []domain.Bid{
			{UserID: "seller", Amount: 200},
			{UserID: "alice", Amount: 100},
		}}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.BidPlaced,
			After: auction,
			Bid:   &domain.Bid{AuctionID: "a1", UserID: "seller", Amount: 200},
		})

		require.Len(t, store.byType(domain.NotificationOutbid), 1)
		require.Empty(t, store.byType(domain.NotificationNewBid))
	})

	t.Run("bid lookup failure still notifies the seller", func(t *testing.T) {
		store := &fakeNotificationStore{}
		reader := &fakeAuctionReader{bidsErr: errors.New("db down")}
		notifier := NewNotifier(store, reader, &fakePusher{})

		notifier.Handle(ctx, events.Event{
			Type:  events.BidPlaced,
			After: auction,
			Bid:   &domain.Bid{AuctionID: "a1", UserID: "carol", Amount: 200},
		})

		require.Len(t, store.byType(domain.NotificationNewBid), 1)
	})
}

func TestNotifier_AuctionUpdated(t *testing.T) {
	ctx := context.Background()

	t.Run("sold transition notifies winner and seller", func(t *testing.T) {
		store := &fakeNotificationStore{}
		notifier := NewNotifier(store, &fakeAuctionReader{}, &fakePusher{})

		before := domain.Auction{ID: "a1", Title: "Old clock", SellerID: "seller", Status: domain.AuctionStatusActive}
		after := before
		after.Status = domain.AuctionStatusSold
		after.WinnerID = "bob"
		after.CurrentPrice = 150

		notifier.Handle(ctx, events.Event{Type: events.AuctionUpdated, Before: &before, After: &after})

		won := store.byType(domain.NotificationAuctionWon)
		require.Len(t, won, 1)
		require.Equal(t, "bob", won[0].UserID)

		sold := store.byType(domain.NotificationAuctionSold)
		require.Len(t, sold, 1)
		require.Equal(t, "seller", sold[0].UserID)
	})

	t.Run("update without a status change is a no-op", func(t *testing.T) {
		store := &fakeNotificationStore{}
		notifier := NewNotifier(store, &fakeAuctionReader{}, &fakePusher{})

		before := domain.Auction{ID: "a1", SellerID: "seller", Status: domain.AuctionStatusSold, WinnerID: "bob"}
		after := before
		after.CurrentPrice = 175

		notifier.Handle(ctx, events.Event{Type: events.AuctionUpdated, Before: &before, After: &after})

		require.Empty(t, store.created)
	})

	t.Run("store failure never propagates", func(t *testing.T) {
		store := &fakeNotificationStore{createErr: errors.New("db down")}
		pusher := &fakePusher{}
		notifier := NewNotifier(store, &fakeAuctionReader{}, pusher)

		before := domain.Auction{ID: "a1", SellerID: "seller", Status: domain.AuctionStatusActive}
		after := before
		after.Status = domain.AuctionStatusSold

		notifier.Handle(ctx, events.Event{Type: events.AuctionUpdated, Before: &before, After: &after})

		require.Empty(t, pusher.pushed)
	})
}

func TestNotifier_Run(t *testing.T) {
	store := &fakeNotificationStore{}
	reader := &fakeAuctionReader{subscribers: []string{"u1"}}
	notifier := NewNotifier(store, reader, &fakePusher{})

	feed := make(chan events.Event, 1)
	feed <- events.Event{
		Type:  events.AuctionCreated,
		After: &domain.Auction{ID: "a1", Category: "antiques", SellerID: "seller"},
		At:    time.Now(),
	}
	close(feed)

	notifier.Run(context.Background(), feed)

	require.Len(t, store.created, 1)
	require.Equal(t, "u1", store.created[0].UserID)
}
