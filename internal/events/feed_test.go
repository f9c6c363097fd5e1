package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Holiuk2005/lotex/internal/domain"
)

func TestFeed_PublishSubscribe(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	sub := feed.Subscribe(4)

	feed.Publish(Event{Type: AuctionCreated, After: &domain.Auction{ID: "a1"}})
	feed.Publish(Event{Type: BidPlaced, After: &domain.Auction{ID: "a1"}, Bid: &domain.Bid{ID: "b1"}})

	e := <-sub
	require.Equal(t, AuctionCreated, e.Type)
	require.Equal(t, "a1", e.After.ID)
	require.False(t, e.At.IsZero())

	e = <-sub
	require.Equal(t, BidPlaced, e.Type)
	require.Equal(t, "b1", e.Bid.ID)
}

func TestFeed_FanOut(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	first := feed.Subscribe(1)
	second := feed.Subscribe(1)

	feed.Publish(Event{Type: AuctionUpdated})

	require.Equal(t, AuctionUpdated, (<-first).Type)
	require.Equal(t, AuctionUpdated, (<-second).Type)
}

func TestFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	slow := feed.Subscribe(1)
	fast := feed.Subscribe(4)

	feed.Publish(Event{Type: AuctionCreated})
	// The slow subscriber's buffer is now full; the next event is dropped
	// for it but still reaches the fast one.
	feed.Publish(Event{Type: BidPlaced})

	require.Equal(t, AuctionCreated, (<-fast).Type)
	require.Equal(t, BidPlaced, (<-fast).Type)

	require.Equal(t, AuctionCreated, (<-slow).Type)
	select {
	case e := <-slow:
		t.Fatalf("expected no second event, got %v", e.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestFeed_Close(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe(1)

	feed.Close()

	_, open := <-sub
	require.False(t, open)

	// Publish and Close after closing are harmless.
	feed.Publish(Event{Type: AuctionCreated})
	feed.Close()
}

func TestFeed_PreservesExplicitTimestamp(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	sub := feed.Subscribe(1)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	feed.Publish(Event{Type: AuctionCreated, At: at})

	require.Equal(t, at, (<-sub).At)
}
