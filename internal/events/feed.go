// Package events carries committed document changes from the storage layer to
// asynchronous consumers. Delivery is ordered per subscriber and best-effort:
// a subscriber that stops draining loses events rather than blocking writers.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Holiuk2005/lotex/internal/domain"
)

type Type string

const (
	AuctionCreated Type = "auction.created"
	AuctionUpdated Type = "auction.updated"
	BidPlaced      Type = "bid.placed"
)

// Event is a before/after snapshot pair for one document change.
// Before is nil on creation. For BidPlaced, After holds the parent auction
// as of the commit and Bid the new bid.
type Event struct {
	Type   Type
	Before *domain.Auction
	After  *domain.Auction
	Bid    *domain.Bid
	At     time.Time
}

type Feed struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

func NewFeed() *Feed {
	return &Feed{}
}

// Subscribe registers a consumer. The returned channel is closed when the
// feed is closed.
func (f *Feed) Subscribe(buffer int) <-chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, buffer)
	f.subs = append(f.subs, ch)

	return ch
}

// Publish fans the event out to all subscribers without blocking.
// Events to a full subscriber are dropped and logged.
func (f *Feed) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return
	}

	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
			zap.L().Warn("events: dropping event for slow subscriber",
				zap.String("type", string(e.Type)),
			)
		}
	}
}

func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true

	for _, ch := range f.subs {
		close(ch)
	}
}
