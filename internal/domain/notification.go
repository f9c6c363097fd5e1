package domain

import "time"

type NotificationType string

const (
	NotificationNewAuction  NotificationType = "new_auction"
	NotificationNewBid      NotificationType = "new_bid"
	NotificationOutbid      NotificationType = "outbid"
	NotificationAuctionWon  NotificationType = "auction_won"
	NotificationAuctionSold NotificationType = "auction_sold"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	AuctionID string           `json:"auction_id,omitempty"`
	Category  string           `json:"category,omitempty"`
	ActorUID  string           `json:"actor_uid,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
