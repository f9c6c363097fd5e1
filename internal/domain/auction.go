package domain

import "time"

const (
	AuctionStatusActive = "active"
	AuctionStatusSold   = "sold"
)

type Auction struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	SellerID      string    `json:"seller_id"`
	SellerCityRef string    `json:"seller_city_ref"`
	Status        string    `json:"status"`
	WinnerID      string    `json:"winner_id,omitempty"`
	CurrentPrice  float64   `json:"current_price"`
	WeightKg      float64   `json:"weight_kg"`
	LengthCm      float64   `json:"length_cm"`
	WidthCm       float64   `json:"width_cm"`
	HeightCm      float64   `json:"height_cm"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Bid struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// CategorySubscription marks a user as interested in new auctions
// of one category.
type CategorySubscription struct {
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
