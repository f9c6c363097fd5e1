package domain

import "time"

const (
	LotteryStatusActive = "active"
	LotteryStatusEnded  = "ended"
)

type Lottery struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	TicketPrice    int64      `json:"ticket_price"`
	MaxTickets     *int       `json:"max_tickets,omitempty"`
	TicketsSold    int        `json:"tickets_sold"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	WinnerUserID   string     `json:"winner_user_id,omitempty"`
	WinnerTicketID string     `json:"winner_ticket_id,omitempty"`
	WinningNumber  int        `json:"winning_number,omitempty"`
	Prize          int64      `json:"prize,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsActive reports whether tickets can still be issued and a winner drawn.
func (l *Lottery) IsActive() bool {
	return l.Status == LotteryStatusActive
}

// Ticket is a numbered entry in a lottery. Numbers are dense and sequential
// per lottery, so the winning ticket is a single indexed lookup by
// (lottery_id, number) instead of a scan.
type Ticket struct {
	ID        string    `json:"id"`
	LotteryID string    `json:"lottery_id"`
	UserID    string    `json:"user_id"`
	Number    int       `json:"number"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
