package domain

import "time"

type LedgerEntryType string

const (
	LedgerTicketPurchase LedgerEntryType = "ticket_purchase"
	LedgerLotteryWin     LedgerEntryType = "lottery_win"
)

// LedgerEntry is an immutable record of a balance-affecting event.
// Amounts are signed: purchases are negative, winnings positive.
type LedgerEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      LedgerEntryType `json:"type"`
	Amount    int64           `json:"amount"`
	LotteryID string          `json:"lottery_id,omitempty"`
	TicketID  string          `json:"ticket_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
