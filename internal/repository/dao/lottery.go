package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrLotteryNotFound = errors.New("lottery not found")
	ErrTicketNotFound  = errors.New("ticket not found")
)

type Lottery struct {
	ID string `gorm:"primaryKey"`

	Title       string
	Status      string `gorm:"not null;default:active;index:idx_lotteries_status_ends_at"`
	TicketPrice int64  `gorm:"not null"`
	MaxTickets  *int
	TicketsSold int        `gorm:"not null;default:0"`
	EndsAt      *time.Time `gorm:"index:idx_lotteries_status_ends_at"`

	WinnerUserID   string
	WinnerTicketID string
	WinningNumber  int
	Prize          int64
	EndedAt        *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Ticket struct {
	ID string `gorm:"primaryKey"`

	LotteryID string `gorm:"not null;uniqueIndex:idx_tickets_lottery_number"`
	UserID    string `gorm:"not null;index"`
	Number    int    `gorm:"not null;uniqueIndex:idx_tickets_lottery_number"`
	Price     int64  `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type LotteryDAO struct {
	db *gorm.DB
}

func NewLotteryDAO(db *gorm.DB) *LotteryDAO {
	return &LotteryDAO{
		db: db,
	}
}

func (d *LotteryDAO) FindByID(ctx context.Context, id string) (Lottery, error) {
	var lottery Lottery

	result := d.db.WithContext(ctx).First(&lottery, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Lottery{}, ErrLotteryNotFound
		}

		return Lottery{}, result.Error
	}

	return lottery, nil
}

// FindByIDForUpdate locks the lottery row so that concurrent purchases and
// draws on the same lottery serialize on it.
func (d *LotteryDAO) FindByIDForUpdate(ctx context.Context, id string) (Lottery, error) {
	var lottery Lottery

	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lottery, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Lottery{}, ErrLotteryNotFound
		}

		return Lottery{}, result.Error
	}

	return lottery, nil
}

func (d *LotteryDAO) UpdateTicketsSold(ctx context.Context, id string, sold int) error {
	result := d.db.WithContext(ctx).
		Model(&Lottery{}).
		Where("id = ?", id).
		Updates(map[string]any{"tickets_sold": sold, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLotteryNotFound
	}

	return nil
}

// End flips the lottery to its terminal state and records the winner fields.
// The update is guarded on status so a lottery can end exactly once.
func (d *LotteryDAO) End(ctx context.Context, lottery Lottery) error {
	result := d.db.WithContext(ctx).
		Model(&Lottery{}).
		Where("id = ? AND status = ?", lottery.ID, "active").
		Updates(map[string]any{
			"status":           lottery.Status,
			"winner_user_id":   lottery.WinnerUserID,
			"winner_ticket_id": lottery.WinnerTicketID,
			"winning_number":   lottery.WinningNumber,
			"prize":            lottery.Prize,
			"ended_at":         lottery.EndedAt,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLotteryNotFound
	}

	return nil
}

func (d *LotteryDAO) InsertTicket(ctx context.Context, ticket Ticket) error {
	return d.db.WithContext(ctx).Create(&ticket).Error
}

func (d *LotteryDAO) FindTicketByNumber(ctx context.Context, lotteryID string, number int) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		First(&ticket, "lottery_id = ? AND number = ?", lotteryID, number)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *LotteryDAO) FindTicketsByUser(ctx context.Context, userID string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *LotteryDAO) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]Lottery, error) {
	var lotteries []Lottery

	result := d.db.WithContext(ctx).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at <= ?", "active", now).
		Order("ends_at").
		Limit(limit).
		Find(&lotteries)
	if result.Error != nil {
		return nil, result.Error
	}

	return lotteries, nil
}
