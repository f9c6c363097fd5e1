package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/repository/dao"
)

var (
	ErrLotteryNotFound = dao.ErrLotteryNotFound
	ErrTicketNotFound  = dao.ErrTicketNotFound
	ErrUserNotFound    = dao.ErrUserNotFound

	// ErrTxConflict is surfaced once the bounded retry budget for write
	// conflicts is exhausted. Callers should treat it as transient.
	ErrTxConflict = errors.New("too much contention, try again")
)

// txMaxRetries bounds client-side retries of a conflicted transaction.
const txMaxRetries = 3

// TicketStore is the view of the store visible inside one atomic
// transaction. Every method reads or writes rows that stay locked until the
// transaction commits or rolls back.
type TicketStore interface {
	LotteryForUpdate(ctx context.Context, id string) (domain.Lottery, error)
	UserForUpdate(ctx context.Context, id string) (domain.User, error)
	SaveUserBalance(ctx context.Context, userID string, balance int64) error
	SetTicketsSold(ctx context.Context, lotteryID string, sold int) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	TicketByNumber(ctx context.Context, lotteryID string, number int) (domain.Ticket, error)
	EndLottery(ctx context.Context, lottery domain.Lottery) error
	AppendLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error
}

type LotteryRepository struct {
	db *gorm.DB
}

func NewLotteryRepository(db *gorm.DB) *LotteryRepository {
	return &LotteryRepository{
		db: db,
	}
}

// Atomically runs fn inside one database transaction. The whole transaction
// is retried with exponential backoff when Postgres reports a write
// conflict; any other error from fn aborts immediately with a full
// rollback.
func (r *LotteryRepository) Atomically(ctx context.Context, fn func(store TicketStore) error) error {
	op := func() error {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&txTicketStore{
				users:   dao.NewUserDAO(tx),
				lottery: dao.NewLotteryDAO(tx),
				ledger:  dao.NewLedgerDAO(tx),
			})
		})
		if err != nil && !dao.IsWriteConflict(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), txMaxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if dao.IsWriteConflict(err) {
			return fmt.Errorf("%w: %v", ErrTxConflict, err)
		}

		return err
	}

	return nil
}

func (r *LotteryRepository) FindByID(ctx context.Context, id string) (domain.Lottery, error) {
	lottery, err := dao.NewLotteryDAO(r.db).FindByID(ctx, id)
	if err != nil {
		return domain.Lottery{}, err
	}

	return lotteryDaoToDomain(lottery), nil
}

func (r *LotteryRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]domain.Lottery, error) {
	lotteries, err := dao.NewLotteryDAO(r.db).FindExpiredActive(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindExpiredActive -> %w", err)
	}

	result := make([]domain.Lottery, len(lotteries))
	for i, l := range lotteries {
		result[i] = lotteryDaoToDomain(l)
	}

	return result, nil
}

func (r *LotteryRepository) FindTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := dao.NewLotteryDAO(r.db).FindTicketsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTicketsByUser -> %w", err)
	}

	result := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		result[i] = ticketDaoToDomain(t)
	}

	return result, nil
}

// txTicketStore binds the DAOs to one open transaction.
type txTicketStore struct {
	users   *dao.UserDAO
	lottery *dao.LotteryDAO
	ledger  *dao.LedgerDAO
}

func (s *txTicketStore) LotteryForUpdate(ctx context.Context, id string) (domain.Lottery, error) {
	lottery, err := s.lottery.FindByIDForUpdate(ctx, id)
	if err != nil {
		return domain.Lottery{}, err
	}

	return lotteryDaoToDomain(lottery), nil
}

func (s *txTicketStore) UserForUpdate(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.FindByIDForUpdate(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	return userDaoToDomain(user), nil
}

func (s *txTicketStore) SaveUserBalance(ctx context.Context, userID string, balance int64) error {
	now := time.Now()

	return s.users.Upsert(ctx, dao.User{
		ID:        userID,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *txTicketStore) SetTicketsSold(ctx context.Context, lotteryID string, sold int) error {
	return s.lottery.UpdateTicketsSold(ctx, lotteryID, sold)
}

func (s *txTicketStore) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	return s.lottery.InsertTicket(ctx, dao.Ticket{
		ID:        ticket.ID,
		LotteryID: ticket.LotteryID,
		UserID:    ticket.UserID,
		Number:    ticket.Number,
		Price:     ticket.Price,
		CreatedAt: ticket.CreatedAt,
	})
}

func (s *txTicketStore) TicketByNumber(ctx context.Context, lotteryID string, number int) (domain.Ticket, error) {
	ticket, err := s.lottery.FindTicketByNumber(ctx, lotteryID, number)
	if err != nil {
		return domain.Ticket{}, err
	}

	return ticketDaoToDomain(ticket), nil
}

func (s *txTicketStore) EndLottery(ctx context.Context, lottery domain.Lottery) error {
	return s.lottery.End(ctx, dao.Lottery{
		ID:             lottery.ID,
		Status:         lottery.Status,
		WinnerUserID:   lottery.WinnerUserID,
		WinnerTicketID: lottery.WinnerTicketID,
		WinningNumber:  lottery.WinningNumber,
		Prize:          lottery.Prize,
		EndedAt:        lottery.EndedAt,
	})
}

func (s *txTicketStore) AppendLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	return s.ledger.Insert(ctx, dao.LedgerEntry{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Type:      string(entry.Type),
		Amount:    entry.Amount,
		LotteryID: entry.LotteryID,
		TicketID:  entry.TicketID,
		CreatedAt: entry.CreatedAt,
	})
}

func lotteryDaoToDomain(l dao.Lottery) domain.Lottery {
	return domain.Lottery{
		ID:             l.ID,
		Title:          l.Title,
		Status:         l.Status,
		TicketPrice:    l.TicketPrice,
		MaxTickets:     l.MaxTickets,
		TicketsSold:    l.TicketsSold,
		EndsAt:         l.EndsAt,
		WinnerUserID:   l.WinnerUserID,
		WinnerTicketID: l.WinnerTicketID,
		WinningNumber:  l.WinningNumber,
		Prize:          l.Prize,
		EndedAt:        l.EndedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:        t.ID,
		LotteryID: t.LotteryID,
		UserID:    t.UserID,
		Number:    t.Number,
		Price:     t.Price,
		CreatedAt: t.CreatedAt,
	}
}
