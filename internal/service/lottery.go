package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/repository"
)

var (
	ErrLotteryNotFound = repository.ErrLotteryNotFound
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrTxConflict      = repository.ErrTxConflict

	ErrInvalidQuantity     = errors.New("quantity must be between 1 and 10")
	ErrLotteryNotActive    = errors.New("lottery is not active")
	ErrLotteryEnded        = errors.New("lottery already ended")
	ErrInvalidTicketPrice  = errors.New("lottery has an invalid ticket price")
	ErrNoTicketsAvailable  = errors.New("no more tickets available")
	ErrInvalidBalance      = errors.New("invalid user balance")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoTicketsSold       = errors.New("no tickets sold")

	// ErrWinnerTicketMissing means ticketsSold and the actual ticket rows
	// disagree. That is data corruption, not a state callers can fix.
	ErrWinnerTicketMissing = errors.New("winning ticket not found")
)

const (
	// MaxPurchaseQuantity caps tickets per purchase.
	MaxPurchaseQuantity = 10
)

type LotteryRepository interface {
	Atomically(ctx context.Context, fn func(store repository.TicketStore) error) error
	FindByID(ctx context.Context, id string) (domain.Lottery, error)
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]domain.Lottery, error)
	FindTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
}

type LotteryService struct {
	repo LotteryRepository

	now      func() time.Time
	randIntn func(n int) int
}

func NewLotteryService(repo LotteryRepository) *LotteryService {
	return &LotteryService{
		repo:     repo,
		now:      time.Now,
		randIntn: rand.Intn,
	}
}

// PurchaseTickets debits the buyer and issues quantity sequentially numbered
// tickets, all inside one atomic transaction. Either every effect commits or
// none does.
func (s *LotteryService) PurchaseTickets(ctx context.Context, buyerID, lotteryID string, quantity int) ([]string, error) {
	if quantity < 1 || quantity > MaxPurchaseQuantity {
		return nil, ErrInvalidQuantity
	}

	var ticketIDs []string

	err := s.repo.Atomically(ctx, func(store repository.TicketStore) error {
		lottery, err := store.LotteryForUpdate(ctx, lotteryID)
		if err != nil {
			return err
		}

		if !lottery.IsActive() {
			return ErrLotteryNotActive
		}
		if lottery.EndsAt != nil && !lottery.EndsAt.After(s.now()) {
			return ErrLotteryEnded
		}
		if lottery.TicketPrice <= 0 {
			return ErrInvalidTicketPrice
		}

		newSold := lottery.TicketsSold + quantity
		if lottery.MaxTickets != nil && newSold > *lottery.MaxTickets {
			return ErrNoTicketsAvailable
		}

		buyer, err := store.UserForUpdate(ctx, buyerID)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) {
				return err
			}
			// First purchase provisions the user row with a zero balance.
			buyer = domain.User{ID: buyerID}
		}

		if buyer.Balance < 0 {
			return ErrInvalidBalance
		}

		totalPrice := lottery.TicketPrice * int64(quantity)
		if buyer.Balance < totalPrice {
			return ErrInsufficientBalance
		}

		if err = store.SaveUserBalance(ctx, buyerID, buyer.Balance-totalPrice); err != nil {
			return fmt.Errorf("store.SaveUserBalance -> %w", err)
		}
		if err = store.SetTicketsSold(ctx, lotteryID, newSold); err != nil {
			return fmt.Errorf("store.SetTicketsSold -> %w", err)
		}

		ids := make([]string, 0, quantity)
		now := s.now()
		for i := 0; i < quantity; i++ {
			ticket := domain.Ticket{
				ID:        uuid.NewString(),
				LotteryID: lotteryID,
				UserID:    buyerID,
				Number:    lottery.TicketsSold + i + 1,
				Price:     lottery.TicketPrice,
				CreatedAt: now,
			}
			if err = store.CreateTicket(ctx, ticket); err != nil {
				return fmt.Errorf("store.CreateTicket -> %w", err)
			}

			if err = store.AppendLedgerEntry(ctx, domain.LedgerEntry{
				ID:        uuid.NewString(),
				UserID:    buyerID,
				Type:      domain.LedgerTicketPurchase,
				Amount:    -lottery.TicketPrice,
				LotteryID: lotteryID,
				TicketID:  ticket.ID,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("store.AppendLedgerEntry -> %w", err)
			}

			ids = append(ids, ticket.ID)
		}

		ticketIDs = ids

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ticketIDs, nil
}

// DrawWinner finalizes an active lottery on behalf of an administrator.
// A lottery without a single sold ticket cannot be drawn manually.
func (s *LotteryService) DrawWinner(ctx context.Context, lotteryID string) error {
	return s.draw(ctx, lotteryID, false)
}

// FinalizeExpired is the sweeper entry point. Unlike a manual draw it ends a
// zero-ticket lottery quietly with no winner, and treats an already resolved
// lottery as a no-op so overlapping sweeps cannot double-pay.
func (s *LotteryService) FinalizeExpired(ctx context.Context, lotteryID string) error {
	return s.draw(ctx, lotteryID, true)
}

func (s *LotteryService) draw(ctx context.Context, lotteryID string, fromSweep bool) error {
	return s.repo.Atomically(ctx, func(store repository.TicketStore) error {
		lottery, err := store.LotteryForUpdate(ctx, lotteryID)
		if err != nil {
			return err
		}

		if !lottery.IsActive() {
			if fromSweep {
				return nil
			}
			return ErrLotteryNotActive
		}

		now := s.now()

		if lottery.TicketsSold <= 0 {
			if !fromSweep {
				return ErrNoTicketsSold
			}
			lottery.Status = domain.LotteryStatusEnded
			lottery.EndedAt = &now
			return store.EndLottery(ctx, lottery)
		}

		winningNumber := 1 + s.randIntn(lottery.TicketsSold)

		ticket, err := store.TicketByNumber(ctx, lotteryID, winningNumber)
		if err != nil {
			if errors.Is(err, repository.ErrTicketNotFound) {
				return fmt.Errorf("%w: lottery %v, number %v", ErrWinnerTicketMissing, lotteryID, winningNumber)
			}
			return fmt.Errorf("store.TicketByNumber -> %w", err)
		}

		prize := lottery.TicketPrice * int64(lottery.TicketsSold)

		lottery.Status = domain.LotteryStatusEnded
		lottery.WinnerUserID = ticket.UserID
		lottery.WinnerTicketID = ticket.ID
		lottery.WinningNumber = winningNumber
		lottery.Prize = prize
		lottery.EndedAt = &now
		if err = store.EndLottery(ctx, lottery); err != nil {
			return fmt.Errorf("store.EndLottery -> %w", err)
		}

		// The winner's balance is re-read inside this transaction; crediting
		// a stale value would silently lose concurrent balance changes.
		winner, err := store.UserForUpdate(ctx, ticket.UserID)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) {
				return err
			}
			winner = domain.User{ID: ticket.UserID}
		}

		if err = store.SaveUserBalance(ctx, ticket.UserID, winner.Balance+prize); err != nil {
			return fmt.Errorf("store.SaveUserBalance -> %w", err)
		}

		if err = store.AppendLedgerEntry(ctx, domain.LedgerEntry{
			ID:        uuid.NewString(),
			UserID:    ticket.UserID,
			Type:      domain.LedgerLotteryWin,
			Amount:    prize,
			LotteryID: lotteryID,
			TicketID:  ticket.ID,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("store.AppendLedgerEntry -> %w", err)
		}

		return nil
	})
}

func (s *LotteryService) GetLottery(ctx context.Context, id string) (domain.Lottery, error) {
	lottery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Lottery{}, err
	}

	return lottery, nil
}

func (s *LotteryService) GetUserTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindTicketsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTicketsByUser -> %w", err)
	}

	return tickets, nil
}

// FindExpired lists active lotteries whose end time has passed.
func (s *LotteryService) FindExpired(ctx context.Context, now time.Time, limit int) ([]domain.Lottery, error) {
	lotteries, err := s.repo.FindExpiredActive(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindExpiredActive -> %w", err)
	}

	return lotteries, nil
}
