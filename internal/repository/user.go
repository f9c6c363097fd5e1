package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/repository/dao"
)

type UserRepository struct {
	users  *dao.UserDAO
	ledger *dao.LedgerDAO
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		users:  dao.NewUserDAO(db),
		ledger: dao.NewLedgerDAO(db),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	return userDaoToDomain(user), nil
}

func (r *UserRepository) FindLedgerEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	entries, err := r.ledger.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.ledger.FindByUser -> %w", err)
	}

	result := make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		result[i] = domain.LedgerEntry{
			ID:        e.ID,
			UserID:    e.UserID,
			Type:      domain.LedgerEntryType(e.Type),
			Amount:    e.Amount,
			LotteryID: e.LotteryID,
			TicketID:  e.TicketID,
			CreatedAt: e.CreatedAt,
		}
	}

	return result, nil
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
