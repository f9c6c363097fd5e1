package service

import (
	"context"
	"fmt"

	"github.com/Holiuk2005/lotex/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindLedgerEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *UserService) GetLedgerEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	entries, err := s.repo.FindLedgerEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindLedgerEntries -> %w", err)
	}

	return entries, nil
}
