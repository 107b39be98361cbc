package service

import (
	"context"

	"github.com/dealheat/dealheat-go/internal/model"
	"github.com/dealheat/dealheat-go/internal/repository"
)

type UserService struct {
	repo *repository.UserRepo
}

func NewUserService(repo *repository.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Lookup returns the reputation response for a given user ID.
func (s *UserService) Lookup(ctx context.Context, userID int64) (*model.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.UserResponse{
		UserID:   u.ID,
		Username: u.Username,
		Karma:    u.Karma,
		Level:    u.Level,
	}, nil
}
