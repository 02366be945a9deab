package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type UserService interface {
  GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
  GetQuotaStatus(ctx context.Context, userID uuid.UUID, email string) (used, limit int, err error)
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
  quota    QuotaService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, quota QuotaService) UserService {
  return &userService{
    db:       db,
    log:      log.With("service", "UserService"),
    userRepo: userRepo,
    quota:    quota,
  }
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("user not found")
  }
  return users[0], nil
}

func (us *userService) GetQuotaStatus(ctx context.Context, userID uuid.UUID, email string) (int, int, error) {
  remaining, err := us.quota.Remaining(ctx, userID, email)
  if err != nil {
    return 0, 0, err
  }
  limit := us.quota.Limit()
  return limit - remaining, limit, nil
}
