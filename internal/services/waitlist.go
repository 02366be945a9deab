package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/normalization"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

// WaitlistService manages the invite gate in front of registration.
// Joining is public and idempotent; approval is an operator action.
type WaitlistService interface {
  Join(ctx context.Context, email string) (*types.Invite, error)
  Approve(ctx context.Context, email string) error
  Status(ctx context.Context, email string) (*types.Invite, error)
}

type waitlistService struct {
  db         *gorm.DB
  log        *logger.Logger
  inviteRepo repos.InviteRepo
}

func NewWaitlistService(db *gorm.DB, log *logger.Logger, inviteRepo repos.InviteRepo) WaitlistService {
  return &waitlistService{
    db:         db,
    log:        log.With("service", "WaitlistService"),
    inviteRepo: inviteRepo,
  }
}

func (ws *waitlistService) Join(ctx context.Context, email string) (*types.Invite, error) {
  email = normalization.ParseInputString(email)
  if email == "" {
    return nil, fmt.Errorf("email is required to join the waitlist")
  }
  existing, err := ws.inviteRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return nil, fmt.Errorf("failed to check waitlist: %w", err)
  }
  if existing != nil {
    return existing, nil
  }
  invite := &types.Invite{
    ID:    uuid.New(),
    Email: email,
  }
  created, err := ws.inviteRepo.Create(ctx, nil, []*types.Invite{invite})
  if err != nil {
    return nil, fmt.Errorf("failed to join waitlist: %w", err)
  }
  ws.log.Info("waitlist joined", "email", email)
  return created[0], nil
}

func (ws *waitlistService) Approve(ctx context.Context, email string) error {
  email = normalization.ParseInputString(email)
  if email == "" {
    return fmt.Errorf("email is required")
  }
  existing, err := ws.inviteRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return fmt.Errorf("failed to check waitlist: %w", err)
  }
  if existing == nil {
    now := time.Now()
    invite := &types.Invite{
      ID:         uuid.New(),
      Email:      email,
      Approved:   true,
      ApprovedAt: &now,
    }
    if _, cErr := ws.inviteRepo.Create(ctx, nil, []*types.Invite{invite}); cErr != nil {
      return fmt.Errorf("failed to create approved invite: %w", cErr)
    }
    return nil
  }
  if err := ws.inviteRepo.Approve(ctx, nil, email); err != nil {
    return fmt.Errorf("failed to approve invite: %w", err)
  }
  ws.log.Info("invite approved", "email", email)
  return nil
}

func (ws *waitlistService) Status(ctx context.Context, email string) (*types.Invite, error) {
  email = normalization.ParseInputString(email)
  if email == "" {
    return nil, fmt.Errorf("email is required")
  }
  return ws.inviteRepo.GetByEmail(ctx, nil, email)
}
