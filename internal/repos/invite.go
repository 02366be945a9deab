package repos

import (
  "context"
  "time"

  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type InviteRepo interface {
  Create(ctx context.Context, tx *gorm.DB, invites []*types.Invite) ([]*types.Invite, error)
  GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Invite, error)
  Approve(ctx context.Context, tx *gorm.DB, email string) error
}

type inviteRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInviteRepo(db *gorm.DB, baseLog *logger.Logger) InviteRepo {
  repoLog := baseLog.With("repo", "InviteRepo")
  return &inviteRepo{db: db, log: repoLog}
}

func (r *inviteRepo) Create(ctx context.Context, tx *gorm.DB, invites []*types.Invite) ([]*types.Invite, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(invites) == 0 {
    return []*types.Invite{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&invites).Error; err != nil {
    return nil, err
  }
  return invites, nil
}

func (r *inviteRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Invite, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var invite types.Invite
  err := transaction.WithContext(ctx).
    Where("email = ?", email).
    Limit(1).
    Find(&invite).Error
  if err != nil {
    return nil, err
  }
  if invite.Email == "" {
    return nil, nil
  }
  return &invite, nil
}

func (r *inviteRepo) Approve(ctx context.Context, tx *gorm.DB, email string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.Invite{}).
    Where("email = ?", email).
    Updates(map[string]interface{}{
      "approved":    true,
      "approved_at": now,
      "updated_at":  now,
    }).Error
}
