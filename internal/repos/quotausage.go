package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type QuotaUsageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, usages []*types.QuotaUsage) ([]*types.QuotaUsage, error)
  CountForUserInRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error)
}

type quotaUsageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQuotaUsageRepo(db *gorm.DB, baseLog *logger.Logger) QuotaUsageRepo {
  repoLog := baseLog.With("repo", "QuotaUsageRepo")
  return &quotaUsageRepo{db: db, log: repoLog}
}

func (r *quotaUsageRepo) Create(ctx context.Context, tx *gorm.DB, usages []*types.QuotaUsage) ([]*types.QuotaUsage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(usages) == 0 {
    return []*types.QuotaUsage{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&usages).Error; err != nil {
    return nil, err
  }
  return usages, nil
}

func (r *quotaUsageRepo) CountForUserInRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if userID == uuid.Nil {
    return 0, nil
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.QuotaUsage{}).
    Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
