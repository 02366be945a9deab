package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type ICPRepo interface {
  Create(ctx context.Context, tx *gorm.DB, icps []*types.ICP) ([]*types.ICP, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ICP, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ICP, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type icpRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewICPRepo(db *gorm.DB, baseLog *logger.Logger) ICPRepo {
  repoLog := baseLog.With("repo", "ICPRepo")
  return &icpRepo{db: db, log: repoLog}
}

func (r *icpRepo) Create(ctx context.Context, tx *gorm.DB, icps []*types.ICP) ([]*types.ICP, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(icps) == 0 {
    return []*types.ICP{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&icps).Error; err != nil {
    return nil, err
  }
  return icps, nil
}

func (r *icpRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ICP, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.ICP
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *icpRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ICP, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.ICP
  if userID == uuid.Nil {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *icpRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if id == uuid.Nil {
    return nil
  }
  if updates == nil {
    updates = map[string]interface{}{}
  }
  if _, ok := updates["updated_at"]; !ok {
    updates["updated_at"] = time.Now()
  }
  return transaction.WithContext(ctx).
    Model(&types.ICP{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *icpRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if id == uuid.Nil {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.ICP{}).Error
}
