package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/normalization"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type ICPService interface {
  CreateICP(ctx context.Context, userID uuid.UUID, icp *types.ICP) (*types.ICP, error)
  GetICP(ctx context.Context, userID, icpID uuid.UUID) (*types.ICP, error)
  ListICPs(ctx context.Context, userID uuid.UUID) ([]*types.ICP, error)
  UpdateICP(ctx context.Context, userID, icpID uuid.UUID, updates map[string]interface{}) (*types.ICP, error)
  DeleteICP(ctx context.Context, userID, icpID uuid.UUID) error
}

type icpService struct {
  db      *gorm.DB
  log     *logger.Logger
  icpRepo repos.ICPRepo
}

func NewICPService(db *gorm.DB, log *logger.Logger, icpRepo repos.ICPRepo) ICPService {
  return &icpService{
    db:      db,
    log:     log.With("service", "ICPService"),
    icpRepo: icpRepo,
  }
}

func (is *icpService) CreateICP(ctx context.Context, userID uuid.UUID, icp *types.ICP) (*types.ICP, error) {
  icp.Name = normalization.TrimInputString(icp.Name)
  if icp.Name == "" {
    return nil, fmt.Errorf("icp name is required")
  }
  icp.ID = uuid.New()
  icp.UserID = userID
  created, err := is.icpRepo.Create(ctx, nil, []*types.ICP{icp})
  if err != nil {
    return nil, fmt.Errorf("failed to create icp: %w", err)
  }
  return created[0], nil
}

func (is *icpService) GetICP(ctx context.Context, userID, icpID uuid.UUID) (*types.ICP, error) {
  icps, err := is.icpRepo.GetByIDs(ctx, nil, []uuid.UUID{icpID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch icp: %w", err)
  }
  if len(icps) == 0 || icps[0].UserID != userID {
    return nil, fmt.Errorf("icp not found")
  }
  return icps[0], nil
}

func (is *icpService) ListICPs(ctx context.Context, userID uuid.UUID) ([]*types.ICP, error) {
  return is.icpRepo.ListByUserID(ctx, nil, userID)
}

func (is *icpService) UpdateICP(ctx context.Context, userID, icpID uuid.UUID, updates map[string]interface{}) (*types.ICP, error) {
  if _, err := is.GetICP(ctx, userID, icpID); err != nil {
    return nil, err
  }
  if err := is.icpRepo.UpdateFields(ctx, nil, icpID, updates); err != nil {
    return nil, fmt.Errorf("failed to update icp: %w", err)
  }
  return is.GetICP(ctx, userID, icpID)
}

func (is *icpService) DeleteICP(ctx context.Context, userID, icpID uuid.UUID) error {
  if _, err := is.GetICP(ctx, userID, icpID); err != nil {
    return err
  }
  if err := is.icpRepo.Delete(ctx, nil, icpID); err != nil {
    return fmt.Errorf("failed to delete icp: %w", err)
  }
  return nil
}
