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

type CompanyService interface {
  CreateCompany(ctx context.Context, userID uuid.UUID, company *types.Company) (*types.Company, error)
  GetCompany(ctx context.Context, userID, companyID uuid.UUID) (*types.Company, error)
  ListCompanies(ctx context.Context, userID uuid.UUID) ([]*types.Company, error)
  UpdateCompany(ctx context.Context, userID, companyID uuid.UUID, updates map[string]interface{}) (*types.Company, error)
  DeleteCompany(ctx context.Context, userID, companyID uuid.UUID) error
}

type companyService struct {
  db          *gorm.DB
  log         *logger.Logger
  companyRepo repos.CompanyRepo
}

func NewCompanyService(db *gorm.DB, log *logger.Logger, companyRepo repos.CompanyRepo) CompanyService {
  return &companyService{
    db:          db,
    log:         log.With("service", "CompanyService"),
    companyRepo: companyRepo,
  }
}

func (cs *companyService) CreateCompany(ctx context.Context, userID uuid.UUID, company *types.Company) (*types.Company, error) {
  company.Name = normalization.TrimInputString(company.Name)
  if company.Name == "" {
    return nil, fmt.Errorf("company name is required")
  }
  company.ID = uuid.New()
  company.UserID = userID
  created, err := cs.companyRepo.Create(ctx, nil, []*types.Company{company})
  if err != nil {
    return nil, fmt.Errorf("failed to create company: %w", err)
  }
  return created[0], nil
}

func (cs *companyService) GetCompany(ctx context.Context, userID, companyID uuid.UUID) (*types.Company, error) {
  companies, err := cs.companyRepo.GetByIDs(ctx, nil, []uuid.UUID{companyID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch company: %w", err)
  }
  if len(companies) == 0 || companies[0].UserID != userID {
    return nil, fmt.Errorf("company not found")
  }
  return companies[0], nil
}

func (cs *companyService) ListCompanies(ctx context.Context, userID uuid.UUID) ([]*types.Company, error) {
  return cs.companyRepo.ListByUserID(ctx, nil, userID)
}

func (cs *companyService) UpdateCompany(ctx context.Context, userID, companyID uuid.UUID, updates map[string]interface{}) (*types.Company, error) {
  if _, err := cs.GetCompany(ctx, userID, companyID); err != nil {
    return nil, err
  }
  if name, ok := updates["name"].(string); ok {
    name = normalization.TrimInputString(name)
    if name == "" {
      return nil, fmt.Errorf("company name cannot be empty")
    }
    updates["name"] = name
  }
  if err := cs.companyRepo.UpdateFields(ctx, nil, companyID, updates); err != nil {
    return nil, fmt.Errorf("failed to update company: %w", err)
  }
  return cs.GetCompany(ctx, userID, companyID)
}

func (cs *companyService) DeleteCompany(ctx context.Context, userID, companyID uuid.UUID) error {
  if _, err := cs.GetCompany(ctx, userID, companyID); err != nil {
    return err
  }
  if err := cs.companyRepo.Delete(ctx, nil, companyID); err != nil {
    return fmt.Errorf("failed to delete company: %w", err)
  }
  return nil
}
