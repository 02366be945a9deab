package services

import (
  "context"
  "encoding/json"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/requestdata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/ssedata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type RunService interface {
  CreateRun(ctx context.Context, userID uuid.UUID, run *types.Run) (*types.Run, error)
  GetRun(ctx context.Context, userID, runID uuid.UUID) (*types.Run, error)
  ListRuns(ctx context.Context, userID uuid.UUID) ([]*types.Run, error)
  UpdateRun(ctx context.Context, userID, runID uuid.UUID, updates map[string]interface{}) (*types.Run, error)
  DeleteRun(ctx context.Context, userID, runID uuid.UUID) error

  // GeneratePlaybook loads the run's company, product and ICP, creates the
  // document row and executes the generation pipeline synchronously.
  GeneratePlaybook(ctx context.Context, userID, runID uuid.UUID) (*types.Document, error)
}

type runService struct {
  db          *gorm.DB
  log         *logger.Logger
  runRepo     repos.RunRepo
  companyRepo repos.CompanyRepo
  productRepo repos.ProductRepo
  icpRepo     repos.ICPRepo
  docRepo     repos.DocumentRepo
  playbook    PlaybookService
}

func NewRunService(
  db *gorm.DB,
  log *logger.Logger,
  runRepo repos.RunRepo,
  companyRepo repos.CompanyRepo,
  productRepo repos.ProductRepo,
  icpRepo repos.ICPRepo,
  docRepo repos.DocumentRepo,
  playbook PlaybookService,
) RunService {
  return &runService{
    db:          db,
    log:         log.With("service", "RunService"),
    runRepo:     runRepo,
    companyRepo: companyRepo,
    productRepo: productRepo,
    icpRepo:     icpRepo,
    docRepo:     docRepo,
    playbook:    playbook,
  }
}

func (rs *runService) CreateRun(ctx context.Context, userID uuid.UUID, run *types.Run) (*types.Run, error) {
  if run.CompanyID == uuid.Nil || run.ProductID == uuid.Nil {
    return nil, fmt.Errorf("a run requires a company and a product")
  }
  if _, err := rs.ownedCompany(ctx, userID, run.CompanyID); err != nil {
    return nil, err
  }
  if _, err := rs.ownedProduct(ctx, userID, run.ProductID); err != nil {
    return nil, err
  }
  if run.ICPID != nil {
    if _, err := rs.ownedICP(ctx, userID, *run.ICPID); err != nil {
      return nil, err
    }
  }
  run.ID = uuid.New()
  run.UserID = userID
  run.Status = types.RunStatusDraft
  created, err := rs.runRepo.Create(ctx, nil, []*types.Run{run})
  if err != nil {
    return nil, fmt.Errorf("failed to create run: %w", err)
  }
  if ssd := ssedata.GetSSEData(ctx); ssd != nil {
    ssd.AppendMessage(sse.SSEMessage{
      Channel: "user:" + userID.String(),
      Event:   sse.SSEEventRunCreated,
      Data:    created[0],
    })
  } else {
    rs.log.Debug("no sse data in context, skipping RunCreated append")
  }
  return created[0], nil
}

func (rs *runService) GetRun(ctx context.Context, userID, runID uuid.UUID) (*types.Run, error) {
  runs, err := rs.runRepo.GetByIDs(ctx, nil, []uuid.UUID{runID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch run: %w", err)
  }
  if len(runs) == 0 || runs[0].UserID != userID {
    return nil, fmt.Errorf("run not found")
  }
  return runs[0], nil
}

func (rs *runService) ListRuns(ctx context.Context, userID uuid.UUID) ([]*types.Run, error) {
  return rs.runRepo.ListByUserID(ctx, nil, userID)
}

func (rs *runService) UpdateRun(ctx context.Context, userID, runID uuid.UUID, updates map[string]interface{}) (*types.Run, error) {
  if _, err := rs.GetRun(ctx, userID, runID); err != nil {
    return nil, err
  }
  if err := rs.runRepo.UpdateFields(ctx, nil, runID, updates); err != nil {
    return nil, fmt.Errorf("failed to update run: %w", err)
  }
  run, err := rs.GetRun(ctx, userID, runID)
  if err != nil {
    return nil, err
  }
  if ssd := ssedata.GetSSEData(ctx); ssd != nil {
    ssd.AppendMessage(sse.SSEMessage{
      Channel: "user:" + userID.String(),
      Event:   sse.SSEEventRunUpdated,
      Data:    run,
    })
  } else {
    rs.log.Debug("no sse data in context, skipping RunUpdated append")
  }
  return run, nil
}

func (rs *runService) DeleteRun(ctx context.Context, userID, runID uuid.UUID) error {
  if _, err := rs.GetRun(ctx, userID, runID); err != nil {
    return err
  }
  if err := rs.runRepo.Delete(ctx, nil, runID); err != nil {
    return fmt.Errorf("failed to delete run: %w", err)
  }
  return nil
}

func (rs *runService) GeneratePlaybook(ctx context.Context, userID, runID uuid.UUID) (*types.Document, error) {
  run, err := rs.GetRun(ctx, userID, runID)
  if err != nil {
    return nil, err
  }
  if run.Status == types.RunStatusGenerating {
    return nil, fmt.Errorf("run is already generating")
  }

  company, err := rs.ownedCompany(ctx, userID, run.CompanyID)
  if err != nil {
    return nil, err
  }
  product, err := rs.ownedProduct(ctx, userID, run.ProductID)
  if err != nil {
    return nil, err
  }
  var icp *types.ICP
  if run.ICPID != nil {
    icp, err = rs.ownedICP(ctx, userID, *run.ICPID)
    if err != nil {
      return nil, err
    }
  }

  input := buildGenerationInput(company, product, icp, run)

  doc := &types.Document{
    ID:     uuid.New(),
    UserID: userID,
    RunID:  run.ID,
    Title:  fmt.Sprintf("%s — %s Sales Playbook", company.Name, product.Name),
  }
  if _, err := rs.docRepo.Create(ctx, nil, []*types.Document{doc}); err != nil {
    return nil, fmt.Errorf("failed to create document: %w", err)
  }

  if err := rs.runRepo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
    "status": types.RunStatusGenerating,
  }); err != nil {
    return nil, fmt.Errorf("failed to mark run generating: %w", err)
  }

  email := ""
  if rd := requestdata.GetRequestData(ctx); rd != nil {
    email = rd.Email
  }

  return rs.playbook.RunGeneration(ctx, userID, email, run.ID, doc.ID, input)
}

func (rs *runService) ownedCompany(ctx context.Context, userID, id uuid.UUID) (*types.Company, error) {
  rows, err := rs.companyRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch company: %w", err)
  }
  if len(rows) == 0 || rows[0].UserID != userID {
    return nil, fmt.Errorf("company not found")
  }
  return rows[0], nil
}

func (rs *runService) ownedProduct(ctx context.Context, userID, id uuid.UUID) (*types.Product, error) {
  rows, err := rs.productRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch product: %w", err)
  }
  if len(rows) == 0 || rows[0].UserID != userID {
    return nil, fmt.Errorf("product not found")
  }
  return rows[0], nil
}

func (rs *runService) ownedICP(ctx context.Context, userID, id uuid.UUID) (*types.ICP, error) {
  rows, err := rs.icpRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch icp: %w", err)
  }
  if len(rows) == 0 || rows[0].UserID != userID {
    return nil, fmt.Errorf("icp not found")
  }
  return rows[0], nil
}

func buildGenerationInput(company *types.Company, product *types.Product, icp *types.ICP, run *types.Run) GenerationInput {
  input := GenerationInput{
    CompanyName:     company.Name,
    CompanyIndustry: company.Industry,
    CompanySize:     company.Size,
    CompanyRegion:   company.Region,

    ProductName:           product.Name,
    ProductSummary:        product.Summary,
    ProductDifferentiator: product.Differentiator,
    ProductPricingModel:   product.PricingModel,
    ProductAssets:         product.Assets,
    ProductIntegrations:   product.Integrations,
    ProductCategory:       product.Category,
    ValueProps:            jsonStringSlice(product.ValueProps),
    ProofPoints:           jsonStringSlice(product.ProofPoints),

    Tone:            run.Tone,
    ExperienceLevel: run.ExperienceLevel,
    WordLimit:       run.WordLimit,
    Language:        run.Language,
  }
  if icp != nil {
    input.ICPName = icp.Name
    input.ICPIndustry = icp.Industry
    input.ICPCompanySize = icp.CompanySize
    input.BuyerRoles = jsonStringSlice(icp.BuyerRoles)
    input.PainPoints = jsonStringSlice(icp.PainPoints)
    input.ICPDescription = icp.Description
    input.UseCases = icp.UseCases
    input.DecisionMakers = icp.DecisionMakers
    input.Influencers = icp.Influencers
    input.Triggers = icp.Triggers
    input.DealBreakers = icp.DealBreakers
    input.Regions = icp.Regions
    input.Objections = icp.Objections
  }
  return input
}

// jsonStringSlice decodes a jsonb array column into plain strings,
// tolerating nulls and mixed element types.
func jsonStringSlice(raw datatypes.JSON) []string {
  if len(raw) == 0 {
    return nil
  }
  var anyVals []any
  if err := json.Unmarshal(raw, &anyVals); err != nil {
    return nil
  }
  out := make([]string, 0, len(anyVals))
  for _, v := range anyVals {
    if s, ok := v.(string); ok && s != "" {
      out = append(out, s)
    }
  }
  return out
}
