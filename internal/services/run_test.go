package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/ssedata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type fakeCompanyRepo struct {
  company *types.Company
}

func (f *fakeCompanyRepo) Create(ctx context.Context, tx *gorm.DB, companies []*types.Company) ([]*types.Company, error) {
  return companies, nil
}
func (f *fakeCompanyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Company, error) {
  if f.company == nil {
    return nil, nil
  }
  return []*types.Company{f.company}, nil
}
func (f *fakeCompanyRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Company, error) {
  return nil, nil
}
func (f *fakeCompanyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  return nil
}
func (f *fakeCompanyRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  return nil
}

type fakeProductRepo struct {
  product *types.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
  return products, nil
}
func (f *fakeProductRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Product, error) {
  if f.product == nil {
    return nil, nil
  }
  return []*types.Product{f.product}, nil
}
func (f *fakeProductRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Product, error) {
  return nil, nil
}
func (f *fakeProductRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  return nil
}
func (f *fakeProductRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  return nil
}

type fakeICPRepo struct {
  icp *types.ICP
}

func (f *fakeICPRepo) Create(ctx context.Context, tx *gorm.DB, icps []*types.ICP) ([]*types.ICP, error) {
  return icps, nil
}
func (f *fakeICPRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ICP, error) {
  if f.icp == nil {
    return nil, nil
  }
  return []*types.ICP{f.icp}, nil
}
func (f *fakeICPRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ICP, error) {
  return nil, nil
}
func (f *fakeICPRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  return nil
}
func (f *fakeICPRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  return nil
}

func newTestRunService(t *testing.T, userID uuid.UUID, companyID, productID uuid.UUID) RunService {
  t.Helper()
  log := newTestLogger(t)
  companyRepo := &fakeCompanyRepo{company: &types.Company{ID: companyID, UserID: userID, Name: "Acme"}}
  productRepo := &fakeProductRepo{product: &types.Product{ID: productID, UserID: userID, Name: "RocketAI"}}
  return NewRunService(nil, log, &fakeRunRepo{}, companyRepo, productRepo, &fakeICPRepo{}, &fakeDocRepo{}, nil)
}

func TestCreateRunQueuesEventForRequestFlush(t *testing.T) {
  userID := uuid.New()
  companyID := uuid.New()
  productID := uuid.New()
  svc := newTestRunService(t, userID, companyID, productID)

  ctx := ssedata.WithSSEData(context.Background())
  created, err := svc.CreateRun(ctx, userID, &types.Run{
    Name:      "Q3 outbound",
    CompanyID: companyID,
    ProductID: productID,
  })
  if err != nil {
    t.Fatalf("CreateRun failed: %v", err)
  }

  ssd := ssedata.GetSSEData(ctx)
  if ssd == nil || len(ssd.Messages) != 1 {
    t.Fatalf("queued messages: want=1 got=%d", len(ssd.Messages))
  }
  msg := ssd.Messages[0]
  if msg.Event != sse.SSEEventRunCreated {
    t.Fatalf("event: want=%q got=%q", sse.SSEEventRunCreated, msg.Event)
  }
  if msg.Channel != "user:"+userID.String() {
    t.Fatalf("channel: want=%q got=%q", "user:"+userID.String(), msg.Channel)
  }
  if created.Status != types.RunStatusDraft {
    t.Fatalf("status: want=%q got=%q", types.RunStatusDraft, created.Status)
  }
}

func TestCreateRunWithoutSSEDataStillSucceeds(t *testing.T) {
  userID := uuid.New()
  companyID := uuid.New()
  productID := uuid.New()
  svc := newTestRunService(t, userID, companyID, productID)

  created, err := svc.CreateRun(context.Background(), userID, &types.Run{
    Name:      "Q3 outbound",
    CompanyID: companyID,
    ProductID: productID,
  })
  if err != nil {
    t.Fatalf("CreateRun failed: %v", err)
  }
  if created.ID == uuid.Nil {
    t.Fatalf("run id not assigned")
  }
}
