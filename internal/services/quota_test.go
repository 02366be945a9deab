package services

import (
  "context"
  "errors"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type fakeQuotaUsageRepo struct {
  count   int64
  created []*types.QuotaUsage
}

func (f *fakeQuotaUsageRepo) Create(ctx context.Context, tx *gorm.DB, usages []*types.QuotaUsage) ([]*types.QuotaUsage, error) {
  f.created = append(f.created, usages...)
  f.count += int64(len(usages))
  return usages, nil
}

func (f *fakeQuotaUsageRepo) CountForUserInRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error) {
  now := time.Now().UTC()
  wantFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
  if !from.Equal(wantFrom) {
    return 0, errors.New("window start is not the first of the current UTC month")
  }
  if !to.Equal(wantFrom.AddDate(0, 1, 0)) {
    return 0, errors.New("window end is not the first of the next UTC month")
  }
  return f.count, nil
}

func TestQuotaCheckUnderLimit(t *testing.T) {
  repo := &fakeQuotaUsageRepo{count: 9}
  svc := NewQuotaService(repo, newTestLogger(t))

  if err := svc.Check(context.Background(), uuid.New(), "user@example.com"); err != nil {
    t.Fatalf("check under limit failed: %v", err)
  }
}

func TestQuotaCheckAtLimit(t *testing.T) {
  repo := &fakeQuotaUsageRepo{count: 10}
  svc := NewQuotaService(repo, newTestLogger(t))

  err := svc.Check(context.Background(), uuid.New(), "user@example.com")
  if !errors.Is(err, ErrQuotaExceeded) {
    t.Fatalf("want ErrQuotaExceeded, got %v", err)
  }
}

func TestQuotaMasterEmailBypass(t *testing.T) {
  t.Setenv("QUOTA_MASTER_EMAILS", "boss@bizzdev.ai, other@bizzdev.ai")
  repo := &fakeQuotaUsageRepo{count: 100}
  svc := NewQuotaService(repo, newTestLogger(t))

  if err := svc.Check(context.Background(), uuid.New(), "BOSS@bizzdev.ai"); err != nil {
    t.Fatalf("master email must bypass quota: %v", err)
  }
  if err := svc.Check(context.Background(), uuid.New(), "user@example.com"); !errors.Is(err, ErrQuotaExceeded) {
    t.Fatalf("non-master must still be limited, got %v", err)
  }
}

func TestQuotaDisabledBypass(t *testing.T) {
  t.Setenv("QUOTA_DISABLED", "true")
  repo := &fakeQuotaUsageRepo{count: 100}
  svc := NewQuotaService(repo, newTestLogger(t))

  if err := svc.Check(context.Background(), uuid.New(), "user@example.com"); err != nil {
    t.Fatalf("disabled quota must bypass count: %v", err)
  }
}

func TestQuotaConsumeRecordsUsage(t *testing.T) {
  repo := &fakeQuotaUsageRepo{}
  svc := NewQuotaService(repo, newTestLogger(t))

  userID := uuid.New()
  docID := uuid.New()
  if err := svc.Consume(context.Background(), userID, docID); err != nil {
    t.Fatalf("consume failed: %v", err)
  }
  if len(repo.created) != 1 {
    t.Fatalf("usage rows: want=1 got=%d", len(repo.created))
  }
  if repo.created[0].UserID != userID || repo.created[0].DocumentID != docID {
    t.Fatalf("usage row has wrong ids")
  }
}

func TestQuotaRemaining(t *testing.T) {
  repo := &fakeQuotaUsageRepo{count: 7}
  svc := NewQuotaService(repo, newTestLogger(t))

  left, err := svc.Remaining(context.Background(), uuid.New(), "user@example.com")
  if err != nil {
    t.Fatalf("remaining failed: %v", err)
  }
  if left != 3 {
    t.Fatalf("remaining: want=3 got=%d", left)
  }
}
