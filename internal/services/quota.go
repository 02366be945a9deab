package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/normalization"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
  "github.com/bizzdev-ai/bizzdev-backend/internal/utils"
)

// ErrQuotaExceeded is returned when a user has no generations left in the
// current UTC calendar month.
var ErrQuotaExceeded = errors.New("monthly generation quota exceeded")

type QuotaService interface {
  Check(ctx context.Context, userID uuid.UUID, email string) error
  Consume(ctx context.Context, userID, documentID uuid.UUID) error
  Remaining(ctx context.Context, userID uuid.UUID, email string) (int, error)
  Limit() int
}

type quotaService struct {
  usageRepo    repos.QuotaUsageRepo
  log          *logger.Logger
  monthlyLimit int
  masterEmails map[string]struct{}
  disabled     bool
}

func NewQuotaService(usageRepo repos.QuotaUsageRepo, log *logger.Logger) QuotaService {
  svcLog := log.With("service", "QuotaService")
  masters := map[string]struct{}{}
  for _, email := range utils.GetEnvAsList("QUOTA_MASTER_EMAILS", nil, log) {
    masters[normalization.ParseInputString(email)] = struct{}{}
  }
  return &quotaService{
    usageRepo:    usageRepo,
    log:          svcLog,
    monthlyLimit: utils.GetEnvAsInt("QUOTA_MONTHLY_LIMIT", 10, log),
    masterEmails: masters,
    disabled:     utils.GetEnvAsBool("QUOTA_DISABLED", false, log),
  }
}

// Check allows the call when the user still has quota for the current UTC
// month. Master identities and the global disable switch bypass the count
// entirely.
func (s *quotaService) Check(ctx context.Context, userID uuid.UUID, email string) error {
  if s.bypass(email) {
    return nil
  }
  used, err := s.usedThisMonth(ctx, userID)
  if err != nil {
    return err
  }
  if used >= s.monthlyLimit {
    s.log.Info("quota denied", "user_id", userID, "used", used, "limit", s.monthlyLimit)
    return ErrQuotaExceeded
  }
  return nil
}

// Consume records one successful generation. Called only after the
// document has been persisted, so failed generations never burn quota.
func (s *quotaService) Consume(ctx context.Context, userID, documentID uuid.UUID) error {
  usage := &types.QuotaUsage{
    ID:         uuid.New(),
    UserID:     userID,
    DocumentID: documentID,
    CreatedAt:  time.Now().UTC(),
  }
  if _, err := s.usageRepo.Create(ctx, nil, []*types.QuotaUsage{usage}); err != nil {
    return fmt.Errorf("record quota usage: %w", err)
  }
  return nil
}

// Remaining reports generations left this month, for display. Bypassed
// identities report the full limit.
func (s *quotaService) Remaining(ctx context.Context, userID uuid.UUID, email string) (int, error) {
  if s.bypass(email) {
    return s.monthlyLimit, nil
  }
  used, err := s.usedThisMonth(ctx, userID)
  if err != nil {
    return 0, err
  }
  left := s.monthlyLimit - used
  if left < 0 {
    left = 0
  }
  return left, nil
}

func (s *quotaService) Limit() int {
  return s.monthlyLimit
}

func (s *quotaService) bypass(email string) bool {
  if s.disabled {
    return true
  }
  _, ok := s.masterEmails[normalization.ParseInputString(email)]
  return ok
}

func (s *quotaService) usedThisMonth(ctx context.Context, userID uuid.UUID) (int, error) {
  now := time.Now().UTC()
  from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
  to := from.AddDate(0, 1, 0)
  count, err := s.usageRepo.CountForUserInRange(ctx, nil, userID, from, to)
  if err != nil {
    return 0, fmt.Errorf("count quota usage: %w", err)
  }
  return int(count), nil
}
