package services

import (
  "context"
  "errors"
  "strings"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type fakeGenAI struct {
  respond     func(req GenerateRequest, mainCall int, repairCall int) (string, error)
  mainCalls   int
  repairCalls int
}

func (f *fakeGenAI) GenerateText(ctx context.Context, req GenerateRequest) (string, error) {
  if len(req.Messages) == 2 {
    f.mainCalls++
    return f.respond(req, f.mainCalls, f.repairCalls)
  }
  f.repairCalls++
  return f.respond(req, f.mainCalls, f.repairCalls)
}

type fakeQuota struct {
  checkErr error
  consumed int
}

func (f *fakeQuota) Check(ctx context.Context, userID uuid.UUID, email string) error { return f.checkErr }
func (f *fakeQuota) Consume(ctx context.Context, userID, documentID uuid.UUID) error {
  f.consumed++
  return nil
}
func (f *fakeQuota) Remaining(ctx context.Context, userID uuid.UUID, email string) (int, error) {
  return 10, nil
}
func (f *fakeQuota) Limit() int { return 10 }

type fakeDocRepo struct {
  doc        *types.Document
  lastUpdate map[string]interface{}
  rows       int64
}

func (f *fakeDocRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error) {
  return docs, nil
}
func (f *fakeDocRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
  if f.doc == nil {
    return nil, nil
  }
  return []*types.Document{f.doc}, nil
}
func (f *fakeDocRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Document, error) {
  return nil, nil
}
func (f *fakeDocRepo) ListByRunID(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.Document, error) {
  return nil, nil
}
func (f *fakeDocRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error) {
  f.lastUpdate = updates
  if f.doc != nil {
    if title, ok := updates["title"].(string); ok {
      f.doc.Title = title
    }
    if md, ok := updates["markdown"].(string); ok {
      f.doc.Markdown = md
      f.doc.Content = md
    }
  }
  return f.rows, nil
}
func (f *fakeDocRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error { return nil }

type fakeRunRepo struct {
  status string
}

func (f *fakeRunRepo) Create(ctx context.Context, tx *gorm.DB, runs []*types.Run) ([]*types.Run, error) {
  return runs, nil
}
func (f *fakeRunRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Run, error) {
  return nil, nil
}
func (f *fakeRunRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Run, error) {
  return nil, nil
}
func (f *fakeRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  if s, ok := updates["status"].(string); ok {
    f.status = s
  }
  return nil
}
func (f *fakeRunRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error { return nil }

type fakeCallRepo struct {
  entries []*types.AICallLog
}

func (f *fakeCallRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.AICallLog) ([]*types.AICallLog, error) {
  f.entries = append(f.entries, logs...)
  return logs, nil
}

func testPolicy() GeneratePolicy {
  return GeneratePolicy{
    Models:            []string{"primary-model", "fallback-model"},
    MaxAttempts:       3,
    CallTimeout:       5 * time.Second,
    RepairTimeout:     time.Second,
    Backoff:           0,
    MainTemperature:   0.3,
    RepairTemperature: 0.1,
    MainMaxTokens:     4096,
    RepairMaxTokens:   256,
  }
}

func newTestPlaybookService(t *testing.T, genai GenAIClient, quota QuotaService, docRepo *fakeDocRepo, runRepo *fakeRunRepo, callRepo *fakeCallRepo) PlaybookService {
  t.Helper()
  log := newTestLogger(t)
  svc := NewPlaybookService(genai, quota, docRepo, runRepo, callRepo, sse.NewSSEHub(log), DefaultPromptConfig(), testPolicy(), log)
  svc.(*playbookService).sleep = func(time.Duration) {}
  return svc
}

func completeResponse(markdown string) string {
  return DelimBeginMD + "\n" + markdown + "\n" + DelimEndMD + "\n" + DelimBeginMeta +
    `{"doc_title":"Acme — RocketAI Sales Playbook","email_subject":"RocketAI: tailored playbook attached","email_preheader":"p","filename_slug":"acme_rocketai_sales-playbook"}` +
    DelimEndMeta
}

func testIDs() (uuid.UUID, uuid.UUID, uuid.UUID) {
  return uuid.New(), uuid.New(), uuid.New()
}

func TestRunGenerationSuccessFirstAttempt(t *testing.T) {
  userID, runID, docID := testIDs()
  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    return completeResponse("# Acme — RocketAI Sales Playbook\nbody"), nil
  }}
  quota := &fakeQuota{}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID, UserID: userID, RunID: runID}, rows: 1}
  runRepo := &fakeRunRepo{}
  callRepo := &fakeCallRepo{}
  svc := newTestPlaybookService(t, genai, quota, docRepo, runRepo, callRepo)

  doc, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput())
  if err != nil {
    t.Fatalf("RunGeneration failed: %v", err)
  }
  if genai.mainCalls != 1 {
    t.Fatalf("main calls: want=1 got=%d", genai.mainCalls)
  }
  if genai.repairCalls != 0 {
    t.Fatalf("repair calls: want=0 got=%d", genai.repairCalls)
  }
  if quota.consumed != 1 {
    t.Fatalf("quota consumed: want=1 got=%d", quota.consumed)
  }
  if doc.Title != "Acme — RocketAI Sales Playbook" {
    t.Fatalf("title: got=%q", doc.Title)
  }
  if runRepo.status != types.RunStatusReady {
    t.Fatalf("run status: want=%q got=%q", types.RunStatusReady, runRepo.status)
  }
  if len(callRepo.entries) != 1 || !callRepo.entries[0].Success {
    t.Fatalf("expected one successful call log entry, got %d", len(callRepo.entries))
  }
}

func TestRunGenerationRepairPath(t *testing.T) {
  userID, runID, docID := testIDs()
  markdownOnly := DelimBeginMD + "\n# Doc\nbody\n" + DelimEndMD
  repairBlock := DelimBeginMeta + `{"doc_title":"Doc","filename_slug":"doc-playbook"}` + DelimEndMeta

  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    if len(req.Messages) == 2 {
      return markdownOnly, nil
    }
    return repairBlock, nil
  }}
  quota := &fakeQuota{}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID, UserID: userID, RunID: runID}, rows: 1}
  runRepo := &fakeRunRepo{}
  callRepo := &fakeCallRepo{}
  svc := newTestPlaybookService(t, genai, quota, docRepo, runRepo, callRepo)

  doc, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput())
  if err != nil {
    t.Fatalf("RunGeneration failed: %v", err)
  }
  if genai.mainCalls != 1 {
    t.Fatalf("repair should accept without retrying main: main calls=%d", genai.mainCalls)
  }
  if genai.repairCalls != 1 {
    t.Fatalf("repair calls: want=1 got=%d", genai.repairCalls)
  }
  if !strings.Contains(doc.Markdown, "# Doc") {
    t.Fatalf("markdown lost through repair path: %q", doc.Markdown)
  }
  if quota.consumed != 1 {
    t.Fatalf("quota consumed: want=1 got=%d", quota.consumed)
  }
}

func TestRunGenerationExhaustion(t *testing.T) {
  userID, runID, docID := testIDs()
  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    return "no delimiters here", nil
  }}
  quota := &fakeQuota{}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID}, rows: 1}
  runRepo := &fakeRunRepo{}
  callRepo := &fakeCallRepo{}
  svc := newTestPlaybookService(t, genai, quota, docRepo, runRepo, callRepo)

  _, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput())
  if err == nil {
    t.Fatalf("expected exhaustion error")
  }
  var exhausted *ExhaustedError
  if !errors.As(err, &exhausted) {
    t.Fatalf("want ExhaustedError, got %T: %v", err, err)
  }
  wantAttempts := len(testPolicy().Models) * testPolicy().MaxAttempts
  if exhausted.Attempts != wantAttempts {
    t.Fatalf("attempts: want=%d got=%d", wantAttempts, exhausted.Attempts)
  }
  if genai.mainCalls != wantAttempts {
    t.Fatalf("main calls: want=%d got=%d", wantAttempts, genai.mainCalls)
  }
  if quota.consumed != 0 {
    t.Fatalf("failed generation must not consume quota, consumed=%d", quota.consumed)
  }
  if runRepo.status != types.RunStatusFailed {
    t.Fatalf("run status: want=%q got=%q", types.RunStatusFailed, runRepo.status)
  }
}

func TestExhaustionSkipsFinalBackoff(t *testing.T) {
  userID, runID, docID := testIDs()
  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    return "no delimiters here", nil
  }}
  policy := testPolicy()
  policy.Backoff = time.Second
  log := newTestLogger(t)
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID}, rows: 1}
  svc := NewPlaybookService(genai, &fakeQuota{}, docRepo, &fakeRunRepo{}, &fakeCallRepo{}, sse.NewSSEHub(log), DefaultPromptConfig(), policy, log)
  sleeps := 0
  svc.(*playbookService).sleep = func(time.Duration) { sleeps++ }

  _, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput())
  if err == nil {
    t.Fatalf("expected exhaustion error")
  }
  wantSleeps := len(policy.Models)*policy.MaxAttempts - 1
  if sleeps != wantSleeps {
    t.Fatalf("backoff sleeps: want=%d got=%d", wantSleeps, sleeps)
  }
}

func TestRunGenerationQuotaDenied(t *testing.T) {
  userID, runID, docID := testIDs()
  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    t.Fatalf("model must not be called when quota denied")
    return "", nil
  }}
  quota := &fakeQuota{checkErr: ErrQuotaExceeded}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID}, rows: 1}
  svc := newTestPlaybookService(t, genai, quota, docRepo, &fakeRunRepo{}, &fakeCallRepo{})

  _, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput())
  if !errors.Is(err, ErrQuotaExceeded) {
    t.Fatalf("want ErrQuotaExceeded, got %v", err)
  }
}

func TestRunGenerationPersistenceBounds(t *testing.T) {
  userID, runID, docID := testIDs()
  longBody := strings.Repeat("a", MarkdownMaxLen+5000)
  longTitle := strings.Repeat("t", TitleMaxLen+50)

  raw := DelimBeginMD + "\n" + longBody + "\n" + DelimEndMD + "\n" + DelimBeginMeta +
    `{"doc_title":"` + longTitle + `","filename_slug":"long-doc"}` + DelimEndMeta

  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    return raw, nil
  }}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID}, rows: 1}
  svc := newTestPlaybookService(t, genai, &fakeQuota{}, docRepo, &fakeRunRepo{}, &fakeCallRepo{})

  if _, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput()); err != nil {
    t.Fatalf("RunGeneration failed: %v", err)
  }
  gotMarkdown, _ := docRepo.lastUpdate["markdown"].(string)
  if len(gotMarkdown) != MarkdownMaxLen {
    t.Fatalf("markdown length: want=%d got=%d", MarkdownMaxLen, len(gotMarkdown))
  }
  gotTitle, _ := docRepo.lastUpdate["title"].(string)
  if len(gotTitle) != TitleMaxLen {
    t.Fatalf("title length: want=%d got=%d", TitleMaxLen, len(gotTitle))
  }
}

func TestRunGenerationZeroRowPersistFails(t *testing.T) {
  userID, runID, docID := testIDs()
  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    return completeResponse("# Doc"), nil
  }}
  quota := &fakeQuota{}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID}, rows: 0}
  svc := newTestPlaybookService(t, genai, quota, docRepo, &fakeRunRepo{}, &fakeCallRepo{})

  _, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput())
  if err == nil {
    t.Fatalf("zero-row update must fail")
  }
  if quota.consumed != 0 {
    t.Fatalf("failed persist must not consume quota, consumed=%d", quota.consumed)
  }
}

func TestRunGenerationFallbackModelAccepts(t *testing.T) {
  userID, runID, docID := testIDs()
  genai := &fakeGenAI{respond: func(req GenerateRequest, main, repair int) (string, error) {
    if req.Model == "primary-model" {
      return "", errors.New("upstream overloaded")
    }
    return completeResponse("# Doc"), nil
  }}
  docRepo := &fakeDocRepo{doc: &types.Document{ID: docID}, rows: 1}
  svc := newTestPlaybookService(t, genai, &fakeQuota{}, docRepo, &fakeRunRepo{}, &fakeCallRepo{})

  if _, err := svc.RunGeneration(context.Background(), userID, "u@example.com", runID, docID, sampleInput()); err != nil {
    t.Fatalf("RunGeneration failed: %v", err)
  }
  if genai.mainCalls != testPolicy().MaxAttempts+1 {
    t.Fatalf("main calls: want=%d got=%d", testPolicy().MaxAttempts+1, genai.mainCalls)
  }
}
