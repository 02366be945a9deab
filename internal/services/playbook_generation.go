package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
  "github.com/bizzdev-ai/bizzdev-backend/internal/utils"
)

const (
  CallTypeMain   = "main"
  CallTypeRepair = "repair"

  TitleMaxLen    = 200
  MarkdownMaxLen = 400000
)

// GeneratePolicy configures one generation: the ordered model list
// (primary first), per-model attempt budget, timeouts and the fixed
// backoff between failed attempts.
type GeneratePolicy struct {
  Models            []string
  MaxAttempts       int
  CallTimeout       time.Duration
  RepairTimeout     time.Duration
  Backoff           time.Duration
  MainTemperature   float64
  RepairTemperature float64
  MainMaxTokens     int
  RepairMaxTokens   int
}

func DefaultGeneratePolicy(log *logger.Logger) GeneratePolicy {
  models := utils.GetEnvAsList("GENAI_MODELS", []string{"bizzdev-large", "bizzdev-base"}, log)
  return GeneratePolicy{
    Models:            models,
    MaxAttempts:       utils.GetEnvAsInt("GENAI_MAX_ATTEMPTS", 3, log),
    CallTimeout:       utils.GetEnvAsDuration("GENAI_CALL_TIMEOUT", 120*time.Second, log),
    RepairTimeout:     utils.GetEnvAsDuration("GENAI_REPAIR_TIMEOUT", 20*time.Second, log),
    Backoff:           utils.GetEnvAsDuration("GENAI_RETRY_BACKOFF", 2*time.Second, log),
    MainTemperature:   0.3,
    RepairTemperature: 0.1,
    MainMaxTokens:     utils.GetEnvAsInt("GENAI_MAIN_MAX_TOKENS", 8192, log),
    RepairMaxTokens:   utils.GetEnvAsInt("GENAI_REPAIR_MAX_TOKENS", 512, log),
  }
}

// ExhaustedError is returned when every model and attempt failed to
// produce an acceptable response.
type ExhaustedError struct {
  Attempts int
  LastErr  error
}

func (e *ExhaustedError) Error() string {
  return fmt.Sprintf("generation exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error {
  return e.LastErr
}

// genPhase is the orchestrator's explicit state. Transitions:
// Trying -> Repairing (markdown present, META missing),
// Trying/Repairing -> Accepted, Trying -> Exhausted.
type genPhase int

const (
  phaseTrying genPhase = iota
  phaseRepairing
  phaseAccepted
  phaseExhausted
)

type PlaybookService interface {
  // RunGeneration executes the full synchronous pipeline for one document:
  // quota gate, prompt build, model orchestration, extraction, persistence
  // and quota consumption. Returns the updated document.
  RunGeneration(ctx context.Context, userID uuid.UUID, email string, runID, documentID uuid.UUID, input GenerationInput) (*types.Document, error)
}

type playbookService struct {
  genai     GenAIClient
  quota     QuotaService
  docRepo   repos.DocumentRepo
  runRepo   repos.RunRepo
  callRepo  repos.AICallLogRepo
  hub       *sse.SSEHub
  log       *logger.Logger
  cfg       PromptConfig
  policy    GeneratePolicy
  extractor *Extractor
  // sleep is swapped in tests to skip real backoff waits.
  sleep func(time.Duration)
}

func NewPlaybookService(
  genai GenAIClient,
  quota QuotaService,
  docRepo repos.DocumentRepo,
  runRepo repos.RunRepo,
  callRepo repos.AICallLogRepo,
  hub *sse.SSEHub,
  cfg PromptConfig,
  policy GeneratePolicy,
  baseLog *logger.Logger,
) PlaybookService {
  svcLog := baseLog.With("service", "PlaybookService")
  return &playbookService{
    genai:     genai,
    quota:     quota,
    docRepo:   docRepo,
    runRepo:   runRepo,
    callRepo:  callRepo,
    hub:       hub,
    log:       svcLog,
    cfg:       cfg,
    policy:    policy,
    extractor: NewExtractor(baseLog),
    sleep:     time.Sleep,
  }
}

func (s *playbookService) RunGeneration(ctx context.Context, userID uuid.UUID, email string, runID, documentID uuid.UUID, input GenerationInput) (*types.Document, error) {
  channel := "run:" + runID.String()

  progress := func(stage string, pct int, msg string) {
    s.hub.Broadcast(sse.SSEMessage{
      Channel: channel,
      Event:   sse.SSEEventPlaybookProgress,
      Data: map[string]any{
        "run_id":      runID,
        "document_id": documentID,
        "stage":       stage,
        "progress":    pct,
        "message":     msg,
      },
    })
  }

  fail := func(stage string, err error) (*types.Document, error) {
    s.log.Error("playbook generation failed", "stage", stage, "run_id", runID, "document_id", documentID, "error", err)
    if uerr := s.runRepo.UpdateFields(ctx, nil, runID, map[string]interface{}{
      "status": types.RunStatusFailed,
    }); uerr != nil {
      s.log.Error("failed to mark run failed", "run_id", runID, "error", uerr)
    }
    s.hub.Broadcast(sse.SSEMessage{
      Channel: channel,
      Event:   sse.SSEEventPlaybookFailed,
      Data: map[string]any{
        "run_id":      runID,
        "document_id": documentID,
        "stage":       stage,
        "error":       err.Error(),
      },
    })
    return nil, fmt.Errorf("%s: %w", stage, err)
  }

  if input.CompanyName == "" || input.ProductName == "" {
    return fail("validate", errors.New("company and product names are required"))
  }

  if err := s.quota.Check(ctx, userID, email); err != nil {
    if errors.Is(err, ErrQuotaExceeded) {
      return nil, err
    }
    return fail("quota", err)
  }

  input = NormalizeGenerationInput(input)
  pair := BuildPrompts(input, s.cfg)
  progress("prompts", 10, "prompts built")

  raw, attempts, err := s.orchestrate(ctx, userID, documentID, pair, input, progress)
  if err != nil {
    return fail("generate", err)
  }
  s.log.Info("generation accepted", "run_id", runID, "attempts", attempts)
  progress("extract", 80, "response received")

  extracted := s.extractor.Extract(raw)

  doc, err := s.persist(ctx, documentID, extracted)
  if err != nil {
    return fail("persist", err)
  }
  progress("persist", 90, "document saved")

  if err := s.runRepo.UpdateFields(ctx, nil, runID, map[string]interface{}{
    "status": types.RunStatusReady,
  }); err != nil {
    s.log.Error("failed to mark run ready", "run_id", runID, "error", err)
  }

  if err := s.quota.Consume(ctx, userID, documentID); err != nil {
    // The document exists; losing the usage row is an accounting gap,
    // not a user-facing failure.
    s.log.Error("failed to consume quota", "user_id", userID, "document_id", documentID, "error", err)
  }

  s.hub.Broadcast(sse.SSEMessage{
    Channel: channel,
    Event:   sse.SSEEventPlaybookReady,
    Data: map[string]any{
      "run_id":      runID,
      "document_id": documentID,
      "title":       doc.Title,
    },
  })
  return doc, nil
}

// orchestrate walks the model list with the retry, repair and fallback
// policy and returns the accepted raw text plus total main-call attempts.
func (s *playbookService) orchestrate(ctx context.Context, userID, documentID uuid.UUID, pair PromptPair, input GenerationInput, progress func(string, int, string)) (string, int, error) {
  phase := phaseTrying
  attempts := 0
  var lastErr error
  var accepted string

  totalBudget := len(s.policy.Models) * s.policy.MaxAttempts

  for _, model := range s.policy.Models {
    if phase == phaseAccepted {
      break
    }
    for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
      attempts++
      pct := 10 + 60*attempts/max(totalBudget, 1)
      progress("generate", pct, fmt.Sprintf("calling %s", model))

      raw, err := s.mainCall(ctx, userID, documentID, model, attempt, pair)
      if err != nil {
        lastErr = err
        s.log.Warn("generation attempt failed", "model", model, "attempt", attempt, "error", err)
        if attempts < totalBudget {
          s.backoff(ctx)
        }
        continue
      }

      hasMD := containsBoth(raw, DelimBeginMD, DelimEndMD)
      hasMeta := containsBoth(raw, DelimBeginMeta, DelimEndMeta)

      if hasMD && hasMeta {
        phase = phaseAccepted
        accepted = raw
        break
      }

      if hasMD && !hasMeta {
        phase = phaseRepairing
        repaired, rerr := s.repairCall(ctx, userID, documentID, model, input)
        if rerr == nil && containsBoth(repaired, DelimBeginMeta, DelimEndMeta) {
          phase = phaseAccepted
          accepted = raw + "\n" + repaired
          break
        }
        if rerr != nil {
          s.log.Warn("repair attempt failed", "model", model, "error", rerr)
        }
        phase = phaseTrying
        lastErr = errors.New("response missing META block and repair failed")
        if attempts < totalBudget {
          s.backoff(ctx)
        }
        continue
      }

      lastErr = errors.New("response missing playbook delimiters")
      s.log.Warn("generation attempt incomplete", "model", model, "attempt", attempt)
      if attempts < totalBudget {
        s.backoff(ctx)
      }
    }
  }

  if phase != phaseAccepted {
    phase = phaseExhausted
  }
  if phase == phaseExhausted {
    return "", attempts, &ExhaustedError{Attempts: attempts, LastErr: lastErr}
  }
  return accepted, attempts, nil
}

func (s *playbookService) mainCall(ctx context.Context, userID, documentID uuid.UUID, model string, attempt int, pair PromptPair) (string, error) {
  callCtx, cancel := context.WithTimeout(ctx, s.policy.CallTimeout)
  defer cancel()

  raw, err := s.genai.GenerateText(callCtx, GenerateRequest{
    Model:       model,
    Temperature: s.policy.MainTemperature,
    MaxTokens:   s.policy.MainMaxTokens,
    Messages: []GenMessage{
      {Role: "system", Content: pair.System},
      {Role: "user", Content: pair.User},
    },
  })
  s.recordCall(ctx, userID, documentID, CallTypeMain, model, attempt, err)
  if err != nil {
    if IsTimeoutErr(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
      return "", fmt.Errorf("model call timed out after %s: %w", s.policy.CallTimeout, err)
    }
    return "", err
  }
  return raw, nil
}

// repairCall asks only for the META block, pre-filled with the exact JSON
// expected for this input, on a short timeout and tight token budget.
func (s *playbookService) repairCall(ctx context.Context, userID, documentID uuid.UUID, model string, input GenerationInput) (string, error) {
  callCtx, cancel := context.WithTimeout(ctx, s.policy.RepairTimeout)
  defer cancel()

  meta := DefaultMeta(input, s.cfg)
  metaJSON, _ := json.Marshal(meta)

  prompt := fmt.Sprintf(
    "Your previous answer was missing the metadata block. Reply with ONLY the block below, adjusting the values if the document you wrote used a different title. No other text.\n\n%s\n%s\n%s\n",
    DelimBeginMeta, string(metaJSON), DelimEndMeta,
  )

  raw, err := s.genai.GenerateText(callCtx, GenerateRequest{
    Model:       model,
    Temperature: s.policy.RepairTemperature,
    MaxTokens:   s.policy.RepairMaxTokens,
    Messages: []GenMessage{
      {Role: "user", Content: prompt},
    },
  })
  s.recordCall(ctx, userID, documentID, CallTypeRepair, model, 1, err)
  return raw, err
}

// persist writes the extracted playbook onto the pre-created document row.
// A zero-row update means the document vanished underneath us and is an
// error, not a silent no-op.
func (s *playbookService) persist(ctx context.Context, documentID uuid.UUID, extracted ExtractedResult) (*types.Document, error) {
  title := truncateRunes(extracted.Meta.DocTitle, TitleMaxLen)
  markdown := truncateRunes(extracted.Markdown, MarkdownMaxLen)

  metaJSON, err := json.Marshal(extracted.Meta)
  if err != nil {
    return nil, fmt.Errorf("marshal meta: %w", err)
  }

  rows, err := s.docRepo.UpdateFields(ctx, nil, documentID, map[string]interface{}{
    "title":    title,
    "markdown": markdown,
    "content":  markdown,
    "meta":     datatypes.JSON(metaJSON),
  })
  if err != nil {
    return nil, fmt.Errorf("update document: %w", err)
  }
  if rows == 0 {
    return nil, fmt.Errorf("document %s not found during persist", documentID)
  }

  docs, err := s.docRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
  if err != nil {
    return nil, err
  }
  if len(docs) == 0 {
    return nil, fmt.Errorf("document %s not found after persist", documentID)
  }
  return docs[0], nil
}

func (s *playbookService) recordCall(ctx context.Context, userID, documentID uuid.UUID, callType, model string, attempt int, callErr error) {
  entry := &types.AICallLog{
    ID:         uuid.New(),
    UserID:     &userID,
    DocumentID: &documentID,
    CallType:   callType,
    Model:      model,
    Attempt:    attempt,
    Success:    callErr == nil,
  }
  if callErr != nil {
    entry.Error = callErr.Error()
  }
  if _, err := s.callRepo.Create(ctx, nil, []*types.AICallLog{entry}); err != nil {
    s.log.Error("failed to record ai call", "error", err)
  }
}

func (s *playbookService) backoff(ctx context.Context) {
  if s.policy.Backoff <= 0 {
    return
  }
  if ctx.Err() != nil {
    return
  }
  s.sleep(s.policy.Backoff)
}

func containsBoth(s, a, b string) bool {
  _, ok := between(s, a, b)
  return ok
}

func truncateRunes(s string, n int) string {
  if n <= 0 {
    return ""
  }
  r := []rune(s)
  if len(r) <= n {
    return s
  }
  return string(r[:n])
}
