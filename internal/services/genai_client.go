package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net"
  "net/http"
  "os"
  "strings"
  "time"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
)

// GenAIClient is the boundary to the external text-generation service. One
// call, one attempt: retry, fallback and repair policy live in the playbook
// orchestrator, which also owns the per-attempt timeout on ctx.
type GenAIClient interface {
  GenerateText(ctx context.Context, req GenerateRequest) (string, error)
}

type GenerateRequest struct {
  Model       string        `json:"model"`
  Temperature float64       `json:"temperature"`
  TopP        float64       `json:"topP,omitempty"`
  MaxTokens   int           `json:"maxTokens"`
  Seed        *int          `json:"seed,omitempty"`
  Messages    []GenMessage  `json:"messages"`
}

type GenMessage struct {
  Role    string `json:"role"` // system|user
  Content string `json:"content"`
}

type genResponse struct {
  Text string `json:"text"`
}

type genAIClient struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  httpClient *http.Client
}

func NewGenAIClient(log *logger.Logger) (GenAIClient, error) {
  apiKey := os.Getenv("GENAI_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing GENAI_API_KEY")
  }

  baseURL := os.Getenv("GENAI_BASE_URL")
  if baseURL == "" {
    baseURL = "https://api.genai.example.com"
  }

  // No Timeout on the http.Client itself: each call is bounded by the
  // context deadline the orchestrator sets per attempt.
  return &genAIClient{
    log:        log.With("service", "GenAIClient"),
    baseURL:    strings.TrimRight(baseURL, "/"),
    apiKey:     apiKey,
    httpClient: &http.Client{},
  }, nil
}

type GenAIHTTPError struct {
  StatusCode int
  Body       string
}

func (e *GenAIHTTPError) Error() string {
  return fmt.Sprintf("genai http %d: %s", e.StatusCode, e.Body)
}

// IsTimeoutErr distinguishes our per-attempt deadline from model-returned
// errors so the orchestrator can log them apart.
func IsTimeoutErr(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, context.DeadlineExceeded) {
    return true
  }
  var netErr net.Error
  if errors.As(err, &netErr) {
    return netErr.Timeout()
  }
  return false
}

func (c *genAIClient) GenerateText(ctx context.Context, req GenerateRequest) (string, error) {
  if len(req.Messages) == 0 {
    return "", fmt.Errorf("messages required")
  }

  var buf bytes.Buffer
  if err := json.NewEncoder(&buf).Encode(req); err != nil {
    return "", err
  }

  httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", &buf)
  if err != nil {
    return "", err
  }
  httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
  httpReq.Header.Set("Content-Type", "application/json")

  started := time.Now()
  resp, err := c.httpClient.Do(httpReq)
  if err != nil {
    return "", err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return "", readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return "", &GenAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }

  var out genResponse
  if err := json.Unmarshal(raw, &out); err != nil {
    return "", fmt.Errorf("genai decode error: %w; raw=%s", err, string(raw))
  }

  c.log.Debug("Generation call completed",
    "model", req.Model,
    "elapsed", time.Since(started).String(),
    "chars", len(out.Text),
  )
  return out.Text, nil
}
