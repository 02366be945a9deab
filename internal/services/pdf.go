package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "time"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/utils"
)

// PDFService is the boundary to the external HTML-to-PDF renderer. The
// renderer owns pagination and styling; this side only ships HTML and a
// filename hint.
type PDFService interface {
  RenderPDF(ctx context.Context, html, filenameSlug string) ([]byte, error)
}

type pdfService struct {
  log        *logger.Logger
  baseURL    string
  httpClient *http.Client
}

func NewPDFService(log *logger.Logger) PDFService {
  svcLog := log.With("service", "PDFService")
  return &pdfService{
    log:        svcLog,
    baseURL:    utils.GetEnv("PDF_RENDERER_URL", "http://localhost:9223", svcLog),
    httpClient: &http.Client{Timeout: 60 * time.Second},
  }
}

func (ps *pdfService) RenderPDF(ctx context.Context, html, filenameSlug string) ([]byte, error) {
  payload, err := json.Marshal(map[string]string{
    "html":     html,
    "filename": filenameSlug + ".pdf",
  })
  if err != nil {
    return nil, fmt.Errorf("failed to marshal pdf request: %w", err)
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, ps.baseURL+"/render", bytes.NewReader(payload))
  if err != nil {
    return nil, fmt.Errorf("failed to build pdf request: %w", err)
  }
  req.Header.Set("Content-Type", "application/json")

  resp, err := ps.httpClient.Do(req)
  if err != nil {
    return nil, fmt.Errorf("pdf renderer unreachable: %w", err)
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
    return nil, fmt.Errorf("pdf renderer returned status %d: %s", resp.StatusCode, string(body))
  }
  pdf, err := io.ReadAll(resp.Body)
  if err != nil {
    return nil, fmt.Errorf("failed to read pdf body: %w", err)
  }
  return pdf, nil
}
