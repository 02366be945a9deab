package services

import (
  "bytes"
  "context"
  "encoding/base64"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "time"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/utils"
)

// NotifierService delivers a finished playbook by email through the
// external mail relay. Subject and preheader come from the document's
// extracted META, so the email matches the generated title.
type NotifierService interface {
  SendPlaybookEmail(ctx context.Context, toEmail string, meta PlaybookMeta, pdf []byte) error
}

type notifierService struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  fromEmail  string
  httpClient *http.Client
}

func NewNotifierService(log *logger.Logger) NotifierService {
  svcLog := log.With("service", "NotifierService")
  return &notifierService{
    log:        svcLog,
    baseURL:    utils.GetEnv("MAIL_RELAY_URL", "http://localhost:9224", svcLog),
    apiKey:     utils.GetEnv("MAIL_RELAY_API_KEY", "", svcLog),
    fromEmail:  utils.GetEnv("MAIL_FROM_EMAIL", "playbooks@bizzdev.ai", svcLog),
    httpClient: &http.Client{Timeout: 30 * time.Second},
  }
}

func (ns *notifierService) SendPlaybookEmail(ctx context.Context, toEmail string, meta PlaybookMeta, pdf []byte) error {
  if toEmail == "" {
    return fmt.Errorf("recipient email is required")
  }
  payload, err := json.Marshal(map[string]any{
    "from":      ns.fromEmail,
    "to":        toEmail,
    "subject":   meta.EmailSubject,
    "preheader": meta.EmailPreheader,
    "text":      fmt.Sprintf("Your sales playbook %q is attached as a PDF.", meta.DocTitle),
    "attachments": []map[string]string{
      {
        "filename": meta.FilenameSlug + ".pdf",
        "content":  base64.StdEncoding.EncodeToString(pdf),
        "type":     "application/pdf",
      },
    },
  })
  if err != nil {
    return fmt.Errorf("failed to marshal email payload: %w", err)
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, ns.baseURL+"/send", bytes.NewReader(payload))
  if err != nil {
    return fmt.Errorf("failed to build email request: %w", err)
  }
  req.Header.Set("Content-Type", "application/json")
  if ns.apiKey != "" {
    req.Header.Set("Authorization", "Bearer "+ns.apiKey)
  }

  resp, err := ns.httpClient.Do(req)
  if err != nil {
    return fmt.Errorf("mail relay unreachable: %w", err)
  }
  defer resp.Body.Close()

  if resp.StatusCode >= 300 {
    body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
    return fmt.Errorf("mail relay returned status %d: %s", resp.StatusCode, string(body))
  }
  return nil
}
