package services

import (
  "bytes"
  "fmt"

  "github.com/yuin/goldmark"
  "github.com/yuin/goldmark/extension"
  "github.com/yuin/goldmark/renderer/html"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
)

// MarkdownService renders playbook markdown to HTML for the document view
// and for the PDF renderer. Raw HTML in the source is escaped, not passed
// through, since the model is instructed never to emit it.
type MarkdownService interface {
  RenderHTML(markdown string) (string, error)
}

type markdownService struct {
  log *logger.Logger
  md  goldmark.Markdown
}

func NewMarkdownService(log *logger.Logger) MarkdownService {
  md := goldmark.New(
    goldmark.WithExtensions(extension.GFM, extension.Typographer),
    goldmark.WithRendererOptions(html.WithHardWraps()),
  )
  return &markdownService{
    log: log.With("service", "MarkdownService"),
    md:  md,
  }
}

func (ms *markdownService) RenderHTML(markdown string) (string, error) {
  var buf bytes.Buffer
  if err := ms.md.Convert([]byte(markdown), &buf); err != nil {
    return "", fmt.Errorf("failed to render markdown: %w", err)
  }
  return buf.String(), nil
}
