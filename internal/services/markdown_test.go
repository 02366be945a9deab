package services

import (
  "strings"
  "testing"
)

func TestRenderHTMLHeadingsAndLists(t *testing.T) {
  svc := NewMarkdownService(newTestLogger(t))

  html, err := svc.RenderHTML("# Title\n\n## Section\n\n- first\n- second\n")
  if err != nil {
    t.Fatalf("render failed: %v", err)
  }
  for _, want := range []string{"<h1", "<h2", "<li>first</li>", "<li>second</li>"} {
    if !strings.Contains(html, want) {
      t.Fatalf("rendered html missing %q:\n%s", want, html)
    }
  }
}

func TestRenderHTMLEscapesRawHTML(t *testing.T) {
  svc := NewMarkdownService(newTestLogger(t))

  html, err := svc.RenderHTML("before <script>alert(1)</script> after")
  if err != nil {
    t.Fatalf("render failed: %v", err)
  }
  if strings.Contains(html, "<script>") {
    t.Fatalf("raw html must not pass through:\n%s", html)
  }
}
