package services

import (
  "encoding/json"
  "strings"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
)

// PlaybookMeta is the metadata block the model emits alongside the
// playbook body. Every field is guaranteed non-empty after extraction.
type PlaybookMeta struct {
  DocTitle       string `json:"doc_title"`
  EmailSubject   string `json:"email_subject"`
  EmailPreheader string `json:"email_preheader"`
  FilenameSlug   string `json:"filename_slug"`
}

// ExtractedResult is the extractor's output. Markdown may be empty when
// the raw text carried no body delimiters; Meta never has empty fields.
type ExtractedResult struct {
  Markdown string
  Meta     PlaybookMeta
}

const fallbackDocTitle = "Sales Playbook"

// Slugify lowercases the input, collapses every run of characters outside
// [a-z0-9] to a single hyphen and strips leading and trailing hyphens.
// Idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
  s = strings.ToLower(s)
  var b strings.Builder
  b.Grow(len(s))
  pendingHyphen := false
  for _, r := range s {
    if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
      if pendingHyphen && b.Len() > 0 {
        b.WriteByte('-')
      }
      pendingHyphen = false
      b.WriteRune(r)
      continue
    }
    pendingHyphen = true
  }
  return b.String()
}

// sanitizeSlug lowercases the input and keeps only [a-z0-9_-], collapsing
// every other run of characters to a single hyphen. Underscores and hyphens
// the model emitted are preserved so a well-formed slug round-trips intact.
func sanitizeSlug(s string) string {
  s = strings.ToLower(s)
  var b strings.Builder
  b.Grow(len(s))
  lastSep := true
  for _, r := range s {
    if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
      b.WriteRune(r)
      lastSep = r == '_' || r == '-'
      continue
    }
    if !lastSep {
      b.WriteByte('-')
      lastSep = true
    }
  }
  return strings.Trim(b.String(), "-_")
}

// resolveSlug returns a non-empty filename-safe slug: the sanitized parsed
// value when it is at least three characters, otherwise the slugified doc
// title, otherwise the slug of the fallback title. Never returns "".
func resolveSlug(parsed, docTitle string) string {
  slug := sanitizeSlug(parsed)
  if len(slug) >= 3 {
    return slug
  }
  slug = Slugify(docTitle)
  if len(slug) >= 3 {
    return slug
  }
  return Slugify(fallbackDocTitle)
}

// Extractor turns a raw model response into an ExtractedResult. It is
// total: anomalies are logged as warnings and replaced with fallbacks,
// never surfaced as errors.
type Extractor struct {
  log *logger.Logger
}

func NewExtractor(log *logger.Logger) *Extractor {
  return &Extractor{log: log.With("service", "Extractor")}
}

func (e *Extractor) Extract(raw string) ExtractedResult {
  markdown, mdFound := between(raw, DelimBeginMD, DelimEndMD)
  if !mdFound {
    e.log.Warn("extract: markdown delimiters missing", "raw_len", len(raw))
  }
  markdown = strings.TrimSpace(markdown)

  parsed := map[string]any{}
  metaBody, metaFound := between(raw, DelimBeginMeta, DelimEndMeta)
  if !metaFound {
    e.log.Warn("extract: meta delimiters missing", "raw_len", len(raw))
  } else if err := json.Unmarshal([]byte(strings.TrimSpace(metaBody)), &parsed); err != nil {
    e.log.Warn("extract: meta block is not valid json", "error", err)
    parsed = map[string]any{}
  }

  meta := PlaybookMeta{
    DocTitle:       metaString(parsed, "doc_title"),
    EmailSubject:   metaString(parsed, "email_subject"),
    EmailPreheader: metaString(parsed, "email_preheader"),
    FilenameSlug:   metaString(parsed, "filename_slug"),
  }
  if meta.DocTitle == "" {
    meta.DocTitle = fallbackDocTitle
  }
  meta.FilenameSlug = resolveSlug(meta.FilenameSlug, meta.DocTitle)
  if meta.EmailSubject == "" {
    meta.EmailSubject = meta.DocTitle + ": tailored playbook attached"
  }
  if meta.EmailPreheader == "" {
    meta.EmailPreheader = "Concise ICP, discovery, objections, KPIs — ready to use"
  }

  return ExtractedResult{Markdown: markdown, Meta: meta}
}

// between returns the text between the first occurrence of begin and the
// first occurrence of end after it. Found is false when either marker is
// missing.
func between(s, begin, end string) (string, bool) {
  i := strings.Index(s, begin)
  if i < 0 {
    return "", false
  }
  rest := s[i+len(begin):]
  j := strings.Index(rest, end)
  if j < 0 {
    return "", false
  }
  return rest[:j], true
}

func metaString(m map[string]any, key string) string {
  v, ok := m[key]
  if !ok {
    return ""
  }
  s, ok := v.(string)
  if !ok {
    return ""
  }
  return strings.TrimSpace(s)
}
