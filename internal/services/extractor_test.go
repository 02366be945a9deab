package services

import (
  "strings"
  "testing"
)

func TestSlugifyInvariant(t *testing.T) {
  cases := map[string]string{
    "Acme — RocketAI Sales Playbook": "acme-rocketai-sales-playbook",
    "  Hello,  World!  ":             "hello-world",
    "UPPER_case_123":                 "upper-case-123",
    "---":                            "",
    "çark über":                      "ark-ber",
  }
  for in, want := range cases {
    got := Slugify(in)
    if got != want {
      t.Fatalf("Slugify(%q): want=%q got=%q", in, want, got)
    }
    if Slugify(got) != got {
      t.Fatalf("Slugify not idempotent on %q: got=%q", in, Slugify(got))
    }
    for _, r := range got {
      if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
        t.Fatalf("Slugify(%q) produced invalid rune %q", in, r)
      }
    }
    if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
      t.Fatalf("Slugify(%q) has leading/trailing hyphen: %q", in, got)
    }
  }
}

func TestExtractTotality(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  inputs := []string{
    "",
    "no delimiters at all",
    DelimBeginMD + "\n# Title\n" + DelimEndMD,
    DelimBeginMeta + "\n{not json}\n" + DelimEndMeta,
    DelimBeginMD + "unterminated",
  }
  for _, raw := range inputs {
    res := ex.Extract(raw)
    if res.Meta.DocTitle == "" {
      t.Fatalf("Extract(%q): empty doc title", raw)
    }
    if res.Meta.FilenameSlug == "" {
      t.Fatalf("Extract(%q): empty slug", raw)
    }
    if res.Meta.EmailSubject == "" || res.Meta.EmailPreheader == "" {
      t.Fatalf("Extract(%q): empty email fields", raw)
    }
  }
}

func TestExtractFallbackWithoutMeta(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := DelimBeginMD + "\n# Some Playbook\nBody here.\n" + DelimEndMD
  res := ex.Extract(raw)

  if res.Meta.DocTitle != "Sales Playbook" {
    t.Fatalf("doc title: want=%q got=%q", "Sales Playbook", res.Meta.DocTitle)
  }
  if res.Meta.FilenameSlug != "sales-playbook" {
    t.Fatalf("slug: want=%q got=%q", "sales-playbook", res.Meta.FilenameSlug)
  }
  if !strings.Contains(res.Markdown, "# Some Playbook") {
    t.Fatalf("markdown body lost: %q", res.Markdown)
  }
}

func TestExtractRoundTrip(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := `<<<BEGIN_PLAYBOOK_MD>>>
# Acme — RocketAI Sales Playbook

## 1. Executive Summary
...
<<<END_PLAYBOOK_MD>>>

<<<META>>>
{"doc_title":"Acme — RocketAI Sales Playbook","email_subject":"RocketAI: tailored playbook attached","email_preheader":"Concise ICP, discovery, objections, KPIs — ready to use","filename_slug":"acme_rocketai_sales-playbook"}
<<<END_META>>>`

  res := ex.Extract(raw)

  if !strings.Contains(res.Markdown, "# Acme — RocketAI Sales Playbook") {
    t.Fatalf("markdown missing title heading: %q", res.Markdown)
  }
  if res.Meta.FilenameSlug != "acme_rocketai_sales-playbook" {
    t.Fatalf("slug: want=%q got=%q", "acme_rocketai_sales-playbook", res.Meta.FilenameSlug)
  }
  if res.Meta.EmailSubject != "RocketAI: tailored playbook attached" {
    t.Fatalf("subject: got=%q", res.Meta.EmailSubject)
  }
}

func TestExtractInvalidMetaJSON(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := DelimBeginMD + "\n# Doc\n" + DelimEndMD + "\n" + DelimBeginMeta + "\n{broken\n" + DelimEndMeta
  res := ex.Extract(raw)

  if res.Meta.DocTitle != "Sales Playbook" {
    t.Fatalf("invalid json should fall back, got title %q", res.Meta.DocTitle)
  }
}

func TestExtractShortSlugRederived(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := DelimBeginMD + "\n# Doc\n" + DelimEndMD + "\n" + DelimBeginMeta +
    "\n{\"doc_title\":\"Fleet Ops Guide\",\"filename_slug\":\"ab\"}\n" + DelimEndMeta
  res := ex.Extract(raw)

  if res.Meta.FilenameSlug != "fleet-ops-guide" {
    t.Fatalf("short slug should re-derive from title: got=%q", res.Meta.FilenameSlug)
  }
}

func TestExtractUnsafeSlugSanitized(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := DelimBeginMD + "\nbody\n" + DelimEndMD + "\n" + DelimBeginMeta +
    "\n{\"doc_title\":\"V2 Playbook\",\"filename_slug\":\"My Playbook!! (v2)\"}\n" + DelimEndMeta
  res := ex.Extract(raw)

  if res.Meta.FilenameSlug != "my-playbook-v2" {
    t.Fatalf("unsafe slug should be sanitized: got=%q", res.Meta.FilenameSlug)
  }
  for _, r := range res.Meta.FilenameSlug {
    if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
      t.Fatalf("slug carries unsafe rune %q: %q", r, res.Meta.FilenameSlug)
    }
  }
}

func TestExtractNonLatinTitleSlugFallsBack(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := DelimBeginMD + "\nbody\n" + DelimEndMD + "\n" + DelimBeginMeta +
    "\n{\"doc_title\":\"営業プレイブック\"}\n" + DelimEndMeta
  res := ex.Extract(raw)

  if res.Meta.DocTitle != "営業プレイブック" {
    t.Fatalf("doc title: got=%q", res.Meta.DocTitle)
  }
  if res.Meta.FilenameSlug != "sales-playbook" {
    t.Fatalf("non-latin title should fall back to the default slug: got=%q", res.Meta.FilenameSlug)
  }
}

func TestExtractPartialMetaFields(t *testing.T) {
  ex := NewExtractor(newTestLogger(t))

  raw := DelimBeginMD + "\nbody\n" + DelimEndMD + "\n" + DelimBeginMeta +
    "\n{\"doc_title\":\"My Playbook\"}\n" + DelimEndMeta
  res := ex.Extract(raw)

  if res.Meta.EmailSubject != "My Playbook: tailored playbook attached" {
    t.Fatalf("subject fallback: got=%q", res.Meta.EmailSubject)
  }
  if res.Meta.FilenameSlug != "my-playbook" {
    t.Fatalf("slug fallback: got=%q", res.Meta.FilenameSlug)
  }
}
