package services

import (
  "strings"
  "testing"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("failed to init logger: %v", err)
  }
  return log
}

func sampleInput() GenerationInput {
  return NormalizeGenerationInput(GenerationInput{
    CompanyName:     "Acme",
    CompanyIndustry: "Logistics",
    ProductName:     "RocketAI",
    ProductSummary:  "Route optimization for mid-size fleets",
    ValueProps:      []string{"Cuts fuel costs", "Faster dispatch"},
    PainPoints:      []string{"Manual routing", "Driver churn"},
    Tone:            ToneTrustedAdvisor,
    ExperienceLevel: ExperienceExperienced,
    WordLimit:       2600,
    Language:        "en",
  })
}

func TestBuildPromptsDeterministic(t *testing.T) {
  cfg := DefaultPromptConfig()
  input := sampleInput()

  first := BuildPrompts(input, cfg)
  second := BuildPrompts(input, cfg)

  if first.System != second.System {
    t.Fatalf("system prompt not deterministic")
  }
  if first.User != second.User {
    t.Fatalf("user prompt not deterministic")
  }
}

func TestBuildPromptsOmitsEmptyFields(t *testing.T) {
  cfg := DefaultPromptConfig()
  input := sampleInput()
  input.ProductDifferentiator = ""
  input.CompanyRegion = "  "

  pair := BuildPrompts(input, cfg)

  if strings.Contains(pair.User, "- Differentiator:") {
    t.Fatalf("user prompt contains label for empty differentiator")
  }
  if strings.Contains(pair.User, "- Region:") {
    t.Fatalf("user prompt contains label for blank region")
  }
  if !strings.Contains(pair.User, "- Industry: Logistics") {
    t.Fatalf("user prompt missing populated industry line")
  }
}

func TestBuildPromptsIncludesDelimitedTemplate(t *testing.T) {
  cfg := DefaultPromptConfig()
  pair := BuildPrompts(sampleInput(), cfg)

  for _, marker := range []string{DelimBeginMD, DelimEndMD, DelimBeginMeta, DelimEndMeta} {
    if !strings.Contains(pair.User, marker) {
      t.Fatalf("user prompt missing marker %q", marker)
    }
  }
  if !strings.Contains(pair.User, `"doc_title":"Acme — RocketAI Sales Playbook"`) {
    t.Fatalf("user prompt missing pre-filled default title, got:\n%s", pair.User)
  }
  if !strings.Contains(pair.User, `"filename_slug":"acme_rocketai_sales-playbook"`) {
    t.Fatalf("user prompt missing pre-filled default slug")
  }
}

func TestBuildPromptsSystemBlockRules(t *testing.T) {
  cfg := DefaultPromptConfig()
  pair := BuildPrompts(sampleInput(), cfg)

  for _, want := range []string{"Assumption:", "Unknown:", "Markdown only", "English"} {
    if !strings.Contains(pair.System, want) {
      t.Fatalf("system prompt missing %q", want)
    }
  }
}

func TestNormalizeGenerationInput(t *testing.T) {
  in := GenerationInput{CompanyName: "Acme", ProductName: "RocketAI", Language: "auto", WordLimit: 0}
  out := NormalizeGenerationInput(in)
  if out.Language != DefaultLanguageCode {
    t.Fatalf("language: want=%q got=%q", DefaultLanguageCode, out.Language)
  }
  if out.WordLimit != DefaultWordLimit {
    t.Fatalf("word limit: want=%d got=%d", DefaultWordLimit, out.WordLimit)
  }

  in.WordLimit = MaxWordLimit + 5000
  out = NormalizeGenerationInput(in)
  if out.WordLimit != MaxWordLimit {
    t.Fatalf("word limit cap: want=%d got=%d", MaxWordLimit, out.WordLimit)
  }
}

func TestResolveLanguageUnknownFallsBack(t *testing.T) {
  cfg := DefaultPromptConfig()
  if got := cfg.ResolveLanguage("xx"); got != cfg.Languages[DefaultLanguageCode] {
    t.Fatalf("unknown code: want=%q got=%q", cfg.Languages[DefaultLanguageCode], got)
  }
  if got := cfg.ResolveLanguage("de"); got != "German" {
    t.Fatalf("known code: want=German got=%q", got)
  }
}
