package services

import (
  "encoding/json"
  "fmt"
  "strings"
)

// GenerationInput is the flat, per-call merge of company, product and ICP
// context plus style knobs. Company and product names are required; every
// other field degrades to omission in the built prompt.
type GenerationInput struct {
  CompanyName     string
  CompanyIndustry string
  CompanySize     string
  CompanyRegion   string

  ProductName          string
  ProductSummary       string
  ProductDifferentiator string
  ProductPricingModel  string
  ProductAssets        string
  ProductIntegrations  string
  ProductCategory      string
  ValueProps           []string
  ProofPoints          []string

  ICPName        string
  ICPIndustry    string
  ICPCompanySize string
  BuyerRoles     []string
  PainPoints     []string
  ICPDescription string
  UseCases       string
  DecisionMakers string
  Influencers    string
  Triggers       string
  DealBreakers   string
  Regions        string
  Objections     string

  Tone            string
  ExperienceLevel string
  WordLimit       int
  Language        string
}

// PromptPair is immutable once built. The user block embeds the delimiter
// tokens the extractor depends on.
type PromptPair struct {
  System string
  User   string
}

// NormalizeGenerationInput resolves "auto" language and clamps the word
// limit before the builder runs, so BuildPrompts only ever sees closed
// values.
func NormalizeGenerationInput(input GenerationInput) GenerationInput {
  lang := strings.TrimSpace(strings.ToLower(input.Language))
  if lang == "" || lang == "auto" {
    lang = DefaultLanguageCode
  }
  input.Language = lang

  if input.WordLimit <= 0 {
    input.WordLimit = DefaultWordLimit
  }
  if input.WordLimit > MaxWordLimit {
    input.WordLimit = MaxWordLimit
  }

  if strings.TrimSpace(input.Tone) == "" {
    input.Tone = ToneTrustedAdvisor
  }
  if strings.TrimSpace(input.ExperienceLevel) == "" {
    input.ExperienceLevel = ExperienceExperienced
  }
  return input
}

// DefaultMeta computes the deterministic META values pre-filled into the
// prompt template, so even a minimally compliant response reconstructs.
func DefaultMeta(input GenerationInput, cfg PromptConfig) PlaybookMeta {
  title := fmt.Sprintf("%s — %s Sales Playbook", input.CompanyName, input.ProductName)
  return PlaybookMeta{
    DocTitle:       title,
    EmailSubject:   input.ProductName + cfg.DefaultEmailSubjectSuffix,
    EmailPreheader: cfg.DefaultEmailPreheader,
    FilenameSlug:   Slugify(input.CompanyName) + "_" + Slugify(input.ProductName) + "_sales-playbook",
  }
}

// BuildPrompts is pure and deterministic: identical inputs produce byte
// identical pairs. Callers must validate company and product names before
// this point.
func BuildPrompts(input GenerationInput, cfg PromptConfig) PromptPair {
  language := cfg.ResolveLanguage(input.Language)

  var sys strings.Builder
  sys.WriteString("You are a senior B2B sales strategist writing a complete, actionable sales playbook for a specific company, product and ideal customer profile.\n\n")
  sys.WriteString("Rules:\n")
  sys.WriteString("- Never invent facts that were not supplied. If a detail is needed but missing, write it explicitly as \"Assumption: ...\" or \"Unknown: ...\".\n")
  sys.WriteString("- Output Markdown only. No raw HTML tags, no pagebreak comment tokens, no other markup.\n")
  sys.WriteString(fmt.Sprintf("- Strict language rule: write the ENTIRE output in %s. Every heading, label, example phrase and template must be in %s. Do not code-switch into any other language, even when discussing multiple target regions.\n", language, language))

  var usr strings.Builder
  usr.WriteString("Create the sales playbook from this context.\n\n")

  usr.WriteString("Company:\n")
  writeLine(&usr, "Name", input.CompanyName)
  writeLine(&usr, "Industry", input.CompanyIndustry)
  writeLine(&usr, "Size", input.CompanySize)
  writeLine(&usr, "Region", input.CompanyRegion)

  usr.WriteString("\nProduct:\n")
  writeLine(&usr, "Name", input.ProductName)
  writeLine(&usr, "Summary", input.ProductSummary)
  writeLine(&usr, "Differentiator", input.ProductDifferentiator)
  writeLine(&usr, "Pricing model", input.ProductPricingModel)
  writeLine(&usr, "Assets", input.ProductAssets)
  writeLine(&usr, "Integrations", input.ProductIntegrations)
  writeLine(&usr, "Category", input.ProductCategory)
  writeLine(&usr, "Value propositions", strings.Join(compact(input.ValueProps), "; "))
  writeLine(&usr, "Proof points", strings.Join(compact(input.ProofPoints), "; "))

  usr.WriteString("\nIdeal Customer Profile:\n")
  writeLine(&usr, "Name", input.ICPName)
  writeLine(&usr, "Industry", input.ICPIndustry)
  writeLine(&usr, "Target company size", input.ICPCompanySize)
  writeLine(&usr, "Buyer roles", strings.Join(compact(input.BuyerRoles), "; "))
  writeLine(&usr, "Pain points", strings.Join(compact(input.PainPoints), "; "))
  writeLine(&usr, "Ideal customer description", input.ICPDescription)
  writeLine(&usr, "Use cases", input.UseCases)
  writeLine(&usr, "Decision makers", input.DecisionMakers)
  writeLine(&usr, "Influencers", input.Influencers)
  writeLine(&usr, "Triggers", input.Triggers)
  writeLine(&usr, "Deal breakers", input.DealBreakers)
  writeLine(&usr, "Target regions", input.Regions)
  writeLine(&usr, "Known objections", input.Objections)

  usr.WriteString("\nStyle:\n")
  writeLine(&usr, "Tone", input.Tone)
  writeLine(&usr, "Seller experience level", input.ExperienceLevel)
  writeLine(&usr, "Soft word limit", fmt.Sprintf("%d", input.WordLimit))
  writeLine(&usr, "Output language", language)

  usr.WriteString("\nTailor every section to the context above: use the company and product names, the listed pain points and objections, and the target regions. Stay close to the soft word limit. Use ## headings for sections and short actionable bullet lists over prose walls.\n")

  usr.WriteString("\nDeliver exactly these sections, in order:\n")
  for i, section := range cfg.Sections {
    usr.WriteString(fmt.Sprintf("%d) %s\n", i+1, section))
  }

  meta := DefaultMeta(input, cfg)
  metaJSON, _ := json.Marshal(meta)

  usr.WriteString("\nReturn your answer in EXACTLY this frame, keeping the marker lines verbatim:\n\n")
  usr.WriteString(DelimBeginMD + "\n")
  usr.WriteString("(the full playbook markdown)\n")
  usr.WriteString(DelimEndMD + "\n\n")
  usr.WriteString(DelimBeginMeta + "\n")
  usr.WriteString(string(metaJSON) + "\n")
  usr.WriteString(DelimEndMeta + "\n")
  usr.WriteString("\nThe META block must stay a single JSON object with exactly these four keys; adjust the values to match the document you wrote.\n")

  return PromptPair{System: sys.String(), User: usr.String()}
}

func writeLine(b *strings.Builder, label, value string) {
  value = strings.TrimSpace(value)
  if value == "" {
    return
  }
  b.WriteString("- " + label + ": " + value + "\n")
}

func compact(in []string) []string {
  out := make([]string, 0, len(in))
  for _, s := range in {
    s = strings.TrimSpace(s)
    if s != "" {
      out = append(out, s)
    }
  }
  return out
}
