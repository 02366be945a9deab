package services

import (
  "fmt"
  "os"

  "gopkg.in/yaml.v3"
)

// Delimiter tokens the model is instructed to emit and the extractor
// depends on. These are load-bearing: changing them breaks extraction of
// previously generated raw responses.
const (
  DelimBeginMD   = "<<<BEGIN_PLAYBOOK_MD>>>"
  DelimEndMD     = "<<<END_PLAYBOOK_MD>>>"
  DelimBeginMeta = "<<<META>>>"
  DelimEndMeta   = "<<<END_META>>>"
)

const (
  ToneTrustedAdvisor = "Trusted advisor"
  ToneChallenger     = "Challenger"
  ToneFriendlyExpert = "Friendly expert"
  ToneFormal         = "Formal"

  ExperienceExperienced   = "Experienced"
  ExperienceUnexperienced = "Unexperienced"
)

const (
  DefaultWordLimit = 2600
  MaxWordLimit     = 8000

  DefaultLanguageCode = "en"
)

// PromptConfig hoists the builder's static tables so tests can substitute
// alternate language tables or outlines without touching control flow.
type PromptConfig struct {
  // Languages maps output-language codes to the human-readable label used
  // inside the prompt. Unknown codes resolve to DefaultLanguageCode.
  Languages map[string]string `yaml:"languages"`

  // Sections is the fixed deliverable outline, in order.
  Sections []string `yaml:"sections"`

  DefaultEmailSubjectSuffix string `yaml:"default_email_subject_suffix"`
  DefaultEmailPreheader     string `yaml:"default_email_preheader"`
}

func DefaultPromptConfig() PromptConfig {
  return PromptConfig{
    Languages: map[string]string{
      "en": "English",
      "de": "German",
      "fr": "French",
      "es": "Spanish",
      "it": "Italian",
      "pt": "Portuguese",
      "nl": "Dutch",
      "pl": "Polish",
      "sv": "Swedish",
      "da": "Danish",
      "fi": "Finnish",
      "no": "Norwegian",
    },
    Sections: []string{
      "Executive Summary",
      "ICP Profile & Region Nuances",
      "Messaging & Hooks",
      "Multi-Channel Outreach",
      "Discovery Guide",
      "Qualification & Deal Strategy",
      "Proposal Strategy & Value Justification",
      "Objection Handling",
      "Mutual Action Plan",
      "Enablement Assets",
    },
    DefaultEmailSubjectSuffix: ": tailored playbook attached",
    DefaultEmailPreheader:     "Concise ICP, discovery, objections, KPIs — ready to use",
  }
}

// LoadPromptConfig returns the default config overlaid with any fields set
// in the YAML file at path. An empty path returns the defaults.
func LoadPromptConfig(path string) (PromptConfig, error) {
  cfg := DefaultPromptConfig()
  if path == "" {
    return cfg, nil
  }
  raw, err := os.ReadFile(path)
  if err != nil {
    return cfg, fmt.Errorf("read prompt config: %w", err)
  }
  var override PromptConfig
  if err := yaml.Unmarshal(raw, &override); err != nil {
    return cfg, fmt.Errorf("parse prompt config: %w", err)
  }
  if len(override.Languages) > 0 {
    cfg.Languages = override.Languages
  }
  if len(override.Sections) > 0 {
    cfg.Sections = override.Sections
  }
  if override.DefaultEmailSubjectSuffix != "" {
    cfg.DefaultEmailSubjectSuffix = override.DefaultEmailSubjectSuffix
  }
  if override.DefaultEmailPreheader != "" {
    cfg.DefaultEmailPreheader = override.DefaultEmailPreheader
  }
  return cfg, nil
}

// ResolveLanguage maps a language code to its prompt label. "auto", empty
// and unknown codes all resolve to the default language.
func (cfg PromptConfig) ResolveLanguage(code string) string {
  if label, ok := cfg.Languages[code]; ok {
    return label
  }
  if label, ok := cfg.Languages[DefaultLanguageCode]; ok {
    return label
  }
  return "English"
}
