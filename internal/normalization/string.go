package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString trims whitespace but preserves case. Display fields
// (company names, product names, titles) keep the user's casing.
func TrimInputString(input string) string {
  return strings.TrimSpace(input)
}
