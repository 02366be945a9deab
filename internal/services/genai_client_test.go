package services

import (
  "encoding/json"
  "strings"
  "testing"
)

func TestGenerateRequestOmitsUnsetTopP(t *testing.T) {
  raw, err := json.Marshal(GenerateRequest{Model: "m", Temperature: 0.3, MaxTokens: 10})
  if err != nil {
    t.Fatalf("marshal: %v", err)
  }
  if strings.Contains(string(raw), "topP") {
    t.Fatalf("unset topP must not be sent on the wire: %s", raw)
  }

  raw, err = json.Marshal(GenerateRequest{Model: "m", TopP: 0.9})
  if err != nil {
    t.Fatalf("marshal: %v", err)
  }
  if !strings.Contains(string(raw), `"topP":0.9`) {
    t.Fatalf("explicit topP lost: %s", raw)
  }
}
