package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/ssedata"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// FlushSSEMessages broadcasts the request-scoped SSE messages services
// queued during this request and clears the buffer.
func FlushSSEMessages(c *gin.Context, hub *sse.SSEHub) {
  ssd := ssedata.GetSSEData(c.Request.Context())
  if ssd == nil || len(ssd.Messages) == 0 {
    return
  }
  for _, msg := range ssd.Messages {
    hub.Broadcast(msg)
  }
  ssd.Messages = nil
}
