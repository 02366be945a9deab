package handlers

import (
  "crypto/subtle"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/services"
  "github.com/bizzdev-ai/bizzdev-backend/internal/utils"
)

type WaitlistHandler struct {
  log             *logger.Logger
  waitlistService services.WaitlistService
  adminToken      string
}

func NewWaitlistHandler(log *logger.Logger, waitlistService services.WaitlistService) *WaitlistHandler {
  handlerLog := log.With("handler", "WaitlistHandler")
  return &WaitlistHandler{
    log:             handlerLog,
    waitlistService: waitlistService,
    adminToken:      utils.GetEnv("WAITLIST_ADMIN_TOKEN", "", handlerLog),
  }
}

type waitlistRequest struct {
  Email string `json:"email"`
}

func (h *WaitlistHandler) Join(c *gin.Context) {
  var req waitlistRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  invite, err := h.waitlistService.Join(c.Request.Context(), req.Email)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "waitlist_join_failed", err)
    return
  }
  RespondOK(c, gin.H{"approved": invite.Approved})
}

// Approve is an operator endpoint guarded by a static token rather than a
// user session.
func (h *WaitlistHandler) Approve(c *gin.Context) {
  token := c.GetHeader("X-Admin-Token")
  if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
    RespondError(c, http.StatusForbidden, "forbidden", nil)
    return
  }
  var req waitlistRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  if err := h.waitlistService.Approve(c.Request.Context(), req.Email); err != nil {
    RespondError(c, http.StatusBadRequest, "waitlist_approve_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "approved"})
}
