package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/requestdata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/services"
)

type UserHandler struct {
  log         *logger.Logger
  userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
  return &UserHandler{
    log:         log.With("handler", "UserHandler"),
    userService: userService,
  }
}

func (h *UserHandler) Me(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  user, err := h.userService.GetUser(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "user_not_found", err)
    return
  }
  used, limit, err := h.userService.GetQuotaStatus(c.Request.Context(), rd.UserID, rd.Email)
  if err != nil {
    h.log.Error("quota status failed", "error", err, "user_id", rd.UserID)
    RespondError(c, http.StatusInternalServerError, "quota_status_failed", err)
    return
  }
  RespondOK(c, gin.H{
    "user": user,
    "quota": gin.H{
      "used":  used,
      "limit": limit,
    },
  })
}
