package handlers

import (
  "github.com/gin-gonic/gin"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
)

type HealthcheckHandler struct {
  log *logger.Logger
  db  *gorm.DB
}

func NewHealthcheckHandler(log *logger.Logger, db *gorm.DB) *HealthcheckHandler {
  return &HealthcheckHandler{log: log.With("handler", "HealthcheckHandler"), db: db}
}

func (h *HealthcheckHandler) Healthz(c *gin.Context) {
  sqlDB, err := h.db.DB()
  if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
    RespondError(c, 503, "db_unreachable", err)
    return
  }
  RespondOK(c, gin.H{"status": "ok"})
}
