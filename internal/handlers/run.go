package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/requestdata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/services"
  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type RunHandler struct {
  log        *logger.Logger
  runService services.RunService
  hub        *sse.SSEHub
}

func NewRunHandler(log *logger.Logger, runService services.RunService, hub *sse.SSEHub) *RunHandler {
  return &RunHandler{
    log:        log.With("handler", "RunHandler"),
    runService: runService,
    hub:        hub,
  }
}

type createRunRequest struct {
  Name            string     `json:"name"`
  CompanyID       uuid.UUID  `json:"company_id"`
  ProductID       uuid.UUID  `json:"product_id"`
  ICPID           *uuid.UUID `json:"icp_id,omitempty"`
  Tone            string     `json:"tone"`
  ExperienceLevel string     `json:"experience_level"`
  WordLimit       int        `json:"word_limit"`
  Language        string     `json:"language"`
}

func (h *RunHandler) Create(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  var req createRunRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  run := &types.Run{
    Name:            req.Name,
    CompanyID:       req.CompanyID,
    ProductID:       req.ProductID,
    ICPID:           req.ICPID,
    Tone:            req.Tone,
    ExperienceLevel: req.ExperienceLevel,
    WordLimit:       req.WordLimit,
    Language:        req.Language,
  }
  created, err := h.runService.CreateRun(c.Request.Context(), rd.UserID, run)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_run_failed", err)
    return
  }
  FlushSSEMessages(c, h.hub)
  RespondOK(c, gin.H{"run": created})
}

func (h *RunHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  runs, err := h.runService.ListRuns(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Error("list runs failed", "error", err, "user_id", rd.UserID)
    RespondError(c, http.StatusInternalServerError, "list_runs_failed", err)
    return
  }
  RespondOK(c, gin.H{"runs": runs})
}

func (h *RunHandler) Get(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  runID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
    return
  }
  run, err := h.runService.GetRun(c.Request.Context(), rd.UserID, runID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "run_not_found", err)
    return
  }
  RespondOK(c, gin.H{"run": run})
}

func (h *RunHandler) Update(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  runID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  run, err := h.runService.UpdateRun(c.Request.Context(), rd.UserID, runID, updates)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_run_failed", err)
    return
  }
  FlushSSEMessages(c, h.hub)
  RespondOK(c, gin.H{"run": run})
}

func (h *RunHandler) Delete(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  runID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
    return
  }
  if err := h.runService.DeleteRun(c.Request.Context(), rd.UserID, runID); err != nil {
    RespondError(c, http.StatusBadRequest, "delete_run_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "deleted"})
}

// Generate runs the playbook pipeline synchronously and returns the
// finished document. Quota denials map to 429.
func (h *RunHandler) Generate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  runID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
    return
  }
  doc, err := h.runService.GeneratePlaybook(c.Request.Context(), rd.UserID, runID)
  if err != nil {
    if errors.Is(err, services.ErrQuotaExceeded) {
      RespondError(c, http.StatusTooManyRequests, "quota_exceeded", err)
      return
    }
    var exhausted *services.ExhaustedError
    if errors.As(err, &exhausted) {
      RespondError(c, http.StatusBadGateway, "generation_exhausted", err)
      return
    }
    h.log.Error("generate playbook failed", "error", err, "run_id", runID)
    RespondError(c, http.StatusInternalServerError, "generate_failed", err)
    return
  }
  FlushSSEMessages(c, h.hub)
  RespondOK(c, gin.H{"document": doc})
}
