package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/requestdata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/services"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type ICPHandler struct {
  log            *logger.Logger
  icpService services.ICPService
}

func NewICPHandler(log *logger.Logger, icpService services.ICPService) *ICPHandler {
  return &ICPHandler{
    log:            log.With("handler", "ICPHandler"),
    icpService: icpService,
  }
}

func (h *ICPHandler) Create(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  var icp types.ICP
  if err := c.ShouldBindJSON(&icp); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  created, err := h.icpService.CreateICP(c.Request.Context(), rd.UserID, &icp)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_icp_failed", err)
    return
  }
  RespondOK(c, gin.H{"icp": created})
}

func (h *ICPHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  icps, err := h.icpService.ListICPs(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Error("list icps failed", "error", err, "user_id", rd.UserID)
    RespondError(c, http.StatusInternalServerError, "list_icps_failed", err)
    return
  }
  RespondOK(c, gin.H{"icps": icps})
}

func (h *ICPHandler) Get(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  icpID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_icp_id", err)
    return
  }
  icp, err := h.icpService.GetICP(c.Request.Context(), rd.UserID, icpID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "icp_not_found", err)
    return
  }
  RespondOK(c, gin.H{"icp": icp})
}

func (h *ICPHandler) Update(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  icpID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_icp_id", err)
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  icp, err := h.icpService.UpdateICP(c.Request.Context(), rd.UserID, icpID, updates)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_icp_failed", err)
    return
  }
  RespondOK(c, gin.H{"icp": icp})
}

func (h *ICPHandler) Delete(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  icpID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_icp_id", err)
    return
  }
  if err := h.icpService.DeleteICP(c.Request.Context(), rd.UserID, icpID); err != nil {
    RespondError(c, http.StatusBadRequest, "delete_icp_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "deleted"})
}
