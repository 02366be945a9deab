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

type CompanyHandler struct {
  log            *logger.Logger
  companyService services.CompanyService
}

func NewCompanyHandler(log *logger.Logger, companyService services.CompanyService) *CompanyHandler {
  return &CompanyHandler{
    log:            log.With("handler", "CompanyHandler"),
    companyService: companyService,
  }
}

func (h *CompanyHandler) Create(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  var company types.Company
  if err := c.ShouldBindJSON(&company); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  created, err := h.companyService.CreateCompany(c.Request.Context(), rd.UserID, &company)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_company_failed", err)
    return
  }
  RespondOK(c, gin.H{"company": created})
}

func (h *CompanyHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  companies, err := h.companyService.ListCompanies(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Error("list companies failed", "error", err, "user_id", rd.UserID)
    RespondError(c, http.StatusInternalServerError, "list_companies_failed", err)
    return
  }
  RespondOK(c, gin.H{"companies": companies})
}

func (h *CompanyHandler) Get(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  companyID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
    return
  }
  company, err := h.companyService.GetCompany(c.Request.Context(), rd.UserID, companyID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "company_not_found", err)
    return
  }
  RespondOK(c, gin.H{"company": company})
}

func (h *CompanyHandler) Update(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  companyID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  company, err := h.companyService.UpdateCompany(c.Request.Context(), rd.UserID, companyID, updates)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_company_failed", err)
    return
  }
  RespondOK(c, gin.H{"company": company})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  companyID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
    return
  }
  if err := h.companyService.DeleteCompany(c.Request.Context(), rd.UserID, companyID); err != nil {
    RespondError(c, http.StatusBadRequest, "delete_company_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "deleted"})
}
