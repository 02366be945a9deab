package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/requestdata"
  "github.com/bizzdev-ai/bizzdev-backend/internal/services"
)

type DocumentHandler struct {
  log             *logger.Logger
  documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documentService services.DocumentService) *DocumentHandler {
  return &DocumentHandler{
    log:             log.With("handler", "DocumentHandler"),
    documentService: documentService,
  }
}

func (h *DocumentHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  if runIDStr := c.Query("run_id"); runIDStr != "" {
    runID, err := uuid.Parse(runIDStr)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
      return
    }
    docs, err := h.documentService.ListDocumentsByRun(c.Request.Context(), rd.UserID, runID)
    if err != nil {
      RespondError(c, http.StatusNotFound, "run_not_found", err)
      return
    }
    RespondOK(c, gin.H{"documents": docs})
    return
  }
  docs, err := h.documentService.ListDocuments(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Error("list documents failed", "error", err, "user_id", rd.UserID)
    RespondError(c, http.StatusInternalServerError, "list_documents_failed", err)
    return
  }
  RespondOK(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Get(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  documentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
    return
  }
  doc, err := h.documentService.GetDocument(c.Request.Context(), rd.UserID, documentID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "document_not_found", err)
    return
  }
  RespondOK(c, gin.H{"document": doc})
}

func (h *DocumentHandler) GetHTML(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  documentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
    return
  }
  htmlBody, doc, err := h.documentService.RenderDocumentHTML(c.Request.Context(), rd.UserID, documentID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "document_not_found", err)
    return
  }
  RespondOK(c, gin.H{"title": doc.Title, "html": htmlBody})
}

func (h *DocumentHandler) GetPDF(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  documentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
    return
  }
  pdf, filename, err := h.documentService.ExportDocumentPDF(c.Request.Context(), rd.UserID, documentID)
  if err != nil {
    h.log.Error("export pdf failed", "error", err, "document_id", documentID)
    RespondError(c, http.StatusBadGateway, "export_pdf_failed", err)
    return
  }
  c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
  c.Data(http.StatusOK, "application/pdf", pdf)
}

type emailDocumentRequest struct {
  To string `json:"to"`
}

func (h *DocumentHandler) Email(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  documentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
    return
  }
  var req emailDocumentRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  to := req.To
  if to == "" {
    to = rd.Email
  }
  if err := h.documentService.EmailDocument(c.Request.Context(), rd.UserID, documentID, to); err != nil {
    h.log.Error("email document failed", "error", err, "document_id", documentID)
    RespondError(c, http.StatusBadGateway, "email_document_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "sent"})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  documentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
    return
  }
  if err := h.documentService.DeleteDocument(c.Request.Context(), rd.UserID, documentID); err != nil {
    RespondError(c, http.StatusBadRequest, "delete_document_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "deleted"})
}
