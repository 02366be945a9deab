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

type ProductHandler struct {
  log            *logger.Logger
  productService services.ProductService
}

func NewProductHandler(log *logger.Logger, productService services.ProductService) *ProductHandler {
  return &ProductHandler{
    log:            log.With("handler", "ProductHandler"),
    productService: productService,
  }
}

func (h *ProductHandler) Create(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  var product types.Product
  if err := c.ShouldBindJSON(&product); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  created, err := h.productService.CreateProduct(c.Request.Context(), rd.UserID, &product)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_product_failed", err)
    return
  }
  RespondOK(c, gin.H{"product": created})
}

func (h *ProductHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  products, err := h.productService.ListProducts(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Error("list products failed", "error", err, "user_id", rd.UserID)
    RespondError(c, http.StatusInternalServerError, "list_products_failed", err)
    return
  }
  RespondOK(c, gin.H{"products": products})
}

func (h *ProductHandler) Get(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  productID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
    return
  }
  product, err := h.productService.GetProduct(c.Request.Context(), rd.UserID, productID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "product_not_found", err)
    return
  }
  RespondOK(c, gin.H{"product": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  productID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  product, err := h.productService.UpdateProduct(c.Request.Context(), rd.UserID, productID, updates)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_product_failed", err)
    return
  }
  RespondOK(c, gin.H{"product": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  productID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
    return
  }
  if err := h.productService.DeleteProduct(c.Request.Context(), rd.UserID, productID); err != nil {
    RespondError(c, http.StatusBadRequest, "delete_product_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "deleted"})
}
