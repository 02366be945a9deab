package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/bizzdev-ai/bizzdev-backend/internal/handlers"
  "github.com/bizzdev-ai/bizzdev-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler        *handlers.AuthHandler
  AuthMiddleware     *middleware.AuthMiddleware
  UserHandler        *handlers.UserHandler
  SSEHandler         *handlers.SSEHandler
  WaitlistHandler    *handlers.WaitlistHandler
  CompanyHandler     *handlers.CompanyHandler
  ProductHandler     *handlers.ProductHandler
  ICPHandler         *handlers.ICPHandler
  RunHandler         *handlers.RunHandler
  DocumentHandler    *handlers.DocumentHandler
  HealthcheckHandler *handlers.HealthcheckHandler
  AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("bizzdev-backend"))

  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000", "http://localhost:5173"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Admin-Token"},
    AllowCredentials: true,
  }))

  // Public
  router.GET("/healthcheck", cfg.HealthcheckHandler.Healthz)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)
  router.POST("/waitlist", cfg.WaitlistHandler.Join)
  router.POST("/waitlist/approve", cfg.WaitlistHandler.Approve)

  // Protected
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())

  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  protected.GET("/sse/stream", cfg.SSEHandler.Stream)

  protected.GET("/user", cfg.UserHandler.Me)

  protected.POST("/companies", cfg.CompanyHandler.Create)
  protected.GET("/companies", cfg.CompanyHandler.List)
  protected.GET("/companies/:id", cfg.CompanyHandler.Get)
  protected.PATCH("/companies/:id", cfg.CompanyHandler.Update)
  protected.DELETE("/companies/:id", cfg.CompanyHandler.Delete)

  protected.POST("/products", cfg.ProductHandler.Create)
  protected.GET("/products", cfg.ProductHandler.List)
  protected.GET("/products/:id", cfg.ProductHandler.Get)
  protected.PATCH("/products/:id", cfg.ProductHandler.Update)
  protected.DELETE("/products/:id", cfg.ProductHandler.Delete)

  protected.POST("/icps", cfg.ICPHandler.Create)
  protected.GET("/icps", cfg.ICPHandler.List)
  protected.GET("/icps/:id", cfg.ICPHandler.Get)
  protected.PATCH("/icps/:id", cfg.ICPHandler.Update)
  protected.DELETE("/icps/:id", cfg.ICPHandler.Delete)

  protected.POST("/runs", cfg.RunHandler.Create)
  protected.GET("/runs", cfg.RunHandler.List)
  protected.GET("/runs/:id", cfg.RunHandler.Get)
  protected.PATCH("/runs/:id", cfg.RunHandler.Update)
  protected.DELETE("/runs/:id", cfg.RunHandler.Delete)
  protected.POST("/runs/:id/generate", cfg.RunHandler.Generate)

  protected.GET("/documents", cfg.DocumentHandler.List)
  protected.GET("/documents/:id", cfg.DocumentHandler.Get)
  protected.GET("/documents/:id/html", cfg.DocumentHandler.GetHTML)
  protected.GET("/documents/:id/pdf", cfg.DocumentHandler.GetPDF)
  protected.POST("/documents/:id/email", cfg.DocumentHandler.Email)
  protected.DELETE("/documents/:id", cfg.DocumentHandler.Delete)

  return router
}
