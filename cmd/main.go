package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/bizzdev-ai/bizzdev-backend/internal/clients/redis"
  "github.com/bizzdev-ai/bizzdev-backend/internal/db"
  "github.com/bizzdev-ai/bizzdev-backend/internal/handlers"
  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/middleware"
  "github.com/bizzdev-ai/bizzdev-backend/internal/observability"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/server"
  "github.com/bizzdev-ai/bizzdev-backend/internal/services"
  "github.com/bizzdev-ai/bizzdev-backend/internal/sse"
  "github.com/bizzdev-ai/bizzdev-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "bizzdev-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer func() { _ = shutdownOTel(context.Background()) }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  inviteRepo := repos.NewInviteRepo(thePG, log)
  companyRepo := repos.NewCompanyRepo(thePG, log)
  productRepo := repos.NewProductRepo(thePG, log)
  icpRepo := repos.NewICPRepo(thePG, log)
  runRepo := repos.NewRunRepo(thePG, log)
  documentRepo := repos.NewDocumentRepo(thePG, log)
  quotaUsageRepo := repos.NewQuotaUsageRepo(thePG, log)
  aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)
  sseBus, err := redis.NewSSEBus(log)
  if err != nil {
    log.Warn("Redis SSE bus unavailable, running single-node", "error", err)
  } else {
    sseHub.SetPublisher(func(m sse.SSEMessage) {
      if pErr := sseBus.Publish(context.Background(), m); pErr != nil {
        log.Warn("Failed to publish SSE message to redis", "error", pErr)
      }
    })
    if err := sseBus.StartForwarder(context.Background(), func(m sse.SSEMessage) {
      sseHub.Broadcast(m)
    }); err != nil {
      log.Warn("Redis SSE forwarder failed to start", "error", err)
    }
    defer sseBus.Close()
  }

  // Services
  log.Info("Setting up Services from main...")
  genaiClient, err := services.NewGenAIClient(log)
  if err != nil {
    log.Error("Could not init GenAIClient", "error", err)
    os.Exit(1)
  }
  promptCfg := services.DefaultPromptConfig()
  if path := os.Getenv("PROMPT_CONFIG_PATH"); path != "" {
    promptCfg, err = services.LoadPromptConfig(path)
    if err != nil {
      log.Error("Could not load prompt config", "error", err, "path", path)
      os.Exit(1)
    }
  }

  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, inviteRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  quotaService := services.NewQuotaService(quotaUsageRepo, log)
  userService := services.NewUserService(thePG, log, userRepo, quotaService)
  waitlistService := services.NewWaitlistService(thePG, log, inviteRepo)
  companyService := services.NewCompanyService(thePG, log, companyRepo)
  productService := services.NewProductService(thePG, log, productRepo)
  icpService := services.NewICPService(thePG, log, icpRepo)
  markdownService := services.NewMarkdownService(log)
  pdfService := services.NewPDFService(log)
  notifierService := services.NewNotifierService(log)
  playbookService := services.NewPlaybookService(
    genaiClient,
    quotaService,
    documentRepo,
    runRepo,
    aiCallLogRepo,
    sseHub,
    promptCfg,
    services.DefaultGeneratePolicy(log),
    log,
  )
  runService := services.NewRunService(thePG, log, runRepo, companyRepo, productRepo, icpRepo, documentRepo, playbookService)
  documentService := services.NewDocumentService(thePG, log, documentRepo, runRepo, markdownService, pdfService, notifierService)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(log, authService)
  userHandler := handlers.NewUserHandler(log, userService)
  sseHandler := handlers.NewSSEHandler(log, sseHub)
  waitlistHandler := handlers.NewWaitlistHandler(log, waitlistService)
  companyHandler := handlers.NewCompanyHandler(log, companyService)
  productHandler := handlers.NewProductHandler(log, productService)
  icpHandler := handlers.NewICPHandler(log, icpService)
  runHandler := handlers.NewRunHandler(log, runService, sseHub)
  documentHandler := handlers.NewDocumentHandler(log, documentService)
  healthcheckHandler := handlers.NewHealthcheckHandler(log, thePG)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:        authHandler,
    AuthMiddleware:     authMiddleware,
    UserHandler:        userHandler,
    SSEHandler:         sseHandler,
    WaitlistHandler:    waitlistHandler,
    CompanyHandler:     companyHandler,
    ProductHandler:     productHandler,
    ICPHandler:         icpHandler,
    RunHandler:         runHandler,
    DocumentHandler:    documentHandler,
    HealthcheckHandler: healthcheckHandler,
    AllowOrigins:       utils.GetEnvAsList("CORS_ALLOW_ORIGINS", nil, log),
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
