package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/approval"
	identityapp "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/identity"
	orgapp "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/auth"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/config"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/logger"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/persistence"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/storage"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/handler"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/middleware"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	departmentRepo := persistence.NewGormDepartmentRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Receipt object storage
	var objectStorage approval.ObjectStorage
	if cfg.Storage.UseStub {
		log.Warn("Using in-memory receipt storage; receipts are lost on restart")
		objectStorage = storage.NewStubObjectStorage()
	} else {
		objectStorage, err = storage.NewS3ObjectStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	requestService := approval.NewRequestService(expenseRepo, invoiceRepo, userRepo, log)
	feedService := approval.NewFeedService(expenseRepo, invoiceRepo)
	receiptService := approval.NewReceiptService(expenseRepo, invoiceRepo, objectStorage, cfg.Storage.RootFolder, log)
	dependencyService := approval.NewDependencyService(expenseRepo, invoiceRepo, departmentRepo, eventRepo)
	orgService := orgapp.NewService(departmentRepo, projectRepo, eventRepo, categoryRepo, dependencyService, log)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, version)

	r := router.NewRouter(engine)
	r.Register(handler.NewAuthHandler(authService)).
		Register(handler.NewRequestHandler(requestService, feedService, receiptService, cfg.HTTP.MaxBodySize)).
		Register(handler.NewOrganizationHandler(orgService)).
		Register(systemHandler)
	r.Setup()

	// Bare liveness probe outside the API prefix
	engine.GET("/healthz", systemHandler.Healthz)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
