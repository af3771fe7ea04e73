package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stress-index/internal/config"
	"stress-index/internal/handler"
	"stress-index/internal/logger"
	"stress-index/internal/middleware"
	"stress-index/internal/service"
	"stress-index/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log, "server")
	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(db)
	if err := st.Migrate(ctx); err != nil {
		logger.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	var exporter service.SummaryExporter
	raw, err := cfg.NewRawClient()
	if err != nil {
		logger.Warn("sdk client init failed", "err", err)
	} else if raw != nil {
		exporter = service.NewCatalogSync(raw, cfg.MOI.DatabaseID, cfg.MOI.SummaryTableID)
		logger.Info("catalog export enabled", "table", cfg.MOI.SummaryTableID)
	}

	stressSvc := service.NewStressService(st, exporter, cfg.Engine.SweepConcurrency)
	authSvc := service.NewAuthService(st)
	entrySvc := service.NewEntryService(st)

	go service.NewScheduler(stressSvc, cfg.Engine.SweepInterval, cfg.Engine.RunOnStart).Start(ctx)

	secret := []byte(cfg.Auth.JWTSecret)
	authH := handler.NewAuthHandler(authSvc, secret)
	stressH := handler.NewStressHandler(stressSvc)
	entryH := handler.NewEntryHandler(entrySvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-New-Token"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)
	api := r.Group("/api", middleware.JWTAuth(secret))
	api.POST("/stress/recalculate", stressH.Recalculate)
	api.POST("/moods", entryH.CreateMood)
	api.POST("/spending", entryH.CreateSpending)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		<-ctx.Done()
		logger.Info("server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", "addr", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
	}
}
