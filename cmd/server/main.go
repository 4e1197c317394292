package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/ayush17112005/TaskWiseAI/api/handler"
	"github.com/ayush17112005/TaskWiseAI/internal/config"
	"github.com/ayush17112005/TaskWiseAI/internal/infrastructure/boltdb"
	"github.com/ayush17112005/TaskWiseAI/internal/infrastructure/gemini"
	"github.com/ayush17112005/TaskWiseAI/internal/infrastructure/monitor"
	pgInfra "github.com/ayush17112005/TaskWiseAI/internal/infrastructure/postgres"
	redisInfra "github.com/ayush17112005/TaskWiseAI/internal/infrastructure/redis"
	"github.com/ayush17112005/TaskWiseAI/internal/middleware"
	"github.com/ayush17112005/TaskWiseAI/internal/router"
	"github.com/ayush17112005/TaskWiseAI/internal/services"
	"github.com/ayush17112005/TaskWiseAI/internal/services/lifecycle"
	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/pkg/logger"
	boltRepo "github.com/ayush17112005/TaskWiseAI/repository/bolt"
	"github.com/ayush17112005/TaskWiseAI/repository/postgres"
	redisRepo "github.com/ayush17112005/TaskWiseAI/repository/redis"
	analyticsUC "github.com/ayush17112005/TaskWiseAI/usecase/analytics"
	authUC "github.com/ayush17112005/TaskWiseAI/usecase/auth"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
	notificationUC "github.com/ayush17112005/TaskWiseAI/usecase/notification"
	projectUC "github.com/ayush17112005/TaskWiseAI/usecase/project"
	suggestUC "github.com/ayush17112005/TaskWiseAI/usecase/suggest"
	taskUC "github.com/ayush17112005/TaskWiseAI/usecase/task"
	teamUC "github.com/ayush17112005/TaskWiseAI/usecase/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	boltStore, err := boltdb.Open(cfg.Notify.Path, "notifications")
	if err != nil {
		zapLogger.Fatal("failed to open notification store", zap.Error(err))
	}
	manager.Register("notification_store", func(ctx context.Context) error {
		return boltStore.Close()
	})

	mon := monitor.New(pool, redisClient, boltStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, 7*24*time.Hour)
	notificationRepo := boltRepo.NewNotificationRepository(boltStore)

	gate := authz.NewGate(teamRepo)
	notifier := notificationUC.New(notificationRepo, zapLogger)
	model := gemini.New(cfg.Gemini, zapLogger)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	teamUseCase := teamUC.New(teamRepo, userRepo, gate, notifier, zapLogger)
	projectUseCase := projectUC.New(projectRepo, taskRepo, teamRepo, gate, zapLogger)
	taskUseCase := taskUC.New(taskRepo, projectRepo, teamRepo, gate, notifier, zapLogger)
	analyticsUseCase := analyticsUC.New(taskRepo, projectRepo, teamRepo, userRepo, gate, zapLogger)
	suggestUseCase := suggestUC.New(taskRepo, projectRepo, userRepo, gate, analyticsUseCase, model, zapLogger)

	sweeper := services.NewRetentionSweeper(notifier, cfg.Notify.Retention, cfg.Notify.SweepSchedule, zapLogger)
	if err := sweeper.Start(); err != nil {
		zapLogger.Fatal("failed to schedule retention sweep", zap.Error(err))
	}
	manager.Register("retention_sweeper", sweeper.Stop)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Team:         apiHandler.NewTeamHandler(teamUseCase, ctxAdapter, zapLogger),
		Project:      apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Analytics:    apiHandler.NewAnalyticsHandler(analyticsUseCase, ctxAdapter, zapLogger),
		AI:           apiHandler.NewAIHandler(suggestUseCase, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notifier, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
