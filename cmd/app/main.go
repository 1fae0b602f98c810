package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apiHttp "github.com/vibe-gaming/enrollment/internal/api/http"
	"github.com/vibe-gaming/enrollment/internal/cache"
	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/db"
	"github.com/vibe-gaming/enrollment/internal/metrics"
	"github.com/vibe-gaming/enrollment/internal/queue/asynqserver"
	"github.com/vibe-gaming/enrollment/internal/queue/client"
	"github.com/vibe-gaming/enrollment/internal/repository"
	"github.com/vibe-gaming/enrollment/internal/server"
	"github.com/vibe-gaming/enrollment/internal/service"
	"github.com/vibe-gaming/enrollment/internal/worker"
	"github.com/vibe-gaming/enrollment/pkg/auth"
	"github.com/vibe-gaming/enrollment/pkg/email/smtp"
	logger "github.com/vibe-gaming/enrollment/pkg/logger"
	"github.com/vibe-gaming/enrollment/pkg/sessionid"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	appLogger.Info("starting enrollment api", zap.String("env", cfg.Env), zap.String("store", cfg.Store.Type))
	appLogger.Debug("debug messages are enabled")

	repoDeps := repository.Deps{
		DeviceURL:  cfg.Device.URL,
		HTTPClient: &http.Client{Timeout: cfg.Store.Timeout},
	}

	// Init database
	if cfg.Store.Type == repository.StoreMySQL {
		dbMySQL, err := openMySQL(cfg.Database)
		if err != nil {
			appLogger.Error("mysql connect problem", zap.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := dbMySQL.Close(); err != nil {
				appLogger.Error("error when closing mysql", zap.Error(err))
			}
		}()
		repoDeps.DB = dbMySQL
		appLogger.Info("mysql connection done")
	}

	// Redis backs the realtime store and the completion queue
	var redisClient redis.UniversalClient
	if cfg.Store.Type == repository.StoreRedis || cfg.Queue.Enabled {
		var err error
		redisClient, err = cache.NewRedis(cfg.Cache)
		if err != nil {
			appLogger.Error("redis connect problem", zap.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Error("error when closing redis", zap.Error(err))
			}
		}()
		repoDeps.Redis = redisClient
		appLogger.Info("redis connection done")
	}

	tokenManager, err := auth.NewManager(cfg.Auth.Device)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		return
	}

	idGenerator, err := sessionid.New(cfg.Registration.SessionIDFormat)
	if err != nil {
		appLogger.Error("session id generator creation err", zap.Error(err))
		return
	}

	// Services, Repos & API Handlers
	repos, err := repository.NewRepositories(cfg.Store.Type, repoDeps)
	if err != nil {
		appLogger.Error("repositories creation err", zap.Error(err))
		return
	}

	var notifier service.CompletionNotifier
	if cfg.Queue.Enabled {
		asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
		defer asynqClient.Close()
		restore := client.SetClient(asynqClient)
		defer restore()
		notifier = client.Notifier{}
	}

	services, err := service.NewServices(service.Deps{
		Config:      cfg,
		Repos:       repos,
		IDGenerator: idGenerator,
		Metrics:     metrics.New(prometheus.DefaultRegisterer),
		Notifier:    notifier,
	})
	if err != nil {
		appLogger.Error("services creation err", zap.Error(err))
		return
	}
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg, prometheus.DefaultGatherer)

	// Queue worker
	var asynqSrv *asynq.Server
	if cfg.Queue.Enabled {
		emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
		if err != nil {
			appLogger.Error("smtp sender creation failed", zap.Error(err))
			return
		}

		workers := worker.NewWorkers(worker.Deps{EmailProvider: emailSender, Config: cfg})

		var mux *asynq.ServeMux
		asynqSrv, mux = asynqserver.New(cfg.Cache, cfg.Queue, workers)
		if err := asynqSrv.Start(mux); err != nil {
			appLogger.Error("asynq server start failed", zap.Error(err))
			return
		}
		appLogger.Info("asynq server started")
	}

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	if asynqSrv != nil {
		asynqSrv.Shutdown()
	}

	appLogger.Info("app stopped")
}

func openMySQL(cfg config.Database) (*sqlx.DB, error) {
	dbMySQL, err := db.New(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, dbMySQL); err != nil {
		_ = dbMySQL.Close()
		return nil, err
	}

	return dbMySQL, nil
}
