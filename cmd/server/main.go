package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ngekosaja/ngekosaja-api/internal/config"
	"github.com/ngekosaja/ngekosaja-api/internal/database"
	"github.com/ngekosaja/ngekosaja-api/internal/handler"
	"github.com/ngekosaja/ngekosaja-api/internal/logger"
	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/queue"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/router"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
	"github.com/ngekosaja/ngekosaja-api/internal/storage"
	"github.com/ngekosaja/ngekosaja-api/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("reading .env: %v", err)
	}
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "ngekosaja-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		scripts, err := migrations.Scripts()
		if err != nil {
			zl.Fatal("load migrations", zap.Error(err))
		}
		for _, s := range scripts {
			if err := database.Migrate(ctx, db, s); err != nil {
				zl.Fatal("migrate", zap.Error(err))
			}
		}
		zl.Info("schema applied", zap.Int("scripts", len(scripts)))
	}

	// nil client switches cache and rate limit to their in-process versions
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		zl.Warn("redis unavailable, using in-process cache and rate limit")
	} else {
		defer rdb.Close()
	}

	var store storage.Store
	if cfg.S3.Enabled() {
		up, err := storage.NewUploader(ctx, cfg.S3)
		if err != nil {
			zl.Fatal("object storage", zap.Error(err))
		}
		store = up
	} else {
		zl.Warn("S3 not configured, uploads disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	kos := repository.NewKosRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	txs := repository.NewTransactionRepo(db)
	inbox := repository.NewNotificationRepo(db)

	var pub service.EventPublisher
	consumerDone := make(chan struct{})
	if cfg.AMQPURL != "" {
		p := queue.NewPublisher(cfg.AMQPURL, zl)
		defer p.Close()
		pub = p
		go func() {
			defer close(consumerDone)
			if err := queue.NewConsumer(cfg.AMQPURL, inbox, zl).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("notification consumer stopped", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
		zl.Warn("RABBITMQ_URL not set, notifications are written directly")
	}
	notifier := service.NewNotifier(pub, inbox, zl)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(zl.Named("http")))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(echomw.BodyLimit(bodyLimit(cfg.UploadMaxBytes)))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens))
	pubCache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	router.RegisterPublic(e, &handler.PublicHandler{Kos: kos, Rooms: rooms}, pubCache.Middleware())
	router.RegisterAccount(e,
		&handler.ProfileHandler{Cfg: cfg, Users: users, Store: store},
		&handler.NotificationHandler{Repo: inbox},
		cfg.JWTSecret)
	router.RegisterOwner(e, &handler.OwnerHandler{
		Cfg:      cfg,
		Kos:      kos,
		Rooms:    rooms,
		Bookings: bookings,
		Txs:      txs,
		Gate:     service.NewOwnerGate(kos),
		Batch:    service.NewRoomBatchService(rooms, kos, notifier, zl),
		Notifier: notifier,
		Store:    store,
		Cache:    pubCache,
		Log:      zl,
	}, cfg.JWTSecret)
	router.RegisterTenant(e, &handler.TenantHandler{
		Cfg:      cfg,
		Bookings: bookings,
		Txs:      txs,
		Notifier: notifier,
		Store:    store,
	}, cfg.JWTSecret)
	router.RegisterAdmin(e, &handler.AdminHandler{Users: users, Kos: kos}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
	}
}

// bodyLimit leaves room for multipart overhead above the largest upload.
func bodyLimit(uploadMax int64) string {
	mib := uploadMax>>20 + 1
	return fmt.Sprintf("%dM", mib)
}
