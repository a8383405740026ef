package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusevents/config"
	"campusevents/db"
	"campusevents/middlewares"
	"campusevents/models"
	"campusevents/registration"
	"campusevents/routes"
	"campusevents/storage"
	"campusevents/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SQL
	sqldb, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	users := models.NewSQLUserRepository(sqldb)
	societies := models.NewSQLSocietyRepository(sqldb)
	events := models.NewSQLEventRepository(sqldb)
	regs := models.NewSQLRegistrationRepository(sqldb)

	if _, err := models.EnsureSuperAdmin(ctx, users, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	// Mongo (activity log)
	var activity models.ActivityRepository
	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		mg, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = mg.Ping(connectCtx, nil)
		}
		cancel()
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() { _ = mg.Disconnect(context.Background()) }()
		activity = models.NewMongoActivityRepository(mg.Database(cfg.MongoDB).Collection("activity"))
	} else {
		slog.Warn("MONGO_URI not set; activity log kept in memory")
		activity = models.NewMemoryActivityRepository(0)
	}

	// Redis (sessions, quota)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	limits := routes.DefaultLimits()
	limits.RegisterQuota = cfg.RegisterQuota

	files := storage.NewLocalFileStore(cfg.UploadDir)
	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.Use(middlewares.RequestLogger(logger), gin.Recovery())
	routes.RegisterRoutes(server, &routes.Deps{
		Users:        users,
		Societies:    societies,
		Events:       events,
		Regs:         regs,
		Engine:       registration.NewEngine(events, regs, files, activity),
		Activity:     activity,
		Tokens:       utils.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL),
		Sessions:     utils.NewSessionStore(rdb),
		Redis:        rdb,
		Limits:       limits,
		SecureCookie: cfg.SecureCookie,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
