package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"dreamycv/internal/api"
	"dreamycv/internal/config"
	"dreamycv/internal/database"
	"dreamycv/internal/draft"
	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
	"dreamycv/internal/profile"
	"dreamycv/internal/reco"
	"dreamycv/internal/storage"
	"dreamycv/internal/syncfeed"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := db.AutoMigrate(&profile.Profile{}, &profile.Favourite{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profiles := profile.NewStore(db)
	if _, err := profiles.Ensure(ctx); err != nil {
		log.Fatalf("ensure profile: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}
	log.Printf("redis connection ready")

	store := kvstore.NewRedisStore(redisClient, logger)
	codec := kvstore.NewCodec(store, logger)

	prefsStore := prefs.NewStore(codec)
	engine := reco.NewEngine(codec)
	drafts := draft.NewStore(codec, prefsStore)
	autosaver := draft.NewAutosaver(drafts, cfg.Draft.AutosaveWindow, logger)

	broadcaster := syncfeed.New(store, "", logger)
	// 偏好被写入后重算排序缓存，写入方是谁都一样；
	// 启动时的 Resync 用已有偏好把缓存预热一遍。
	broadcaster.Subscribe(prefs.Key, func(ctx context.Context, change kvstore.Change) {
		if change.Deleted {
			return
		}
		if _, err := engine.RankAndStore(ctx, prefsStore.Get(ctx)); err != nil {
			logger.Warn("refresh ranking cache failed", slog.String("error", err.Error()))
		}
	})
	go func() {
		if err := broadcaster.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("change feed stopped", slog.String("error", err.Error()))
		}
	}()
	broadcaster.Resync(ctx)

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	log.Printf("storage ready, bucket=%s", cfg.MinIO.Bucket)

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(
		router,
		prefsStore,
		engine,
		drafts,
		autosaver,
		broadcaster,
		profiles,
		storageClient,
		logger,
		cfg.Clamd.Addr,
	)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:    address,
		Handler: router,
	}

	go func() {
		log.Printf("api listening on %s", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 先把还没落盘的防抖草稿写掉，再关 HTTP。
	autosaver.Flush(shutdownCtx)

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("close redis: %v", err)
	}
}
