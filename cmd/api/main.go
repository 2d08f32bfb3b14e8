package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/dropfour/internal/config"
	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/repository/postgres"
	"github.com/iamasit07/dropfour/internal/repository/redis"
	"github.com/iamasit07/dropfour/internal/service/cleanup"
	"github.com/iamasit07/dropfour/internal/service/game"
	transportHttp "github.com/iamasit07/dropfour/internal/transport/http"
	"github.com/iamasit07/dropfour/internal/transport/websocket"
	"github.com/iamasit07/dropfour/pkg/auth"
	"github.com/iamasit07/dropfour/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	dims := domain.Dimensions{Columns: cfg.BoardColumns, Rows: cfg.BoardRows}
	if err := dims.Validate(); err != nil {
		zl.Fatal("invalid board configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Archive (Postgres)
	var db *sql.DB
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			zl.Fatal("database unreachable", zap.Error(err))
		}
		defer db.Close()

		zl.Info("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		}
		gameRepo = postgres.NewGameRepo(db)
	} else {
		zl.Warn("DATABASE_URL not set, finished games will not be archived")
	}

	// 2. Snapshot cache (Redis), optional
	var cache game.CacheRepository
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		zl.Warn("redis unavailable, sessions will not survive a restart", zap.Error(err))
		redisClient.Close()
		redisClient = nil
	} else {
		cache = redis.NewRedisCache(redisClient)
		defer redisClient.Close()
	}

	// 3. Services
	connManager := websocket.NewConnectionManager()
	var repo game.GameRepository
	var archive game.ArchiveReader = emptyArchive{}
	var pruner cleanup.ArchivePruner
	if gameRepo != nil {
		repo, archive, pruner = gameRepo, gameRepo, gameRepo
	}

	sessionManager := game.NewSessionManager(repo, cache, connManager, zl, game.Options{
		Dimensions:     dims,
		SnapshotTTL:    cfg.SnapshotTTL,
		PostGameWindow: cfg.PostGameWindow,
		IdleTimeout:    cfg.SessionIdleTimeout,
	})
	gameService := game.NewService(archive)
	seats := auth.NewSeatSigner(cfg.JWTSecret, cfg.SeatTokenTTL)

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, pruner, cfg.CleanupInterval, cfg.ArchiveRetentionDays, zl)
	go cleanupWorker.Start(ctx)

	// 5. HTTP + WebSocket
	checks := map[string]transportHttp.HealthCheck{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	wsHandler := websocket.NewHandler(connManager, sessionManager, seats, cfg.AllowedOrigins, zl)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		Games:          transportHttp.NewGamesHandler(sessionManager, seats, zl),
		History:        transportHttp.NewHistoryHandler(gameService),
		Watch:          transportHttp.NewWatchHandler(sessionManager, connManager),
		Health:         transportHttp.NewHealthHandler(checks),
		WebSocket:      wsHandler.HandleWebSocket,
		Seats:          seats,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         zl,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	sessionManager.Wait()
	zl.Info("server exited gracefully")
}

// emptyArchive serves history when no database is configured.
type emptyArchive struct{}

func (emptyArchive) ListRecent(context.Context, int) ([]domain.GameRecord, error) {
	return []domain.GameRecord{}, nil
}

func (emptyArchive) GetGameRounds(context.Context, string) ([]domain.GameRecord, error) {
	return nil, nil
}
