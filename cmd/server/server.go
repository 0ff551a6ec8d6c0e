package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/logger"
	"codeberg.org/algopatterns/dedup/internal/passes"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	srv := &Server{config: cfg}

	if cfg.RedisURL != "" {
		redisStore, err := reports.NewRedisStoreFromURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}

		srv.redis = redisStore.Client()
		srv.reports = redisStore
	}

	// postgres keeps reports durably, so it wins over redis when both are set
	if cfg.DatabaseURL != "" {
		db, err := newPool(ctx, cfg.DatabaseURL)
		if err != nil {
			srv.Close()
			return nil, err
		}

		pgStore := reports.NewPostgresStore(db)
		if err := pgStore.Initialize(ctx); err != nil {
			db.Close()
			srv.Close()
			return nil, fmt.Errorf("failed to initialize report table: %w", err)
		}

		srv.db = db
		srv.reports = pgStore
	}

	if srv.reports == nil {
		srv.reports = reports.NewMemoryStore(0)
	}

	srv.passes = passes.NewManager(srv.reports, cfg.PassIdleTimeout)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if err := RegisterRoutes(router, srv); err != nil {
		srv.Close()
		return nil, err
	}

	srv.router = router

	logger.Info("server initialized",
		"strategy", cfg.Strategy,
		"report_store", fmt.Sprintf("%T", srv.reports),
		"rate_limit", cfg.RateLimit,
		"max_documents", cfg.MaxDocumentsPerRequest,
	)

	return srv, nil
}

func newPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// reports are small and infrequent, so keep the pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// releases database and redis connections
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	if s.db != nil {
		s.db.Close()
	}
}
