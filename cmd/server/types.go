package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/passes"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

// holds all dependencies and state for the API server
type Server struct {
	config  *config.Config
	db      *pgxpool.Pool // nil unless DATABASE_URL is set
	redis   *redis.Client // nil unless REDIS_URL is set
	reports reports.Store
	passes  *passes.Manager
	router  *gin.Engine
}
