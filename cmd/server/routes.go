package main

import (
	"github.com/gin-gonic/gin"

	restdedup "codeberg.org/algopatterns/dedup/api/rest/dedup"
	"codeberg.org/algopatterns/dedup/api/rest/health"
	restpasses "codeberg.org/algopatterns/dedup/api/rest/passes"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	rateLimit, err := RateLimitMiddleware(server.config.RateLimit, server.redis)
	if err != nil {
		return err
	}

	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")
	v1.Use(rateLimit)

	{
		v1.GET("/ping", health.PingHandler)

		restdedup.RegisterRoutes(v1, server.config)
		restpasses.RegisterRoutes(v1, server.passes, server.config)
	}

	return nil
}
