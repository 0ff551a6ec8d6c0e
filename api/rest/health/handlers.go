package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

const (
	service = "dedup"
	version = "1.0.0"
)

// returns the server health status
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:     "healthy",
		Service:    service,
		Version:    version,
		Strategies: dedup.Strategies(),
	})
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}
