package dedup

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/dedup/internal/config"
)

func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config) {
	router.POST("/dedup", Deduplicate(cfg))
}
