package passes

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/passes"
)

func RegisterRoutes(router *gin.RouterGroup, manager *passes.Manager, cfg *config.Config) {
	passesGroup := router.Group("/passes")
	{
		passesGroup.POST("", CreatePass(manager, cfg))
		passesGroup.GET("", ListPasses(manager))
		passesGroup.GET("/:id", GetPass(manager))
		passesGroup.POST("/:id/documents", ProcessDocuments(manager, cfg))
		passesGroup.POST("/:id/reset", ResetPass(manager))
		passesGroup.DELETE("/:id", DeletePass(manager))
		passesGroup.GET("/:id/reports", ListReports(manager))
	}
}
