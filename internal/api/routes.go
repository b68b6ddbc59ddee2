package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the article API. metrics may be nil.
func SetupRoutes(router *gin.Engine, articles *ArticleHandler, metrics http.Handler) {
	v1 := router.Group("/api/v1")

	v1.POST("/article", articles.Create)
	v1.GET("/article", articles.GetByViewID)
	v1.GET("/article/filter", articles.Filter)
	v1.GET("/article/:id", articles.GetByID)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
