package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Use(RequestID(), AccessLog())

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/infographic", h.infographic)
		api.GET("/infographic/image", h.infographicImage)
		api.POST("/layout", h.layoutPreview)
	}
}
