package importer

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the bulk import route.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/imports", h.RunImport)
}
