package export

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the CSV export routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	exp := r.Group("/export")
	{
		exp.GET("/csv", h.ExportBuildings)
		exp.GET("/observations.csv", h.ExportObservations)
	}
}
