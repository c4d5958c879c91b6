package survey

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the capture/review routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	parks := r.Group("/parks")
	{
		parks.POST("", h.CreatePark)
		parks.GET("", h.ListParks)
		parks.GET("/:id/summary", h.ParkSummary)
	}

	buildings := r.Group("/buildings")
	{
		buildings.POST("", h.CreateBuilding)
		buildings.GET("/:id", h.GetDossier)
		buildings.POST("/:id/observations", h.AddObservation)
	}

	r.POST("/observations/:id/media", h.UploadMedia)
}
