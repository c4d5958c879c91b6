package survey

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"powertown/internal/pkg/response"
	"powertown/internal/pkg/validator"
)

// Handler handles survey HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreatePark handles POST /api/v1/parks
func (h *Handler) CreatePark(c *gin.Context) {
	var req CreateParkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	park, err := h.service.CreatePark(c.Request.Context(), req.Name, req.Location)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, park)
}

// ListParks handles GET /api/v1/parks
func (h *Handler) ListParks(c *gin.Context) {
	parks, err := h.service.ListParks(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, parks)
}

// CreateBuilding handles POST /api/v1/buildings
func (h *Handler) CreateBuilding(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	building, err := h.service.CreateBuilding(c.Request.Context(), req.IndustrialParkID, req.Name, req.Address)
	if err != nil {
		if errors.Is(err, ErrParkNotFound) {
			response.Error(c, http.StatusNotFound, "PARK_NOT_FOUND", "Industrial park not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, building)
}

// GetDossier handles GET /api/v1/buildings/:id
func (h *Handler) GetDossier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid building ID")
		return
	}

	dossier, err := h.service.Dossier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBuildingNotFound) {
			response.Error(c, http.StatusNotFound, "BUILDING_NOT_FOUND", "Building not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, dossier)
}

// AddObservation handles POST /api/v1/buildings/:id/observations
func (h *Handler) AddObservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid building ID")
		return
	}

	var req CreateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	var observedAt time.Time
	if req.ObservedAt != "" {
		observedAt, err = time.Parse(time.RFC3339, req.ObservedAt)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_TIMESTAMP", "observed_at must be RFC-3339")
			return
		}
	}

	obs, err := h.service.AddObservation(c.Request.Context(), id, req.Observer, req.NoteText, observedAt)
	if err != nil {
		if errors.Is(err, ErrBuildingNotFound) {
			response.Error(c, http.StatusNotFound, "BUILDING_NOT_FOUND", "Building not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, obs)
}

// UploadMedia handles POST /api/v1/observations/:id/media (multipart)
func (h *Handler) UploadMedia(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid observation ID")
		return
	}

	mediaType := c.PostForm("media_type")
	if mediaType == "" {
		mediaType = MediaTypePhoto
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "Missing file upload")
		return
	}
	if fileHeader.Size == 0 {
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "File is empty")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_FILE", "Failed to read upload")
		return
	}
	defer file.Close()

	asset, err := h.service.SaveMedia(c.Request.Context(), id, mediaType, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrObservationNotFound):
			response.Error(c, http.StatusNotFound, "OBSERVATION_NOT_FOUND", "Observation not found")
		case errors.Is(err, ErrInvalidMediaType):
			response.Error(c, http.StatusBadRequest, "INVALID_MEDIA_TYPE", "media_type must be photo, audio, card or other")
		case errors.Is(err, ErrMissingFilename):
			response.Error(c, http.StatusBadRequest, "MISSING_FILENAME", "Upload has no filename")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, asset)
}

// ParkSummary handles GET /api/v1/parks/:id/summary
func (h *Handler) ParkSummary(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid park ID")
		return
	}

	summary, err := h.service.ParkSummary(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrParkNotFound) {
			response.Error(c, http.StatusNotFound, "PARK_NOT_FOUND", "Industrial park not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, summary)
}
