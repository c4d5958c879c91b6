package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"powertown/internal/domain/scoring"
	"powertown/internal/domain/survey"
	"powertown/internal/pkg/response"
)

// Handler serves the CSV exports used for map and spreadsheet workflows.
type Handler struct {
	parks        survey.ParkRepository
	buildings    survey.BuildingRepository
	observations survey.ObservationRepository
	media        survey.MediaRepository
}

func NewHandler(repos *survey.Repositories) *Handler {
	return &Handler{
		parks:        repos.Parks,
		buildings:    repos.Buildings,
		observations: repos.Observations,
		media:        repos.Media,
	}
}

// ExportBuildings handles GET /api/v1/export/csv[?park_id=].
// One row per building: park info, readiness score, activity counts.
func (h *Handler) ExportBuildings(c *gin.Context) {
	ctx := c.Request.Context()

	parkID, ok := optionalID(c, "park_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_PARK_ID", "park_id must be an integer")
		return
	}

	parks, err := h.parks.List(ctx)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	parksByID := make(map[int64]*survey.IndustrialPark, len(parks))
	for _, p := range parks {
		parksByID[p.ID] = p
	}

	var buildings []*survey.Building
	if parkID != nil {
		buildings, err = h.buildings.ListByPark(ctx, *parkID)
	} else {
		buildings, err = h.buildings.ListAll(ctx)
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"park_id", "park_name", "park_location",
		"building_id", "building_name", "building_address",
		"readiness_score", "confidence", "top_drivers",
		"observation_count", "media_count", "photo_count",
		"last_observed_at", "building_created_at",
	})

	for _, b := range buildings {
		observations, err := h.observations.ListByBuilding(ctx, b.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}

		texts := make([]string, len(observations))
		ids := make([]int64, len(observations))
		for i, o := range observations {
			texts[i] = o.NoteText
			ids[i] = o.ID
		}
		score := scoring.Score(texts)

		assets, err := h.media.ListByObservations(ctx, ids)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		photoCount := 0
		for _, a := range assets {
			if a.MediaType == survey.MediaTypePhoto {
				photoCount++
			}
		}

		var lastObservedAt time.Time
		if len(observations) > 0 {
			lastObservedAt = observations[0].ObservedAt
		}

		var parkName, parkLocation string
		if p := parksByID[b.IndustrialParkID]; p != nil {
			parkName = p.Name
			parkLocation = p.Location
		}

		_ = w.Write([]string{
			strconv.FormatInt(b.IndustrialParkID, 10),
			parkName,
			parkLocation,
			strconv.FormatInt(b.ID, 10),
			b.Name,
			b.Address,
			strconv.Itoa(score.Score),
			score.Confidence,
			strings.Join(score.Drivers, "; "),
			strconv.Itoa(len(observations)),
			strconv.Itoa(len(assets)),
			strconv.Itoa(photoCount),
			dtISO(lastObservedAt),
			dtISO(b.CreatedAt),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	filename := "powertown_export.csv"
	if parkID != nil {
		filename = fmt.Sprintf("powertown_export_park_%d.csv", *parkID)
	}
	serveCSV(c, filename, buf.Bytes())
}

// ExportObservations handles GET /api/v1/export/observations.csv
// [?park_id=&building_id=]. One flat row per observation.
func (h *Handler) ExportObservations(c *gin.Context) {
	ctx := c.Request.Context()

	parkID, ok := optionalID(c, "park_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_PARK_ID", "park_id must be an integer")
		return
	}
	buildingID, ok := optionalID(c, "building_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_BUILDING_ID", "building_id must be an integer")
		return
	}

	parks, err := h.parks.List(ctx)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	parksByID := make(map[int64]*survey.IndustrialPark, len(parks))
	for _, p := range parks {
		parksByID[p.ID] = p
	}

	var buildings []*survey.Building
	switch {
	case buildingID != nil:
		b, err := h.buildings.GetByID(ctx, *buildingID)
		if err != nil {
			response.Error(c, http.StatusNotFound, "BUILDING_NOT_FOUND", "Building not found")
			return
		}
		buildings = []*survey.Building{b}
	case parkID != nil:
		buildings, err = h.buildings.ListByPark(ctx, *parkID)
	default:
		buildings, err = h.buildings.ListAll(ctx)
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"observation_id", "observed_at", "observer", "note_text",
		"building_id", "building_name", "building_address",
		"park_id", "park_name", "park_location",
	})

	for _, b := range buildings {
		observations, err := h.observations.ListByBuilding(ctx, b.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}

		var parkName, parkLocation string
		if p := parksByID[b.IndustrialParkID]; p != nil {
			parkName = p.Name
			parkLocation = p.Location
		}

		for _, o := range observations {
			_ = w.Write([]string{
				strconv.FormatInt(o.ID, 10),
				dtISO(o.ObservedAt),
				o.Observer,
				strings.TrimSpace(strings.ReplaceAll(o.NoteText, "\n", " ")),
				strconv.FormatInt(b.ID, 10),
				b.Name,
				b.Address,
				strconv.FormatInt(b.IndustrialParkID, 10),
				parkName,
				parkLocation,
			})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	serveCSV(c, "powertown_observations.csv", buf.Bytes())
}

func optionalID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func dtISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func serveCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
