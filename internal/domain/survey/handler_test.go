package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"powertown/internal/storage"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:survey_handler_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&IndustrialPark{}, &Building{}, &Observation{}, &MediaAsset{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	store := storage.NewLocalStore(t.TempDir())
	h := NewHandler(NewService(NewRepositories(db), store))

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), h)
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v body=%s", err, rr.Body.String())
	}
	if !resp.Success {
		t.Fatalf("expected success=true, body=%s", rr.Body.String())
	}
	return resp.Data
}

func TestCaptureAndReviewFlow(t *testing.T) {
	r := setupTestRouter(t)

	// create park
	rr := doJSONRequest(r, http.MethodPost, "/api/v1/parks", map[string]any{
		"name": "Acme Park", "location": "Fall River, MA",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for create park, got %d body=%s", rr.Code, rr.Body.String())
	}
	park := decodeData(t, rr)
	parkID := int64(park["id"].(float64))

	// creating the same park again (case variant) returns the existing row
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/parks", map[string]any{"name": "  ACME PARK "})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for duplicate park, got %d body=%s", rr.Code, rr.Body.String())
	}
	if dup := decodeData(t, rr); int64(dup["id"].(float64)) != parkID {
		t.Fatalf("expected duplicate park to reuse id %d, got %v", parkID, dup["id"])
	}

	// create building
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/buildings", map[string]any{
		"industrial_park_id": parkID, "name": "Building 7", "address": "12 Mill St",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for create building, got %d body=%s", rr.Code, rr.Body.String())
	}
	building := decodeData(t, rr)
	buildingID := int64(building["id"].(float64))

	// add observations
	for _, note := range []string{"transformer and switchgear on site", "large paved lot"} {
		rr = doJSONRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/buildings/%d/observations", buildingID), map[string]any{
			"observer": "kim", "note_text": note,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201 for add observation, got %d body=%s", rr.Code, rr.Body.String())
		}
	}

	// dossier carries both observations and a nonzero score
	rr = doJSONRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/buildings/%d", buildingID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for dossier, got %d body=%s", rr.Code, rr.Body.String())
	}
	dossier := decodeData(t, rr)
	if n := len(dossier["observations"].([]any)); n != 2 {
		t.Fatalf("expected 2 observations in dossier, got %d", n)
	}
	score := dossier["score"].(map[string]any)
	if score["score"].(float64) <= 0 {
		t.Fatalf("expected positive readiness score, got %v", score["score"])
	}

	// park summary ranks the building
	rr = doJSONRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/parks/%d/summary", parkID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for park summary, got %d body=%s", rr.Code, rr.Body.String())
	}
	summary := decodeData(t, rr)
	if summary["building_count"].(float64) != 1 {
		t.Fatalf("expected building_count 1, got %v", summary["building_count"])
	}
	if summary["avg_score"].(float64) <= 0 {
		t.Fatalf("expected positive avg score, got %v", summary["avg_score"])
	}

	// list parks
	rr = doJSONRequest(r, http.MethodGet, "/api/v1/parks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for list parks, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMediaUpload(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/parks", map[string]any{"name": "P"})
	parkID := int64(decodeData(t, rr)["id"].(float64))
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/buildings", map[string]any{
		"industrial_park_id": parkID, "name": "B",
	})
	buildingID := int64(decodeData(t, rr)["id"].(float64))
	rr = doJSONRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/buildings/%d/observations", buildingID), map[string]any{
		"observer": "kim", "note_text": "hvac units",
	})
	obsID := int64(decodeData(t, rr)["id"].(float64))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("media_type", "photo"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	fw, err := mw.CreateFormFile("file", "site.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/observations/%d/media", obsID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for media upload, got %d body=%s", rec.Code, rec.Body.String())
	}
	asset := decodeData(t, rec)
	if asset["media_type"] != "photo" || asset["original_name"] != "site.jpg" {
		t.Fatalf("unexpected asset: %v", asset)
	}

	// dossier now lists the asset
	rr = doJSONRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/buildings/%d", buildingID), nil)
	dossier := decodeData(t, rr)
	if n := len(dossier["media_assets"].([]any)); n != 1 {
		t.Fatalf("expected 1 media asset in dossier, got %d", n)
	}
}

func TestValidationAndNotFound(t *testing.T) {
	r := setupTestRouter(t)

	// missing required name
	rr := doJSONRequest(r, http.MethodPost, "/api/v1/parks", map[string]any{"location": "x"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing name, got %d body=%s", rr.Code, rr.Body.String())
	}

	// building in unknown park
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/buildings", map[string]any{
		"industrial_park_id": 999, "name": "B",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown park, got %d body=%s", rr.Code, rr.Body.String())
	}

	// dossier for unknown building
	rr = doJSONRequest(r, http.MethodGet, "/api/v1/buildings/999", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown building, got %d body=%s", rr.Code, rr.Body.String())
	}

	// observation on unknown building
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/buildings/999/observations", map[string]any{
		"observer": "kim", "note_text": "x",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for observation on unknown building, got %d body=%s", rr.Code, rr.Body.String())
	}

	// summary for unknown park
	rr = doJSONRequest(r, http.MethodGet, "/api/v1/parks/999/summary", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown park summary, got %d body=%s", rr.Code, rr.Body.String())
	}

	// bad timestamp
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/parks", map[string]any{"name": "P"})
	parkID := int64(decodeData(t, rr)["id"].(float64))
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/buildings", map[string]any{
		"industrial_park_id": parkID, "name": "B",
	})
	buildingID := int64(decodeData(t, rr)["id"].(float64))
	rr = doJSONRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/buildings/%d/observations", buildingID), map[string]any{
		"observer": "kim", "note_text": "x", "observed_at": "yesterday",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad timestamp, got %d body=%s", rr.Code, rr.Body.String())
	}
}
