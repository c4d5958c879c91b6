package importer

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"powertown/internal/pkg/response"
)

// Imports larger than this are rejected outright.
const maxUploadSize = 200 * 1024 * 1024

// Handler handles import HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RunImport handles POST /api/v1/imports (multipart field "file").
// A .zip upload is treated as a bundle (manifest + media); anything else is
// CSV-only mode, where every referenced media file reports as missing.
func (h *Handler) RunImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "Missing file upload")
		return
	}
	if fileHeader.Size == 0 {
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
		return
	}
	if fileHeader.Size > maxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_FILE", "Failed to read upload")
		return
	}
	defer file.Close()

	ctx := c.Request.Context()

	var report *Report
	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".zip") {
		archive, err := io.ReadAll(file)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_FILE", "Failed to read upload")
			return
		}
		report, err = h.service.RunBundle(ctx, archive)
		if err != nil {
			h.fatal(c, err)
			return
		}
	} else {
		// Buffer the manifest so a mid-stream network failure cannot abort a
		// half-committed run.
		data, err := io.ReadAll(file)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_FILE", "Failed to read upload")
			return
		}
		report, err = h.service.Run(ctx, bytes.NewReader(data), NoSource{})
		if err != nil {
			h.fatal(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, report)
}

// fatal maps fatal run errors onto the IMPORT_FAILED envelope. Nothing was
// persisted when these fire.
func (h *Handler) fatal(c *gin.Context, err error) {
	var headerErr *HeaderError
	switch {
	case errors.As(err, &headerErr),
		errors.Is(err, ErrBadArchive),
		errors.Is(err, ErrNoManifest),
		errors.Is(err, ErrMultipleManifests):
		response.Error(c, http.StatusUnprocessableEntity, "IMPORT_FAILED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "IMPORT_FAILED", err.Error())
	}
}
