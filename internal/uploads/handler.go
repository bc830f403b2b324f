package uploads

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"localcooks-backend/internal/shared/server/middleware"
	"localcooks-backend/internal/shared/server/respond"
	"localcooks-backend/internal/shared/telemetry"
)

// Handler wires the upload and download routes to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/files/*key", h.download)
}

type uploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+(256<<10))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	uploaded, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the size limit", nil)
		case errors.Is(err, ErrUnsupported):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", err.Error(), nil)
		case errors.Is(err, ErrUnreadableFile), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		}
		return
	}

	telemetry.Info("upload.stored", map[string]any{
		"user_id":    userID,
		"file_name":  uploaded.FileName,
		"mime_type":  uploaded.MimeType,
		"size_bytes": uploaded.SizeBytes,
		"request_id": c.GetString("requestId"),
	})

	respond.JSON(c, http.StatusCreated, uploadResponse{
		URL:      uploaded.URL,
		FileName: uploaded.FileName,
	})
}

func (h *Handler) download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	rc, err := h.Svc.OpenFile(c.Request.Context(), key)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}
	defer rc.Close()

	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Cache-Control", "private, max-age=300")
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Error("upload.download_failed", map[string]any{
			"key": key,
			"err": err.Error(),
		})
	}
}
