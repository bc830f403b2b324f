package applications

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"localcooks-backend/internal/shared/server/middleware"
	"localcooks-backend/internal/shared/server/respond"
	"localcooks-backend/internal/uploads"
	"localcooks-backend/internal/wizard"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// MaxUploadBytes caps each document part; the whole request body is
	// capped at twice this plus scalar overhead.
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = wizard.DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.submit)
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
}

func (h *Handler) submit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.MaxUploadBytes+(1<<20))

	var (
		sub Submission
		err error
	)
	contentType := c.ContentType()
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		sub, err = h.parseMultipart(c)
	default:
		sub, err = parseJSON(c)
	}
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	sub.UserID = userID

	app, err := h.Svc.Submit(c.Request.Context(), sub)
	if err != nil {
		var fieldErrs wizard.FieldErrors
		var reqErr *wizard.RequirementError
		switch {
		case errors.As(err, &fieldErrs):
			respond.Error(c, http.StatusBadRequest, "validation_error", "application is invalid", fieldErrs)
		case errors.As(err, &reqErr):
			respond.Error(c, http.StatusBadRequest, "document_required", reqErr.Error(), gin.H{"field": reqErr.Field})
		case errors.Is(err, uploads.ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the size limit", nil)
		case errors.Is(err, uploads.ErrUnsupported):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", err.Error(), nil)
		case errors.Is(err, uploads.ErrUnreadableFile), errors.Is(err, uploads.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit application", nil)
		}
		return
	}

	c.Set("applicationId", app.ID)
	respond.JSON(c, http.StatusCreated, toResponse(app))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	app, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch application", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(app))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	apps, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		}
		return
	}

	resp := make([]ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, toResponse(app))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func parseJSON(c *gin.Context) (Submission, error) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return Submission{}, errors.New("invalid request body")
	}
	return Submission{
		FullName:                 req.FullName,
		Email:                    req.Email,
		Phone:                    req.Phone,
		KitchenPreference:        req.KitchenPreference,
		FoodSafetyLicense:        req.FoodSafetyLicense,
		FoodEstablishmentCert:    req.FoodEstablishmentCert,
		FoodSafetyLicenseURL:     req.FoodSafetyLicenseURL,
		FoodEstablishmentCertURL: req.FoodEstablishmentCertURL,
		Feedback:                 req.Feedback,
	}, nil
}

func (h *Handler) parseMultipart(c *gin.Context) (Submission, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return Submission{}, errors.New("invalid multipart body")
	}

	value := func(name string) string {
		if vs := form.Value[name]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	sub := Submission{
		FullName:                 value("fullName"),
		Email:                    value("email"),
		Phone:                    value("phone"),
		KitchenPreference:        value("kitchenPreference"),
		FoodSafetyLicense:        value("foodSafetyLicense"),
		FoodEstablishmentCert:    value("foodEstablishmentCert"),
		FoodSafetyLicenseURL:     value("foodSafetyLicenseUrl"),
		FoodEstablishmentCertURL: value("foodEstablishmentCertUrl"),
		Feedback:                 value("feedback"),
	}

	for _, field := range []string{wizard.FieldFoodSafetyLicense, wizard.FieldFoodEstablishmentCert} {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		if fh.Size > h.MaxUploadBytes {
			return Submission{}, errors.New(field + " file exceeds the size limit")
		}
		sub.Files = append(sub.Files, FilePart{
			Field:    field,
			FileName: fh.Filename,
			Open:     openHeader(fh),
		})
	}
	return sub, nil
}

func openHeader(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}
