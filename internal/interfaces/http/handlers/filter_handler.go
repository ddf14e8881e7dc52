package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/internal/application/filters"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// maxFilterUploadBytes caps CSV uploads at 8 MiB.
const maxFilterUploadBytes = 8 << 20

// FilterHandler serves the tax-number filter endpoints.
type FilterHandler struct {
	svc    filters.Service
	logger logging.Logger
}

func NewFilterHandler(svc filters.Service, logger logging.Logger) *FilterHandler {
	return &FilterHandler{svc: svc, logger: logger}
}

type createFilterRequest struct {
	Name       string   `json:"name" binding:"required"`
	TaxNumbers []string `json:"tax_numbers"`
}

// Create handles POST /filters.
func (h *FilterHandler) Create(c *gin.Context) {
	var req createFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed filter payload"))
		return
	}

	f, err := h.svc.Create(c.Request.Context(), req.Name, req.TaxNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// Upload handles POST /filters/upload with a multipart CSV file. The first
// column of every row is taken as a tax number.
func (h *FilterHandler) Upload(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		respondError(c, errors.InvalidParam("name form field required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidParam("file form field required"))
		return
	}
	if fileHeader.Size > maxFilterUploadBytes {
		respondError(c, errors.InvalidParam("file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "open uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	f, err := h.svc.CreateFromCSV(c.Request.Context(), name, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// List handles GET /filters.
func (h *FilterHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

// Get handles GET /filters/:id.
func (h *FilterHandler) Get(c *gin.Context) {
	id, err := parseFilterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /filters/:id.
func (h *FilterHandler) Delete(c *gin.Context) {
	id, err := parseFilterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilterID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.InvalidParam("id must be an integer")
	}
	return id, nil
}
