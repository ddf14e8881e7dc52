package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// ExportHandler serves the asynchronous CSV export endpoints.
type ExportHandler struct {
	svc    export.Service
	logger logging.Logger
}

func NewExportHandler(svc export.Service, logger logging.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

type createExportRequest struct {
	Kind     *int   `json:"kind"`
	Actual   *bool  `json:"actual"`
	FilterID *int64 `json:"filter_id"`
}

// Create handles POST /exports. The job runs in the worker; the response
// carries the id to poll.
func (h *ExportHandler) Create(c *gin.Context) {
	var req createExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed export payload"))
		return
	}

	st, err := h.svc.Enqueue(c.Request.Context(), &export.Request{
		Kind:     req.Kind,
		Actual:   req.Actual,
		FilterID: req.FilterID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, st)
}

// Status handles GET /exports/:id.
func (h *ExportHandler) Status(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
