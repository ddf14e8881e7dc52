package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/internal/application/patents"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// PatentHandler serves the patent listing, statistics and CRUD endpoints.
type PatentHandler struct {
	svc    patents.Service
	logger logging.Logger
}

func NewPatentHandler(svc patents.Service, logger logging.Logger) *PatentHandler {
	return &PatentHandler{svc: svc, logger: logger}
}

// List handles GET /patents.
func (h *PatentHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	kind, err := queryIntPtr(c, "kind")
	if err != nil {
		respondError(c, err)
		return
	}
	actual, err := queryBoolPtr(c, "actual")
	if err != nil {
		respondError(c, err)
		return
	}
	filterID, err := queryInt64Ptr(c, "filter_id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), &patents.ListInput{
		Page:     page,
		PageSize: pageSize,
		Kind:     kind,
		Actual:   actual,
		FilterID: filterID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats handles GET /patents/stats.
func (h *PatentHandler) Stats(c *gin.Context) {
	filterID, err := queryInt64Ptr(c, "filter_id")
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), filterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type createPatentRequest struct {
	Kind           int        `json:"kind" binding:"required"`
	RegNumber      int64      `json:"reg_number" binding:"required"`
	RegDate        *time.Time `json:"reg_date"`
	ApplDate       *time.Time `json:"appl_date"`
	ApplNumber     string     `json:"appl_number"`
	Name           string     `json:"name"`
	AuthorRaw      string     `json:"author_raw"`
	OwnerRaw       string     `json:"owner_raw"`
	CountryCode    string     `json:"country_code"`
	Address        string     `json:"address"`
	Subcategory    string     `json:"subcategory"`
	Actual         bool       `json:"actual"`
	StartDate      *time.Time `json:"start_date"`
	PublicationURL string     `json:"publication_url"`
}

// Create handles POST /patents.
func (h *PatentHandler) Create(c *gin.Context) {
	var req createPatentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed patent payload"))
		return
	}

	p := &patent.Patent{
		Kind:           patent.Kind(req.Kind),
		RegNumber:      req.RegNumber,
		RegDate:        req.RegDate,
		ApplDate:       req.ApplDate,
		ApplNumber:     req.ApplNumber,
		Name:           req.Name,
		AuthorRaw:      req.AuthorRaw,
		OwnerRaw:       req.OwnerRaw,
		CountryCode:    req.CountryCode,
		Address:        req.Address,
		Subcategory:    req.Subcategory,
		Actual:         req.Actual,
		StartDate:      req.StartDate,
		PublicationURL: req.PublicationURL,
	}
	if err := h.svc.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": patent.Key{Kind: p.Kind, RegNumber: p.RegNumber}.String()})
}

// Get handles GET /patents/:kind/:reg_number.
func (h *PatentHandler) Get(c *gin.Context) {
	key, err := parsePatentKey(c)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updatePatentRequest struct {
	Name           *string `json:"name"`
	AuthorRaw      *string `json:"author_raw"`
	OwnerRaw       *string `json:"owner_raw"`
	CountryCode    *string `json:"country_code"`
	Address        *string `json:"address"`
	Subcategory    *string `json:"subcategory"`
	Actual         *bool   `json:"actual"`
	PublicationURL *string `json:"publication_url"`
}

// Update handles PATCH /patents/:kind/:reg_number.
func (h *PatentHandler) Update(c *gin.Context) {
	key, err := parsePatentKey(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req updatePatentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed patent payload"))
		return
	}

	upd := &patent.PartialUpdate{
		Name:           req.Name,
		AuthorRaw:      req.AuthorRaw,
		OwnerRaw:       req.OwnerRaw,
		CountryCode:    req.CountryCode,
		Address:        req.Address,
		Subcategory:    req.Subcategory,
		Actual:         req.Actual,
		PublicationURL: req.PublicationURL,
	}
	updated, err := h.svc.Update(c.Request.Context(), key, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /patents/:kind/:reg_number.
func (h *PatentHandler) Delete(c *gin.Context) {
	key, err := parsePatentKey(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parsePatentKey(c *gin.Context) (patent.Key, error) {
	kind, err := strconv.Atoi(c.Param("kind"))
	if err != nil {
		return patent.Key{}, errors.InvalidParam("kind must be an integer")
	}
	regNumber, err := strconv.ParseInt(c.Param("reg_number"), 10, 64)
	if err != nil {
		return patent.Key{}, errors.InvalidParam("reg_number must be an integer")
	}
	return patent.Key{Kind: patent.Kind(kind), RegNumber: regNumber}, nil
}
