package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/internal/application/persons"
	"github.com/turtacn/PatentLens/internal/domain/person"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// PersonHandler serves the person listing, statistics and CRUD endpoints.
type PersonHandler struct {
	svc    persons.Service
	logger logging.Logger
}

func NewPersonHandler(svc persons.Service, logger logging.Logger) *PersonHandler {
	return &PersonHandler{svc: svc, logger: logger}
}

// List handles GET /persons.
func (h *PersonHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	kind, err := queryIntPtr(c, "kind")
	if err != nil {
		respondError(c, err)
		return
	}
	filterID, err := queryInt64Ptr(c, "filter_id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), &persons.ListInput{
		Page:     page,
		PageSize: pageSize,
		Kind:     kind,
		FilterID: filterID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Totals handles GET /persons/stats.
func (h *PersonHandler) Totals(c *gin.Context) {
	filterID, err := queryInt64Ptr(c, "filter_id")
	if err != nil {
		respondError(c, err)
		return
	}

	totals, err := h.svc.Totals(c.Request.Context(), filterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// MoscowStats handles GET /persons/stats/moscow.
func (h *PersonHandler) MoscowStats(c *gin.Context) {
	filterID, err := queryInt64Ptr(c, "filter_id")
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.svc.MoscowStats(c.Request.Context(), filterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CategoryStats handles GET /persons/stats/categories.
func (h *PersonHandler) CategoryStats(c *gin.Context) {
	stats, err := h.svc.CategoryStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type createPersonRequest struct {
	Kind         int        `json:"kind" binding:"required"`
	TaxNumber    string     `json:"tax_number" binding:"required"`
	FullName     string     `json:"full_name"`
	ShortName    string     `json:"short_name"`
	LegalAddress string     `json:"legal_address"`
	FactAddress  string     `json:"fact_address"`
	Region       string     `json:"region"`
	RegDate      *time.Time `json:"reg_date"`
	OGRN         string     `json:"ogrn"`
	INN          string     `json:"inn"`
	Category     string     `json:"category"`
	OKOPF        string     `json:"okopf"`
	OKVAD        string     `json:"okvad"`
	InCluster    bool       `json:"in_cluster"`
	SupportType  string     `json:"support_type"`
	Active       bool       `json:"active"`
}

// Create handles POST /persons.
func (h *PersonHandler) Create(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed person payload"))
		return
	}

	p := &person.Person{
		Kind:         person.Kind(req.Kind),
		TaxNumber:    req.TaxNumber,
		FullName:     req.FullName,
		ShortName:    req.ShortName,
		LegalAddress: req.LegalAddress,
		FactAddress:  req.FactAddress,
		Region:       req.Region,
		RegDate:      req.RegDate,
		OGRN:         req.OGRN,
		INN:          req.INN,
		Category:     req.Category,
		OKOPF:        req.OKOPF,
		OKVAD:        req.OKVAD,
		InCluster:    req.InCluster,
		SupportType:  req.SupportType,
		Active:       req.Active,
	}
	if err := h.svc.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tax_number": p.TaxNumber})
}

// Get handles GET /persons/:tax_number.
func (h *PersonHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("tax_number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updatePersonRequest struct {
	Kind         *int       `json:"kind"`
	FullName     *string    `json:"full_name"`
	ShortName    *string    `json:"short_name"`
	LegalAddress *string    `json:"legal_address"`
	FactAddress  *string    `json:"fact_address"`
	Region       *string    `json:"region"`
	RegDate      *time.Time `json:"reg_date"`
	OGRN         *string    `json:"ogrn"`
	INN          *string    `json:"inn"`
	Category     *string    `json:"category"`
	OKOPF        *string    `json:"okopf"`
	OKVAD        *string    `json:"okvad"`
	InCluster    *bool      `json:"in_cluster"`
	SupportType  *string    `json:"support_type"`
	Active       *bool      `json:"active"`
}

// Update handles PATCH /persons/:tax_number.
func (h *PersonHandler) Update(c *gin.Context) {
	var req updatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed person payload"))
		return
	}

	upd := &person.PartialUpdate{
		FullName:     req.FullName,
		ShortName:    req.ShortName,
		LegalAddress: req.LegalAddress,
		FactAddress:  req.FactAddress,
		Region:       req.Region,
		RegDate:      req.RegDate,
		OGRN:         req.OGRN,
		INN:          req.INN,
		Category:     req.Category,
		OKOPF:        req.OKOPF,
		OKVAD:        req.OKVAD,
		InCluster:    req.InCluster,
		SupportType:  req.SupportType,
		Active:       req.Active,
	}
	if req.Kind != nil {
		k := person.Kind(*req.Kind)
		upd.Kind = &k
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("tax_number"), upd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /persons/:tax_number.
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("tax_number")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
