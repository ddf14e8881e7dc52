package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentLens/internal/application/persons"
	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/person"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

func newPersonRouter(svc persons.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPersonHandler(svc, logging.NewNopLogger())

	r := gin.New()
	r.GET("/persons", h.List)
	r.GET("/persons/stats", h.Totals)
	r.GET("/persons/stats/moscow", h.MoscowStats)
	r.GET("/persons/stats/categories", h.CategoryStats)
	r.POST("/persons", h.Create)
	r.GET("/persons/:tax_number", h.Get)
	r.PATCH("/persons/:tax_number", h.Update)
	r.DELETE("/persons/:tax_number", h.Delete)
	return r
}

func TestPersonTotals(t *testing.T) {
	svc := new(mockPersonService)
	svc.On("Totals", mock.Anything, (*int64)(nil)).Return(&persons.TotalsResult{
		TotalPersons: 42,
		ByKind:       map[string]int64{"legal_entity": 30, "individual": 12},
	}, nil)

	r := newPersonRouter(svc)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/persons/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["total_persons"])
}

func TestPersonMoscowStatsWithFilter(t *testing.T) {
	svc := new(mockPersonService)
	filterID := int64(3)
	svc.On("MoscowStats", mock.Anything, &filterID).Return(&persons.MoscowResult{
		TotalsResult:   persons.TotalsResult{TotalPersons: 3},
		ClusterMembers: 2,
		ClusterPercent: 66.67,
	}, nil)

	r := newPersonRouter(svc)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/persons/stats/moscow?filter_id=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 66.67, body["cluster_percent"], 0.001)
	svc.AssertExpectations(t)
}

func TestPersonCategoryStats(t *testing.T) {
	svc := new(mockPersonService)
	svc.On("CategoryStats", mock.Anything).Return(&persons.CategoryStats{
		OkopfStats: []analytics.Entry{{Name: "ООО", Count: 10}, {Name: "Others", Count: 4}},
	}, nil)

	r := newPersonRouter(svc)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/persons/stats/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Others")
}

func TestPersonGetRouteNotShadowedByStats(t *testing.T) {
	svc := new(mockPersonService)
	svc.On("Get", mock.Anything, "7701234567").Return(&person.Detail{
		Person: person.Person{TaxNumber: "7701234567", FullName: "ООО Ротор"},
	}, nil)

	r := newPersonRouter(svc)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/persons/7701234567", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "7701234567")
}

func TestPersonDeleteNotFound(t *testing.T) {
	svc := new(mockPersonService)
	svc.On("Delete", mock.Anything, "0000000000").
		Return(errors.New(errors.ErrCodePersonNotFound, "person not found"))

	r := newPersonRouter(svc)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("DELETE", "/persons/0000000000", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
