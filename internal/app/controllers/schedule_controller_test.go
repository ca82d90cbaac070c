package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/app/models/dto"
	"github.com/yigit/coursegen/internal/app/services"
	"github.com/yigit/coursegen/internal/catalog"
)

type fixedSource struct {
	snap *catalog.Snapshot
}

func (f fixedSource) Current() *catalog.Snapshot { return f.snap }

func newRouter(t *testing.T, snap *catalog.Snapshot) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seed := uint64(3)
	svc := services.NewScheduleService(fixedSource{snap: snap}, nil, services.ScheduleServiceOptions{Seed: &seed}, zerolog.Nop())
	controller := NewScheduleController(svc)

	router := gin.New()
	router.GET("/api/v1/health", controller.Health)
	router.GET("/api/v1/schedules/categories", controller.GetCategories)
	router.POST("/api/v1/schedules/generate", controller.GenerateSchedules)
	return router
}

func fixtureSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	meeting := func(id int64, days, start, end string) []models.Meeting {
		return []models.Meeting{catalog.ParseMeeting(zerolog.Nop(), id, days, start, end, "", "", "")}
	}
	return catalog.NewSnapshot("202608",
		[]models.Course{
			{ID: 1, Code: "CMSC131", Title: "Object-Oriented Programming I", Credits: 4},
			{ID: 2, Code: "MATH140", Title: "Calculus I", Credits: 4},
		},
		[]models.Section{
			{ID: 11, CourseID: 1, Number: "0101", AvailableSeats: 1, Meetings: meeting(11, "MW", "9:00am", "9:50am")},
			{ID: 12, CourseID: 1, Number: "0201", AvailableSeats: 1, Meetings: meeting(12, "TuTh", "9:00am", "9:50am")},
			{ID: 21, CourseID: 2, Number: "0101", AvailableSeats: 1, Meetings: meeting(21, "MW", "10:00am", "10:50am")},
			{ID: 22, CourseID: 2, Number: "0201", AvailableSeats: 1, Meetings: meeting(22, "TuTh", "9:00am", "9:50am")},
		},
	)
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedules/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateSchedules_Success(t *testing.T) {
	router := newRouter(t, fixtureSnapshot(t))

	w := post(router, `{"courses":["CMSC131","MATH140"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success bool                         `json:"success"`
		Data    dto.GenerateScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Data.Exhausted)
	assert.Len(t, body.Data.Schedules, 3)
	assert.Equal(t, 8, body.Data.Schedules[0].TotalCredits)
}

func TestGenerateSchedules_Errors(t *testing.T) {
	router := newRouter(t, fixtureSnapshot(t))

	tests := []struct {
		name   string
		body   string
		status int
		code   dto.ErrorCode
	}{
		{"too many courses", `{"courses":["A","B","C","D","E","F","G","H","I"]}`, http.StatusBadRequest, dto.ErrorCodeTooManyCourses},
		{"unknown course", `{"courses":["CMSC999"]}`, http.StatusNotFound, dto.ErrorCodeCourseNotFound},
		{"unknown section", `{"courses":["CMSC131(0301)"]}`, http.StatusUnprocessableEntity, dto.ErrorCodeInvalidExplicitSection},
		{"bad restriction", `{"courses":["CMSC131"],"restrictions":[{"days":"Sa","start":"9:00am","end":"10:00am"}]}`, http.StatusBadRequest, dto.ErrorCodeInvalidRestriction},
		{"validation", `{"courses":[]}`, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := post(router, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestGenerateSchedules_CatalogNotLoaded(t *testing.T) {
	router := newRouter(t, nil)

	w := post(router, `{"courses":["CMSC131"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetCategoriesAndHealth(t *testing.T) {
	router := newRouter(t, fixtureSnapshot(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var cats struct {
		Data dto.CategoriesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	assert.Contains(t, cats.Data.Categories, "DSNL")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Data dto.HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, 2, health.Data.Courses)
	assert.Equal(t, "202608", health.Data.Term)
}
