package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursegen/internal/app/models/dto"
	"github.com/yigit/coursegen/internal/middleware"
)

// ScheduleGenerator is the service behind the schedule endpoints
type ScheduleGenerator interface {
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Categories() dto.CategoriesResponse
	Health() dto.HealthResponse
}

// ScheduleController handles schedule generation requests
type ScheduleController struct {
	scheduleService ScheduleGenerator
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService ScheduleGenerator) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

// GenerateSchedules handles schedule generation
// @Summary Generate conflict-free schedules
// @Description Picks one section per requested course so that no two meetings overlap and no restriction window is used. Returns at most 10 schedules; send the schedules already shown with loadMore=true to get different ones.
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body dto.GenerateScheduleRequest true "Courses, restrictions and previously delivered schedules"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateScheduleResponse} "Schedules generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request, too many courses or malformed restriction"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "No section within the waitlist limit"
// @Failure 422 {object} dto.ErrorResponse "Course has no sections or requested section does not exist"
// @Failure 429 {object} dto.ErrorResponse "Rate limited"
// @Failure 503 {object} dto.ErrorResponse "Catalog not loaded"
// @Failure 504 {object} dto.ErrorResponse "No schedule found before the time limit"
// @Router /schedules/generate [post]
func (c *ScheduleController) GenerateSchedules(ctx *gin.Context) {
	var req dto.GenerateScheduleRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	resp, err := c.scheduleService.Generate(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCategories lists requirement categories
// @Summary List requirement categories
// @Description Category codes that may be sent instead of a course code; a random course of the category is picked
// @Tags schedules
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CategoriesResponse} "Categories"
// @Router /schedules/categories [get]
func (c *ScheduleController) GetCategories(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.scheduleService.Categories()))
}

// Health reports whether the catalog is loaded
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Serving"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Catalog not loaded yet"
// @Router /health [get]
func (c *ScheduleController) Health(ctx *gin.Context) {
	health := c.scheduleService.Health()
	status := http.StatusOK
	if !health.CatalogLoaded {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, dto.NewSuccessResponse(health))
}
