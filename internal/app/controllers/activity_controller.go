package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/services"
	"github.com/yigit/activityhub/internal/middleware"
)

// ActivityController handles activity listing, detail and creation
type ActivityController struct {
	activityService services.ActivityService
}

// NewActivityController creates a new ActivityController
func NewActivityController(activityService services.ActivityService) *ActivityController {
	return &ActivityController{
		activityService: activityService,
	}
}

// ListActivities lists activities
// @Summary List activities
// @Description Returns one page of activities matching the filters
// @Tags activities
// @Produce json
// @Param search query string false "Text searched in title, description and location"
// @Param category query string false "Category ID"
// @Param status query string false "Activity status" Enums(upcoming, ongoing, completed, cancelled)
// @Param creatorId query string false "Creator user ID"
// @Param participantId query string false "Participant user ID"
// @Param date query string false "Relative start date window" Enums(today, tomorrow, week, month)
// @Param orderBy query string false "Sort field" Enums(startDate, createdAt, title)
// @Param orderDirection query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number" minimum(1) default(1)
// @Param limit query int false "Page size (at most 50)" minimum(1) default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ActivityListResponse} "Activities retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities [get]
func (c *ActivityController) ListActivities(ctx *gin.Context) {
	var query dto.ActivityListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, bindError("query", err))
		return
	}

	result, err := c.activityService.ListActivities(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// GetActivity returns a single activity
// @Summary Get activity by ID
// @Description Returns an activity with its creator, category and participants
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityDetailResponse} "Activity retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity ID"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id} [get]
func (c *ActivityController) GetActivity(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	activity, err := c.activityService.GetActivity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity, ""))
}

// CreateActivity creates an activity owned by the current user
// @Summary Create activity
// @Description Creates an upcoming activity with no participants
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateActivityRequest true "Activity information"
// @Success 201 {object} dto.APIResponse{data=dto.ActivityDetailResponse} "Activity created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities [post]
func (c *ActivityController) CreateActivity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, bindError("body", err))
		return
	}

	activity, err := c.activityService.CreateActivity(ctx.Request.Context(), &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(activity, "Activity created successfully"))
}
