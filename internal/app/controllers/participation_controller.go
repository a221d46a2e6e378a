package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/services"
	"github.com/yigit/activityhub/internal/middleware"
)

// ParticipationController handles joining and leaving activities
type ParticipationController struct {
	participationService services.ParticipationService
}

// NewParticipationController creates a new ParticipationController
func NewParticipationController(participationService services.ParticipationService) *ParticipationController {
	return &ParticipationController{
		participationService: participationService,
	}
}

// JoinActivity adds the current user to an activity
// @Summary Join activity
// @Description Joins the activity if the user is not already participating and a slot is free
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityDetailResponse} "Joined activity"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Failure 409 {object} dto.ErrorResponse "Already participating or activity full"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id}/join [post]
func (c *ParticipationController) JoinActivity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	activityID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	activity, err := c.participationService.JoinActivity(ctx.Request.Context(), activityID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity, "Joined activity"))
}

// LeaveActivity removes the current user from an activity
// @Summary Leave activity
// @Description Leaves the activity and frees the user's slot
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityDetailResponse} "Left activity"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Activity not found or not participating"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id}/join [delete]
func (c *ParticipationController) LeaveActivity(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	activityID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	activity, err := c.participationService.LeaveActivity(ctx.Request.Context(), activityID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity, "Left activity"))
}
