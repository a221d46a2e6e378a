package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/services"
	"github.com/yigit/activityhub/internal/middleware"
)

// CommentController handles activity comments
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// ListComments returns the comments of an activity
// @Summary List activity comments
// @Description Top-level comments newest first, each with its replies oldest first
// @Tags comments
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse} "Comments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity ID"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	activityID, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	comments, err := c.commentService.ListComments(ctx.Request.Context(), activityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments, ""))
}

// CreateComment comments on an activity
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid comment data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
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

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, bindError("body", err))
		return
	}

	comment, err := c.commentService.CreateComment(ctx.Request.Context(), activityID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment, "Comment created successfully"))
}

// UpdateComment edits a comment of the current user
// @Summary Update comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param commentId path string true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse} "Comment updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid comment data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id}/comments/{commentId} [patch]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	userID, activityID, commentID, ok := c.commentTarget(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, bindError("body", err))
		return
	}

	comment, err := c.commentService.UpdateComment(ctx.Request.Context(), activityID, commentID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comment, "Comment updated successfully"))
}

// DeleteComment deletes a comment of the current user and its replies
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} dto.APIResponse "Comment deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities/{id}/comments/{commentId} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	userID, activityID, commentID, ok := c.commentTarget(ctx)
	if !ok {
		return
	}

	if err := c.commentService.DeleteComment(ctx.Request.Context(), activityID, commentID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment deleted successfully"))
}

func (c *CommentController) commentTarget(ctx *gin.Context) (userID, activityID, commentID uuid.UUID, ok bool) {
	var err error
	if userID, err = currentUserID(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if activityID, err = pathID(ctx, "id"); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if commentID, err = pathID(ctx, "commentId"); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	return userID, activityID, commentID, true
}
