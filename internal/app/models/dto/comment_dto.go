package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/app/models"
)

// CreateCommentRequest represents the request to comment on an activity
type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,min=1,max=2000"`
	ParentID *string `json:"parentId" validate:"omitempty,uuid"`
}

// UpdateCommentRequest represents the request to edit a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CommentResponse is a comment with its replies
type CommentResponse struct {
	ID         uuid.UUID           `json:"id"`
	Content    string              `json:"content"`
	ActivityID uuid.UUID           `json:"activityId"`
	ParentID   *uuid.UUID          `json:"parentId,omitempty"`
	Author     *models.UserSummary `json:"author,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Replies    []CommentResponse   `json:"replies"`
}

// FromComment converts a comment tree node
func FromComment(c *models.Comment) CommentResponse {
	if c == nil {
		return CommentResponse{}
	}

	return CommentResponse{
		ID:         c.ID,
		Content:    c.Content,
		ActivityID: c.ActivityID,
		ParentID:   c.ParentID,
		Author:     c.Author,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Replies:    FromComments(c.Replies),
	}
}

// FromComments converts a list of comment tree nodes
func FromComments(comments []*models.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, FromComment(c))
	}
	return items
}
