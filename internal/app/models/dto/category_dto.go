package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/app/models"
)

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Image       *string `json:"image" validate:"omitempty,url"`
	ParentID    *string `json:"parentId" validate:"omitempty,uuid"`
}

// CategoryResponse represents a category with its direct neighbours in the tree
type CategoryResponse struct {
	ID            uuid.UUID                `json:"id"`
	Name          string                   `json:"name"`
	Description   *string                  `json:"description,omitempty"`
	Image         *string                  `json:"image,omitempty"`
	ParentID      *uuid.UUID               `json:"parentId,omitempty"`
	Parent        *models.CategorySummary  `json:"parent,omitempty"`
	Children      []models.CategorySummary `json:"children"`
	ActivityCount int                      `json:"activityCount"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// CategoryDetailResponse is a category together with its activities
type CategoryDetailResponse struct {
	CategoryResponse
	Activities []ActivitySummaryResponse `json:"activities"`
}

// FromCategory converts a models.Category to a CategoryResponse
func FromCategory(c *models.Category) CategoryResponse {
	if c == nil {
		return CategoryResponse{}
	}

	children := c.Children
	if children == nil {
		children = []models.CategorySummary{}
	}

	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Image:         c.Image,
		ParentID:      c.ParentID,
		Parent:        c.Parent,
		Children:      children,
		ActivityCount: c.ActivityCount,
		CreatedAt:     c.CreatedAt,
	}
}

// FromCategories converts a slice of categories
func FromCategories(categories []*models.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, FromCategory(c))
	}
	return items
}
