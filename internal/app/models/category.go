package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups activities. Categories form a tree through ParentID.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Image       *string    `json:"image,omitempty" db:"image"`
	ParentID    *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Parent        *CategorySummary  `json:"parent,omitempty"`
	Children      []CategorySummary `json:"children,omitempty"`
	ActivityCount int               `json:"activityCount"`
	Activities    []*Activity       `json:"activities,omitempty"`
}

// CategorySummary is the denormalised view of a category embedded in other entities
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
