package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a message on an activity, optionally replying to another comment
type Comment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Content    string     `json:"content" db:"content"`
	ActivityID uuid.UUID  `json:"activityId" db:"activity_id"`
	UserID     uuid.UUID  `json:"userId" db:"user_id"`
	ParentID   *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author  *UserSummary `json:"author,omitempty"`
	Replies []*Comment   `json:"replies,omitempty"`
}
