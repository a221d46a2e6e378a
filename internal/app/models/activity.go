package models

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is an optional geocoded position of an activity location
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Activity represents a user-organised activity
type Activity struct {
	ID                  uuid.UUID      `json:"id" db:"id"`
	Title               string         `json:"title" db:"title"`
	Description         string         `json:"description" db:"description"`
	StartDate           time.Time      `json:"startDate" db:"start_date"`
	EndDate             time.Time      `json:"endDate" db:"end_date"`
	Location            string         `json:"location" db:"location"`
	Coordinates         *Coordinates   `json:"coordinates,omitempty"`
	MaxParticipants     int            `json:"maxParticipants" db:"max_participants"`
	CurrentParticipants int            `json:"currentParticipants" db:"current_participants"`
	IsPrivate           bool           `json:"isPrivate" db:"is_private"`
	IsPaid              bool           `json:"isPaid" db:"is_paid"`
	Price               *float64       `json:"price,omitempty" db:"price"`
	Images              []string       `json:"images" db:"images"`
	Status              ActivityStatus `json:"status" db:"status"`
	CreatorID           uuid.UUID      `json:"creatorId" db:"creator_id"`
	CategoryID          uuid.UUID      `json:"categoryId" db:"category_id"`
	CreatedAt           time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time      `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator      *UserSummary     `json:"creator,omitempty"`
	Category     *CategorySummary `json:"category,omitempty"`
	Participants []*Participation `json:"participants,omitempty"`
}

// ActivityCapacity is the locked view of an activity used by the join/leave transactions
type ActivityCapacity struct {
	ID                  uuid.UUID
	MaxParticipants     int
	CurrentParticipants int
	Status              ActivityStatus
}

// HasFreeSlot reports whether one more participant fits
func (c ActivityCapacity) HasFreeSlot() bool {
	return c.CurrentParticipants < c.MaxParticipants
}
