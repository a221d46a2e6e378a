package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation links a user to an activity
type Participation struct {
	ID         uuid.UUID           `json:"id" db:"id"`
	UserID     uuid.UUID           `json:"userId" db:"user_id"`
	ActivityID uuid.UUID           `json:"activityId" db:"activity_id"`
	Status     ParticipationStatus `json:"status" db:"status"`
	JoinedAt   time.Time           `json:"joinedAt" db:"joined_at"`

	// Related entities
	User     *UserSummary `json:"user,omitempty"`
	Activity *Activity    `json:"activity,omitempty"`
}
