package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/app/models"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image *string   `json:"image,omitempty"`
}

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	Bio       *string  `json:"bio" validate:"omitempty,max=500"`
	Location  *string  `json:"location" validate:"omitempty,max=200"`
	Interests []string `json:"interests" validate:"max=20,dive,required,max=50"`
}

// UserParticipationResponse is one of the user's participations
type UserParticipationResponse struct {
	ID       uuid.UUID                  `json:"id"`
	Status   models.ParticipationStatus `json:"status"`
	JoinedAt time.Time                  `json:"joinedAt"`
	Activity ActivitySummaryResponse    `json:"activity"`
}

// ProfileResponse is the authenticated user's profile
type ProfileResponse struct {
	ID                uuid.UUID                   `json:"id"`
	Name              string                      `json:"name"`
	Email             string                      `json:"email"`
	Image             *string                     `json:"image,omitempty"`
	Bio               *string                     `json:"bio"`
	Location          *string                     `json:"location"`
	Interests         []string                    `json:"interests"`
	IsNewUser         bool                        `json:"isNewUser"`
	CreatedActivities []ActivitySummaryResponse   `json:"createdActivities"`
	Participations    []UserParticipationResponse `json:"participations"`
	CreatedAt         time.Time                   `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

// NewProfileResponse assembles the profile view
func NewProfileResponse(u *models.User, created []*models.Activity, participations []*models.Participation) *ProfileResponse {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}

	parts := make([]UserParticipationResponse, 0, len(participations))
	for _, p := range participations {
		parts = append(parts, UserParticipationResponse{
			ID:       p.ID,
			Status:   p.Status,
			JoinedAt: p.JoinedAt,
			Activity: FromActivity(p.Activity),
		})
	}

	return &ProfileResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Image:             u.Image,
		Bio:               u.Bio,
		Location:          u.Location,
		Interests:         interests,
		IsNewUser:         u.IsNewUser(),
		CreatedActivities: FromActivities(created),
		Participations:    parts,
		CreatedAt:         u.CreatedAt,
	}
}
