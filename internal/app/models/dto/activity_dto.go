package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/app/models"
)

// ActivityListQuery holds the raw listing parameters. Absent parameters stay nil.
type ActivityListQuery struct {
	Search         *string `form:"search" json:"search" validate:"omitempty,max=200"`
	Category       *string `form:"category" json:"category" validate:"omitempty,uuid"`
	Status         *string `form:"status" json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	CreatorID      *string `form:"creatorId" json:"creatorId" validate:"omitempty,uuid"`
	ParticipantID  *string `form:"participantId" json:"participantId" validate:"omitempty,uuid"`
	Date           *string `form:"date" json:"date" validate:"omitempty,oneof=today tomorrow week month"`
	OrderBy        *string `form:"orderBy" json:"orderBy" validate:"omitempty,oneof=startDate createdAt title"`
	OrderDirection *string `form:"orderDirection" json:"orderDirection" validate:"omitempty,oneof=asc desc"`
	Page           *int    `form:"page" json:"page" validate:"omitempty,min=1"`
	Limit          *int    `form:"limit" json:"limit" validate:"omitempty,min=1"`
}

// CoordinatesRequest is an optional geocoded position
type CoordinatesRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// CreateActivityRequest represents the request to create an activity
type CreateActivityRequest struct {
	Title           string              `json:"title" validate:"required,min=3,max=100"`
	Description     string              `json:"description" validate:"required,min=10,max=5000"`
	StartDate       time.Time           `json:"startDate" validate:"required"`
	EndDate         time.Time           `json:"endDate" validate:"required,gtfield=StartDate"`
	Location        string              `json:"location" validate:"required,min=3,max=200"`
	Coordinates     *CoordinatesRequest `json:"coordinates" validate:"omitempty"`
	MaxParticipants int                 `json:"maxParticipants" validate:"required,min=1,max=1000"`
	CategoryID      string              `json:"categoryId" validate:"required,uuid"`
	IsPrivate       bool                `json:"isPrivate"`
	IsPaid          bool                `json:"isPaid"`
	Price           *float64            `json:"price" validate:"omitempty,gte=0,max=99999999.99"`
	Images          []string            `json:"images" validate:"max=5,dive,required"`
}

// ActivitySummaryResponse is one item of an activity listing
type ActivitySummaryResponse struct {
	ID                  uuid.UUID               `json:"id"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	StartDate           time.Time               `json:"startDate"`
	EndDate             time.Time               `json:"endDate"`
	Location            string                  `json:"location"`
	Coordinates         *models.Coordinates     `json:"coordinates,omitempty"`
	MaxParticipants     int                     `json:"maxParticipants"`
	CurrentParticipants int                     `json:"currentParticipants"`
	ParticipantCount    int                     `json:"participantCount"`
	IsPrivate           bool                    `json:"isPrivate"`
	IsPaid              bool                    `json:"isPaid"`
	Price               *float64                `json:"price,omitempty"`
	Images              []string                `json:"images"`
	Status              models.ActivityStatus   `json:"status"`
	CreatedAt           time.Time               `json:"createdAt"`
	Creator             *models.UserSummary     `json:"creator,omitempty"`
	Category            *models.CategorySummary `json:"category,omitempty"`
}

// ParticipantResponse is a participant of an activity
type ParticipantResponse struct {
	ID       uuid.UUID                  `json:"id"`
	Status   models.ParticipationStatus `json:"status"`
	JoinedAt time.Time                  `json:"joinedAt"`
	User     *models.UserSummary        `json:"user,omitempty"`
}

// ActivityDetailResponse is a single activity with its participants
type ActivityDetailResponse struct {
	ActivitySummaryResponse
	Participants []ParticipantResponse `json:"participants"`
}

// ActivityListResponse represents a page of activities
type ActivityListResponse struct {
	Items      []ActivitySummaryResponse `json:"items"`
	Pagination PaginationInfo            `json:"pagination"`
}

// FromActivity converts a models.Activity to its summary. The participant count
// is the stored counter.
func FromActivity(a *models.Activity) ActivitySummaryResponse {
	if a == nil {
		return ActivitySummaryResponse{}
	}

	images := a.Images
	if images == nil {
		images = []string{}
	}

	return ActivitySummaryResponse{
		ID:                  a.ID,
		Title:               a.Title,
		Description:         a.Description,
		StartDate:           a.StartDate,
		EndDate:             a.EndDate,
		Location:            a.Location,
		Coordinates:         a.Coordinates,
		MaxParticipants:     a.MaxParticipants,
		CurrentParticipants: a.CurrentParticipants,
		ParticipantCount:    a.CurrentParticipants,
		IsPrivate:           a.IsPrivate,
		IsPaid:              a.IsPaid,
		Price:               a.Price,
		Images:              images,
		Status:              a.Status,
		CreatedAt:           a.CreatedAt,
		Creator:             a.Creator,
		Category:            a.Category,
	}
}

// FromActivities converts a slice of activities
func FromActivities(activities []*models.Activity) []ActivitySummaryResponse {
	items := make([]ActivitySummaryResponse, 0, len(activities))
	for _, a := range activities {
		items = append(items, FromActivity(a))
	}
	return items
}

// FromActivityDetail converts an activity with loaded participants
func FromActivityDetail(a *models.Activity) *ActivityDetailResponse {
	if a == nil {
		return nil
	}

	participants := make([]ParticipantResponse, 0, len(a.Participants))
	for _, p := range a.Participants {
		participants = append(participants, ParticipantResponse{
			ID:       p.ID,
			Status:   p.Status,
			JoinedAt: p.JoinedAt,
			User:     p.User,
		})
	}

	return &ActivityDetailResponse{
		ActivitySummaryResponse: FromActivity(a),
		Participants:            participants,
	}
}
