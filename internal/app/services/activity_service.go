package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/helpers"
	"github.com/yigit/activityhub/internal/pkg/validation"
)

// ActivityService defines the interface for activity queries and creation
type ActivityService interface {
	ListActivities(ctx context.Context, query dto.ActivityListQuery) (*dto.ActivityListResponse, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*dto.ActivityDetailResponse, error)
	CreateActivity(ctx context.Context, req *dto.CreateActivityRequest, creatorID uuid.UUID) (*dto.ActivityDetailResponse, error)
}

// activityServiceImpl implements ActivityService
type activityServiceImpl struct {
	activities     ActivityStore
	participations ParticipationStore
	categories     CategoryStore
	validator      *validation.Validator
	location       *time.Location
	now            func() time.Time
	logger         zerolog.Logger
}

// NewActivityService creates a new ActivityService. Relative date filters are
// anchored at the start of the current day in location.
func NewActivityService(
	activities ActivityStore,
	participations ParticipationStore,
	categories CategoryStore,
	validator *validation.Validator,
	location *time.Location,
	logger zerolog.Logger,
) ActivityService {
	if location == nil {
		location = time.Local
	}
	return &activityServiceImpl{
		activities:     activities,
		participations: participations,
		categories:     categories,
		validator:      validator,
		location:       location,
		now:            time.Now,
		logger:         logger,
	}
}

// ListActivities returns one page of activities matching the query
func (s *activityServiceImpl) ListActivities(ctx context.Context, query dto.ActivityListQuery) (*dto.ActivityListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}

	page := helpers.DefaultPage
	if query.Page != nil {
		page = *query.Page
	}
	limit := helpers.DefaultPageSize
	if query.Limit != nil {
		limit = *query.Limit
	}
	limit = helpers.EffectivePageSize(limit)

	sort := repositories.ActivitySort{Field: repositories.SortByStartDate}
	if query.OrderBy != nil {
		sort.Field = *query.OrderBy
	}
	if query.OrderDirection != nil {
		sort.Desc = *query.OrderDirection == "desc"
	}

	offset, pageSize := helpers.CalculateOffsetLimit(page, limit)

	s.logger.Debug().
		Interface("filter", filter).
		Int("page", page).
		Int("limit", limit).
		Msg("Listing activities")

	items, total, err := s.activities.List(ctx, filter, sort, offset, pageSize)
	if err != nil {
		return nil, storageFailure(s.logger, "list activities", err)
	}

	return &dto.ActivityListResponse{
		Items:      dto.FromActivities(items),
		Pagination: helpers.NewPaginationInfo(total, page, limit, len(items)),
	}, nil
}

// buildFilter converts the validated query into store predicates
func (s *activityServiceImpl) buildFilter(query dto.ActivityListQuery) (repositories.ActivityFilter, error) {
	filter := repositories.ActivityFilter{Search: query.Search}

	var err error
	if filter.CategoryID, err = parseOptionalID("category", query.Category); err != nil {
		return filter, err
	}
	if filter.CreatorID, err = parseOptionalID("creatorId", query.CreatorID); err != nil {
		return filter, err
	}
	if filter.ParticipantID, err = parseOptionalID("participantId", query.ParticipantID); err != nil {
		return filter, err
	}

	if query.Status != nil {
		status := models.ActivityStatus(*query.Status)
		filter.Status = &status
	}

	if query.Date != nil {
		start, end, ok := helpers.DateWindow(*query.Date, s.now(), s.location)
		if !ok {
			return filter, apperrors.NewValidationError("Validation failed", []apperrors.FieldViolation{
				{Path: "date", Message: "date must be one of: today tomorrow week month"},
			})
		}
		filter.StartFrom, filter.StartBefore = &start, &end
	}

	return filter, nil
}

// GetActivity returns a single activity with its participants
func (s *activityServiceImpl) GetActivity(ctx context.Context, id uuid.UUID) (*dto.ActivityDetailResponse, error) {
	return loadActivityDetail(ctx, s.logger, s.activities, s.participations, id)
}

// CreateActivity validates the payload and inserts a new upcoming activity owned by creatorID
func (s *activityServiceImpl) CreateActivity(ctx context.Context, req *dto.CreateActivityRequest, creatorID uuid.UUID) (*dto.ActivityDetailResponse, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	categoryID := uuid.MustParse(req.CategoryID)
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, storageFailure(s.logger, "check category", err)
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("Category not found")
	}

	activity := &models.Activity{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Location:        strings.TrimSpace(req.Location),
		MaxParticipants: req.MaxParticipants,
		IsPrivate:       req.IsPrivate,
		IsPaid:          req.IsPaid,
		Images:          req.Images,
		Status:          models.ActivityStatusUpcoming,
		CreatorID:       creatorID,
		CategoryID:      categoryID,
	}
	if req.IsPaid {
		activity.Price = req.Price
	}
	if req.Coordinates != nil {
		activity.Coordinates = &models.Coordinates{Lat: req.Coordinates.Lat, Lng: req.Coordinates.Lng}
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Category not found")
		}
		return nil, storageFailure(s.logger, "create activity", err)
	}

	s.logger.Info().
		Str("activityId", activity.ID.String()).
		Str("creatorId", creatorID.String()).
		Msg("Activity created")

	return loadActivityDetail(ctx, s.logger, s.activities, s.participations, activity.ID)
}

// validateCreate applies the tag rules plus the rules that depend on the clock
// or on more than one field
func (s *activityServiceImpl) validateCreate(req *dto.CreateActivityRequest) error {
	if req == nil {
		return apperrors.NewValidationError("Request body is required", nil)
	}

	err := s.validator.Struct(req)
	violations := apperrors.ViolationsOf(err)
	if err != nil && violations == nil {
		return err
	}

	if !req.StartDate.IsZero() && !req.StartDate.After(s.now()) {
		violations = append(violations, apperrors.FieldViolation{Path: "startDate", Message: "startDate must be in the future"})
	}
	if req.IsPaid {
		if req.Price == nil {
			violations = append(violations, apperrors.FieldViolation{Path: "price", Message: "price is required for paid activities"})
		} else if *req.Price <= 0 {
			violations = append(violations, apperrors.FieldViolation{Path: "price", Message: "price must be greater than 0 for paid activities"})
		} else if !isWholeCents(*req.Price) {
			violations = append(violations, apperrors.FieldViolation{Path: "price", Message: "price must have at most 2 decimal places"})
		}
	}

	if len(violations) > 0 {
		return apperrors.NewValidationError("Validation failed", violations)
	}
	return nil
}

// isWholeCents reports whether price is representable in NUMERIC(10,2) without rounding
func isWholeCents(price float64) bool {
	cents := price * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}
