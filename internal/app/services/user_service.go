package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/validation"
)

// UserService defines the interface for profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	users          UserStore
	activities     ActivityStore
	participations ParticipationStore
	validator      *validation.Validator
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, activities ActivityStore, participations ParticipationStore, validator *validation.Validator, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:          users,
		activities:     activities,
		participations: participations,
		validator:      validator,
		logger:         logger,
	}
}

// GetProfile returns the user's profile with created activities and participations
func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User not found")
		}
		return nil, storageFailure(s.logger, "get user", err)
	}

	created, err := s.activities.FindAll(ctx, repositories.ActivityFilter{CreatorID: &userID})
	if err != nil {
		return nil, storageFailure(s.logger, "list created activities", err)
	}

	participations, err := s.participations.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure(s.logger, "list participations", err)
	}

	return dto.NewProfileResponse(user, created, participations), nil
}

// UpdateProfile replaces bio, location and interests
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("Request body is required", nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	interests := make([]string, 0, len(req.Interests))
	for _, interest := range req.Interests {
		interests = append(interests, strings.TrimSpace(interest))
	}

	if _, err := s.users.UpdateProfile(ctx, userID, trimmed(req.Bio), trimmed(req.Location), interests); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User not found")
		}
		return nil, storageFailure(s.logger, "update profile", err)
	}

	s.logger.Debug().Str("userId", userID.String()).Msg("Profile updated")

	return s.GetProfile(ctx, userID)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
