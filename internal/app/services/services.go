package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
)

// Services holds all the service instances
type Services struct {
	ActivityService      ActivityService
	ParticipationService ParticipationService
	CategoryService      CategoryService
	CommentService       CommentService
	AuthService          AuthService
	UserService          UserService
}

// storageFailure logs an unexpected store error and converts it into a storage
// error. Application errors pass through untouched.
func storageFailure(logger zerolog.Logger, operation string, err error) error {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return err
	}
	logger.Error().Err(err).Str("operation", operation).Msg("Storage failure")
	return apperrors.NewStorageError(operation, err)
}

// loadActivityDetail reads an activity with creator, category and participants
func loadActivityDetail(ctx context.Context, logger zerolog.Logger, activities ActivityStore, participations ParticipationStore, id uuid.UUID) (*dto.ActivityDetailResponse, error) {
	activity, err := activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound)
		}
		return nil, storageFailure(logger, "get activity", err)
	}

	participants, err := participations.ListByActivity(ctx, id)
	if err != nil {
		return nil, storageFailure(logger, "list participants", err)
	}
	activity.Participants = participants

	return dto.FromActivityDetail(activity), nil
}

// parseOptionalID parses an optional id coming from a validated payload
func parseOptionalID(path string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperrors.NewValidationError("Validation failed", []apperrors.FieldViolation{
			{Path: path, Message: path + " must be a valid id"},
		})
	}
	return &id, nil
}
