package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/dberrors"
)

// ParticipationService is the only writer of participation rows and of the
// participant counter of an activity
type ParticipationService interface {
	JoinActivity(ctx context.Context, activityID, userID uuid.UUID) (*dto.ActivityDetailResponse, error)
	LeaveActivity(ctx context.Context, activityID, userID uuid.UUID) (*dto.ActivityDetailResponse, error)
}

// participationServiceImpl implements ParticipationService
type participationServiceImpl struct {
	tx             TxManager
	activities     ActivityStore
	participations ParticipationStore
	publisher      EventPublisher
	maxAttempts    int
	now            func() time.Time
	logger         zerolog.Logger
}

// NewParticipationService creates a new ParticipationService. Transactions
// aborted by a serialization failure or deadlock run again up to maxAttempts times.
func NewParticipationService(
	tx TxManager,
	activities ActivityStore,
	participations ParticipationStore,
	publisher EventPublisher,
	maxAttempts int,
	logger zerolog.Logger,
) ParticipationService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &participationServiceImpl{
		tx:             tx,
		activities:     activities,
		participations: participations,
		publisher:      publisher,
		maxAttempts:    maxAttempts,
		now:            time.Now,
		logger:         logger,
	}
}

// JoinActivity adds userID to the activity and increments its counter in one transaction
func (s *participationServiceImpl) JoinActivity(ctx context.Context, activityID, userID uuid.UUID) (*dto.ActivityDetailResponse, error) {
	var (
		current int
		locked  models.ActivityCapacity
	)

	err := s.withRetry(ctx, "join activity", func(ctx context.Context, tx pgx.Tx) error {
		capacity, err := s.participations.LockActivity(ctx, tx, activityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound)
			}
			return err
		}
		locked = *capacity

		exists, err := s.participations.Exists(ctx, tx, activityID, userID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictReason(apperrors.ErrAlreadyParticipating)
		}

		if !capacity.HasFreeSlot() {
			return apperrors.NewConflictReason(apperrors.ErrActivityFull)
		}

		participation := &models.Participation{
			ActivityID: activityID,
			UserID:     userID,
			Status:     models.ParticipationConfirmed,
		}
		if err := s.participations.Insert(ctx, tx, participation); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.NewConflictReason(apperrors.ErrAlreadyParticipating)
			}
			return err
		}

		var ok bool
		current, ok, err = s.participations.IncrementCounter(ctx, tx, activityID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewConflictReason(apperrors.ErrActivityFull)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("activityId", activityID.String()).
		Str("userId", userID.String()).
		Int("currentParticipants", current).
		Msg("User joined activity")

	s.publish(models.EventMemberJoined, activityID, userID, current)

	return s.committedDetail(ctx, activityID, locked, current), nil
}

// LeaveActivity removes userID from the activity and frees its slot
func (s *participationServiceImpl) LeaveActivity(ctx context.Context, activityID, userID uuid.UUID) (*dto.ActivityDetailResponse, error) {
	var (
		current int
		locked  models.ActivityCapacity
	)

	err := s.withRetry(ctx, "leave activity", func(ctx context.Context, tx pgx.Tx) error {
		capacity, err := s.participations.LockActivity(ctx, tx, activityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound)
			}
			return err
		}
		locked = *capacity
		current = capacity.CurrentParticipants

		status, err := s.participations.Delete(ctx, tx, activityID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NewNotFoundReason(apperrors.ErrNotParticipating)
			}
			return err
		}

		if status.Counts() {
			current, err = s.participations.DecrementCounter(ctx, tx, activityID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("activityId", activityID.String()).
		Str("userId", userID.String()).
		Int("currentParticipants", current).
		Msg("User left activity")

	s.publish(models.EventMemberLeft, activityID, userID, current)

	return s.committedDetail(ctx, activityID, locked, current), nil
}

// committedDetail reads the activity after a committed change. The change is
// not undone by a failed read, so the locked capacity row stands in for it.
func (s *participationServiceImpl) committedDetail(ctx context.Context, activityID uuid.UUID, locked models.ActivityCapacity, current int) *dto.ActivityDetailResponse {
	detail, err := loadActivityDetail(ctx, s.logger, s.activities, s.participations, activityID)
	if err == nil {
		return detail
	}

	s.logger.Warn().
		Err(err).
		Str("activityId", activityID.String()).
		Msg("Activity reread failed after commit, returning capacity only")

	return &dto.ActivityDetailResponse{
		ActivitySummaryResponse: dto.ActivitySummaryResponse{
			ID:                  activityID,
			MaxParticipants:     locked.MaxParticipants,
			CurrentParticipants: current,
			ParticipantCount:    current,
			Images:              []string{},
			Status:              locked.Status,
		},
		Participants: []dto.ParticipantResponse{},
	}
}

// withRetry runs fn in a transaction, repeating it while the database reports a
// retryable conflict. Anything else ends the loop with its own classification.
func (s *participationServiceImpl) withRetry(ctx context.Context, operation string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.tx.WithTransaction(ctx, fn)
		if err == nil {
			return nil
		}

		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			s.logger.Debug().
				Err(err).
				Str("operation", operation).
				Msg("Participation rejected")
			return err
		}
		if !dberrors.IsRetryable(err) || ctx.Err() != nil {
			break
		}

		s.logger.Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Msg("Retrying participation transaction")
	}

	return storageFailure(s.logger, operation, err)
}

func (s *participationServiceImpl) publish(eventType models.ActivityEventType, activityID, userID uuid.UUID, current int) {
	s.publisher.Publish(models.ActivityEvent{
		Type:                eventType,
		ActivityID:          activityID,
		UserID:              userID,
		CurrentParticipants: &current,
		Timestamp:           s.now().UTC(),
	})
}
