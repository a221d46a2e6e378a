package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/validation"
)

// CommentService defines the interface for activity comments
type CommentService interface {
	ListComments(ctx context.Context, activityID uuid.UUID) ([]dto.CommentResponse, error)
	CreateComment(ctx context.Context, activityID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, activityID, commentID, userID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, activityID, commentID, userID uuid.UUID) error
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	comments   CommentStore
	activities ActivityStore
	publisher  EventPublisher
	validator  *validation.Validator
	now        func() time.Time
	logger     zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(comments CommentStore, activities ActivityStore, publisher EventPublisher, validator *validation.Validator, logger zerolog.Logger) CommentService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &commentServiceImpl{
		comments:   comments,
		activities: activities,
		publisher:  publisher,
		validator:  validator,
		now:        time.Now,
		logger:     logger,
	}
}

// ListComments returns the comment tree of an activity
func (s *commentServiceImpl) ListComments(ctx context.Context, activityID uuid.UUID) ([]dto.CommentResponse, error) {
	if err := s.requireActivity(ctx, activityID); err != nil {
		return nil, err
	}

	flat, err := s.comments.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, storageFailure(s.logger, "list comments", err)
	}

	return dto.FromComments(BuildCommentTree(flat)), nil
}

// BuildCommentTree nests a flat comment list. Top-level comments come newest
// first, replies oldest first at every depth. Replies whose parent is missing
// from the list are dropped.
func BuildCommentTree(flat []*models.Comment) []*models.Comment {
	byID := make(map[uuid.UUID]*models.Comment, len(flat))
	for _, c := range flat {
		c.Replies = nil
		byID[c.ID] = c
	}

	roots := make([]*models.Comment, 0)
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for _, c := range flat {
		replies := c.Replies
		sort.SliceStable(replies, func(i, j int) bool {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
	}

	return roots
}

// CreateComment adds a comment, or a reply when ParentID is set
func (s *commentServiceImpl) CreateComment(ctx context.Context, activityID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("Request body is required", nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if err := s.requireActivity(ctx, activityID); err != nil {
		return nil, err
	}

	parentID, err := parseOptionalID("parentId", req.ParentID)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, storageFailure(s.logger, "get parent comment", err)
		}
		if err != nil || parent.ActivityID != activityID {
			return nil, apperrors.NewValidationError("Validation failed", []apperrors.FieldViolation{
				{Path: "parentId", Message: "parentId must reference a comment on the same activity"},
			})
		}
	}

	comment := &models.Comment{
		Content:    strings.TrimSpace(req.Content),
		ActivityID: activityID,
		UserID:     userID,
		ParentID:   parentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound)
		}
		return nil, storageFailure(s.logger, "create comment", err)
	}

	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, storageFailure(s.logger, "get comment", err)
	}

	s.logger.Debug().
		Str("commentId", created.ID.String()).
		Str("activityId", activityID.String()).
		Msg("Comment created")

	s.publisher.Publish(models.ActivityEvent{
		Type:       models.EventCommentCreated,
		ActivityID: activityID,
		UserID:     userID,
		CommentID:  &created.ID,
		Timestamp:  s.now().UTC(),
	})

	response := dto.FromComment(created)
	return &response, nil
}

// UpdateComment edits the content of a comment owned by userID
func (s *commentServiceImpl) UpdateComment(ctx context.Context, activityID, commentID, userID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("Request body is required", nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.ownedComment(ctx, activityID, commentID, userID); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(ctx, commentID, strings.TrimSpace(req.Content)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Comment not found")
		}
		return nil, storageFailure(s.logger, "update comment", err)
	}

	updated, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, storageFailure(s.logger, "get comment", err)
	}

	response := dto.FromComment(updated)
	return &response, nil
}

// DeleteComment removes a comment owned by userID together with its replies
func (s *commentServiceImpl) DeleteComment(ctx context.Context, activityID, commentID, userID uuid.UUID) error {
	if _, err := s.ownedComment(ctx, activityID, commentID, userID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewResourceNotFoundError("Comment not found")
		}
		return storageFailure(s.logger, "delete comment", err)
	}

	s.logger.Debug().
		Str("commentId", commentID.String()).
		Msg("Comment deleted")
	return nil
}

func (s *commentServiceImpl) ownedComment(ctx context.Context, activityID, commentID, userID uuid.UUID) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Comment not found")
		}
		return nil, storageFailure(s.logger, "get comment", err)
	}
	if comment.ActivityID != activityID {
		return nil, apperrors.NewResourceNotFoundError("Comment not found")
	}
	if comment.UserID != userID {
		return nil, apperrors.NewForbiddenError("Only the author can modify this comment")
	}
	return comment, nil
}

func (s *commentServiceImpl) requireActivity(ctx context.Context, activityID uuid.UUID) error {
	exists, err := s.activities.Exists(ctx, activityID)
	if err != nil {
		return storageFailure(s.logger, "check activity", err)
	}
	if !exists {
		return apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound)
	}
	return nil
}
