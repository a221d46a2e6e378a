package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/app/services/mocks"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/validation"
)

type commentFixture struct {
	comments   *mocks.MockCommentStore
	activities *mocks.MockActivityStore
	publisher  *mocks.MockEventPublisher
	service    CommentService
}

func newCommentFixture(t *testing.T) *commentFixture {
	ctrl := gomock.NewController(t)
	f := &commentFixture{
		comments:   mocks.NewMockCommentStore(ctrl),
		activities: mocks.NewMockActivityStore(ctrl),
		publisher:  mocks.NewMockEventPublisher(ctrl),
	}
	f.service = NewCommentService(f.comments, f.activities, f.publisher, validation.New(), testLogger())
	return f
}

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	first := &models.Comment{ID: uuid.New(), CreatedAt: at(0)}
	second := &models.Comment{ID: uuid.New(), CreatedAt: at(5)}
	replyLate := &models.Comment{ID: uuid.New(), ParentID: &first.ID, CreatedAt: at(9)}
	replyEarly := &models.Comment{ID: uuid.New(), ParentID: &first.ID, CreatedAt: at(2)}
	nested := &models.Comment{ID: uuid.New(), ParentID: &replyEarly.ID, CreatedAt: at(3)}
	orphanParent := uuid.New()
	orphan := &models.Comment{ID: uuid.New(), ParentID: &orphanParent, CreatedAt: at(4)}

	tree := BuildCommentTree([]*models.Comment{first, replyEarly, nested, orphan, second, replyLate})

	require.Len(t, tree, 2)
	assert.Equal(t, second.ID, tree[0].ID, "top level is newest first")
	assert.Equal(t, first.ID, tree[1].ID)

	require.Len(t, first.Replies, 2)
	assert.Equal(t, replyEarly.ID, first.Replies[0].ID, "replies are oldest first")
	assert.Equal(t, replyLate.ID, first.Replies[1].ID)

	require.Len(t, replyEarly.Replies, 1)
	assert.Equal(t, nested.ID, replyEarly.Replies[0].ID)
	assert.Empty(t, second.Replies)
}

func TestCommentService_ListComments(t *testing.T) {
	ctx := context.Background()

	t.Run("missing activity", func(t *testing.T) {
		f := newCommentFixture(t)
		f.activities.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.service.ListComments(ctx, uuid.New())
		requireAppError(t, err, apperrors.ErrResourceNotFound, "activity not found")
	})

	t.Run("returns nested comments", func(t *testing.T) {
		f := newCommentFixture(t)
		activityID := uuid.New()
		root := &models.Comment{ID: uuid.New(), ActivityID: activityID, Content: "Who brings snacks?"}
		reply := &models.Comment{ID: uuid.New(), ActivityID: activityID, ParentID: &root.ID, Content: "Me"}
		f.activities.EXPECT().Exists(gomock.Any(), activityID).Return(true, nil)
		f.comments.EXPECT().ListByActivity(gomock.Any(), activityID).Return([]*models.Comment{root, reply}, nil)

		items, err := f.service.ListComments(ctx, activityID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Len(t, items[0].Replies, 1)
		assert.Equal(t, "Me", items[0].Replies[0].Content)
	})
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()
	activityID := uuid.New()
	userID := uuid.New()

	t.Run("creates and publishes", func(t *testing.T) {
		f := newCommentFixture(t)
		newID := uuid.New()
		f.activities.EXPECT().Exists(gomock.Any(), activityID).Return(true, nil)
		f.comments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *models.Comment) error {
			assert.Equal(t, "See you there", c.Content)
			c.ID = newID
			return nil
		})
		f.comments.EXPECT().GetByID(gomock.Any(), newID).
			Return(&models.Comment{ID: newID, ActivityID: activityID, UserID: userID, Content: "See you there"}, nil)

		var published models.ActivityEvent
		f.publisher.EXPECT().Publish(gomock.Any()).Do(func(e models.ActivityEvent) { published = e })

		resp, err := f.service.CreateComment(ctx, activityID, userID, &dto.CreateCommentRequest{Content: "  See you there "})
		require.NoError(t, err)
		assert.Equal(t, newID, resp.ID)
		assert.Equal(t, models.EventCommentCreated, published.Type)
		require.NotNil(t, published.CommentID)
		assert.Equal(t, newID, *published.CommentID)
	})

	t.Run("parent on another activity is rejected", func(t *testing.T) {
		f := newCommentFixture(t)
		parentID := uuid.New()
		f.activities.EXPECT().Exists(gomock.Any(), activityID).Return(true, nil)
		f.comments.EXPECT().GetByID(gomock.Any(), parentID).Return(&models.Comment{ID: parentID, ActivityID: uuid.New()}, nil)

		_, err := f.service.CreateComment(ctx, activityID, userID, &dto.CreateCommentRequest{Content: "hi", ParentID: strPtr(parentID.String())})
		requireAppError(t, err, apperrors.ErrValidationFailed, "")
		assert.Equal(t, "parentId", apperrors.ViolationsOf(err)[0].Path)
	})

	t.Run("unknown parent is rejected", func(t *testing.T) {
		f := newCommentFixture(t)
		f.activities.EXPECT().Exists(gomock.Any(), activityID).Return(true, nil)
		f.comments.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, repositories.ErrNotFound)

		_, err := f.service.CreateComment(ctx, activityID, userID, &dto.CreateCommentRequest{Content: "hi", ParentID: strPtr(uuid.NewString())})
		requireAppError(t, err, apperrors.ErrValidationFailed, "")
	})

	t.Run("empty content", func(t *testing.T) {
		f := newCommentFixture(t)

		_, err := f.service.CreateComment(ctx, activityID, userID, &dto.CreateCommentRequest{})
		requireAppError(t, err, apperrors.ErrValidationFailed, "")
	})
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	activityID := uuid.New()
	authorID := uuid.New()
	commentID := uuid.New()
	owned := &models.Comment{ID: commentID, ActivityID: activityID, UserID: authorID, Content: "old"}

	t.Run("author updates", func(t *testing.T) {
		f := newCommentFixture(t)
		gomock.InOrder(
			f.comments.EXPECT().GetByID(gomock.Any(), commentID).Return(owned, nil),
			f.comments.EXPECT().UpdateContent(gomock.Any(), commentID, "new").Return(nil),
			f.comments.EXPECT().GetByID(gomock.Any(), commentID).
				Return(&models.Comment{ID: commentID, ActivityID: activityID, UserID: authorID, Content: "new"}, nil),
		)

		resp, err := f.service.UpdateComment(ctx, activityID, commentID, authorID, &dto.UpdateCommentRequest{Content: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", resp.Content)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		f := newCommentFixture(t)
		f.comments.EXPECT().GetByID(gomock.Any(), commentID).Return(owned, nil).Times(2)

		_, err := f.service.UpdateComment(ctx, activityID, commentID, uuid.New(), &dto.UpdateCommentRequest{Content: "new"})
		requireAppError(t, err, apperrors.ErrPermissionDenied, "")

		err = f.service.DeleteComment(ctx, activityID, commentID, uuid.New())
		requireAppError(t, err, apperrors.ErrPermissionDenied, "")
	})

	t.Run("comment of another activity is not found", func(t *testing.T) {
		f := newCommentFixture(t)
		f.comments.EXPECT().GetByID(gomock.Any(), commentID).Return(owned, nil)

		err := f.service.DeleteComment(ctx, uuid.New(), commentID, authorID)
		requireAppError(t, err, apperrors.ErrResourceNotFound, "Comment not found")
	})

	t.Run("author deletes", func(t *testing.T) {
		f := newCommentFixture(t)
		f.comments.EXPECT().GetByID(gomock.Any(), commentID).Return(owned, nil)
		f.comments.EXPECT().Delete(gomock.Any(), commentID).Return(nil)

		require.NoError(t, f.service.DeleteComment(ctx, activityID, commentID, authorID))
	})
}
