package services

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/db"
)

// TxManager runs a function inside a database transaction
type TxManager interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// ActivityStore is the read/insert surface of the activities table
type ActivityStore interface {
	List(ctx context.Context, filter repositories.ActivityFilter, sort repositories.ActivitySort, offset, limit uint64) ([]*models.Activity, int64, error)
	FindAll(ctx context.Context, filter repositories.ActivityFilter) ([]*models.Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, activity *models.Activity) error
}

// ParticipationStore owns participation rows and the participant counter
type ParticipationStore interface {
	LockActivity(ctx context.Context, tx pgx.Tx, activityID uuid.UUID) (*models.ActivityCapacity, error)
	Exists(ctx context.Context, tx pgx.Tx, activityID, userID uuid.UUID) (bool, error)
	Insert(ctx context.Context, tx pgx.Tx, p *models.Participation) error
	IncrementCounter(ctx context.Context, tx pgx.Tx, activityID uuid.UUID) (int, bool, error)
	Delete(ctx context.Context, tx pgx.Tx, activityID, userID uuid.UUID) (models.ParticipationStatus, error)
	DecrementCounter(ctx context.Context, tx pgx.Tx, activityID uuid.UUID) (int, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Participation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Participation, error)
}

// CategoryStore is the category persistence surface
type CategoryStore interface {
	List(ctx context.Context, rootsOnly bool) ([]*models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Category) error
}

// CommentStore is the comment persistence surface
type CommentStore interface {
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore is the user and account persistence surface
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*models.Account, error)
	CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, bio, location *string, interests []string) (*models.User, error)
}

// EventPublisher fans committed activity changes out to live subscribers
type EventPublisher interface {
	Publish(event models.ActivityEvent)
}

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	IssueAccessToken(user *models.User) (string, time.Time, error)
}

type noopPublisher struct{}

func (noopPublisher) Publish(models.ActivityEvent) {}
