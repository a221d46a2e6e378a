package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository level errors. Services translate them into application errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// psql is the statement builder shared by every repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	ActivityRepository      *ActivityRepository
	ParticipationRepository *ParticipationRepository
	CategoryRepository      *CategoryRepository
	CommentRepository       *CommentRepository
	UserRepository          *UserRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ActivityRepository:      NewActivityRepository(db),
		ParticipationRepository: NewParticipationRepository(db),
		CategoryRepository:      NewCategoryRepository(db),
		CommentRepository:       NewCommentRepository(db),
		UserRepository:          NewUserRepository(db),
	}
}
