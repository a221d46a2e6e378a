package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/pkg/dberrors"
)

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func selectComments() squirrel.SelectBuilder {
	return psql.Select(
		"cm.id", "cm.content", "cm.activity_id", "cm.user_id", "cm.parent_id", "cm.created_at", "cm.updated_at",
		"u.id", "u.name", "u.image",
	).
		From("comments cm").
		Join("users u ON u.id = cm.user_id")
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	author := &models.UserSummary{}
	err := row.Scan(
		&c.ID, &c.Content, &c.ActivityID, &c.UserID, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
		&author.ID, &author.Name, &author.Image,
	)
	if err != nil {
		return nil, err
	}
	c.Author = author
	return &c, nil
}

// ListByActivity returns every comment of an activity as a flat list, oldest first
func (r *CommentRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Comment, error) {
	sql, args, err := selectComments().
		Where(squirrel.Expr("cm.activity_id = ?", activityID)).
		OrderBy("cm.created_at ASC", "cm.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// GetByID returns a single comment with its author
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	sql, args, err := selectComments().Where(squirrel.Expr("cm.id = ?", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	c, err := scanComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	sql, args, err := psql.Insert("comments").
		Columns("content", "activity_id", "user_id", "parent_id").
		Values(c.Content, c.ActivityID, c.UserID, c.ParentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// UpdateContent replaces the content of a comment
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET content = $2, updated_at = now() WHERE id = $1`, id, content)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment. Replies go with it through the foreign key cascade.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
