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

const participationUserActivityKey = "participations_user_activity_key"

// ParticipationRepository owns the participations table and the activities
// participant counter. The mutating methods run inside a caller-owned transaction.
type ParticipationRepository struct {
	db *pgxpool.Pool
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// LockActivity takes a row lock on the activity for the rest of tx
func (r *ParticipationRepository) LockActivity(ctx context.Context, tx pgx.Tx, activityID uuid.UUID) (*models.ActivityCapacity, error) {
	var c models.ActivityCapacity
	err := tx.QueryRow(ctx, `
		SELECT id, max_participants, current_participants, status
		FROM activities
		WHERE id = $1
		FOR UPDATE`, activityID).Scan(&c.ID, &c.MaxParticipants, &c.CurrentParticipants, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock activity: %w", err)
	}
	return &c, nil
}

// Exists reports whether the user holds any participation row for the activity
func (r *ParticipationRepository) Exists(ctx context.Context, tx pgx.Tx, activityID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM participations WHERE activity_id = $1 AND user_id = $2)`,
		activityID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return exists, nil
}

// Insert adds a participation row. A second row for the same pair yields ErrDuplicate.
func (r *ParticipationRepository) Insert(ctx context.Context, tx pgx.Tx, p *models.Participation) error {
	sql, args, err := psql.Insert("participations").
		Columns("user_id", "activity_id", "status").
		Values(p.UserID, p.ActivityID, string(p.Status)).
		Suffix("RETURNING id, joined_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert participation query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.JoinedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, participationUserActivityKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert participation: %w", err)
	}
	return nil
}

// IncrementCounter adds one participant if a slot is free. ok is false when the
// activity is already at capacity.
func (r *ParticipationRepository) IncrementCounter(ctx context.Context, tx pgx.Tx, activityID uuid.UUID) (current int, ok bool, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE activities
		SET current_participants = current_participants + 1, updated_at = now()
		WHERE id = $1 AND current_participants < max_participants
		RETURNING current_participants`, activityID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to increment participant counter: %w", err)
	}
	return current, true, nil
}

// Delete removes the user's participation and returns the status it had
func (r *ParticipationRepository) Delete(ctx context.Context, tx pgx.Tx, activityID, userID uuid.UUID) (models.ParticipationStatus, error) {
	var status models.ParticipationStatus
	err := tx.QueryRow(ctx,
		`DELETE FROM participations WHERE activity_id = $1 AND user_id = $2 RETURNING status`,
		activityID, userID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to delete participation: %w", err)
	}
	return status, nil
}

// DecrementCounter removes one participant, never going below zero
func (r *ParticipationRepository) DecrementCounter(ctx context.Context, tx pgx.Tx, activityID uuid.UUID) (int, error) {
	var current int
	err := tx.QueryRow(ctx, `
		UPDATE activities
		SET current_participants = GREATEST(current_participants - 1, 0), updated_at = now()
		WHERE id = $1
		RETURNING current_participants`, activityID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to decrement participant counter: %w", err)
	}
	return current, nil
}

// ListByActivity returns the participants of an activity, earliest first
func (r *ParticipationRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Participation, error) {
	sql, args, err := psql.Select(
		"p.id", "p.user_id", "p.activity_id", "p.status", "p.joined_at",
		"u.id", "u.name", "u.image",
	).
		From("participations p").
		Join("users u ON u.id = p.user_id").
		Where(squirrel.Expr("p.activity_id = ?", activityID)).
		OrderBy("p.joined_at ASC", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		user := &models.UserSummary{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.ActivityID, &p.Status, &p.JoinedAt, &user.ID, &user.Name, &user.Image); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		p.User = user
		participants = append(participants, &p)
	}

	return participants, rows.Err()
}

// ListByUser returns the user's participations with their activities, most recent first
func (r *ParticipationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Participation, error) {
	columns := append([]string{"p.id", "p.user_id", "p.activity_id", "p.status", "p.joined_at"}, activityColumns...)

	sql, args, err := psql.Select(columns...).
		From("participations p").
		Join("activities a ON a.id = p.activity_id").
		Join("users u ON u.id = a.creator_id").
		Join("categories c ON c.id = a.category_id").
		Where(squirrel.Expr("p.user_id = ?", userID)).
		OrderBy("p.joined_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list participations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participations: %w", err)
	}
	defer rows.Close()

	participations := make([]*models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		activity, err := scanActivity(prefixedRow{rows: rows, prefix: []any{&p.ID, &p.UserID, &p.ActivityID, &p.Status, &p.JoinedAt}})
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		p.Activity = activity
		participations = append(participations, &p)
	}

	return participations, rows.Err()
}

// CountActive counts the participation rows that occupy a slot
func (r *ParticipationRepository) CountActive(ctx context.Context, activityID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM participations WHERE activity_id = $1 AND status <> $2`,
		activityID, string(models.ParticipationCancelled),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return count, nil
}

// prefixedRow scans leading columns into prefix before handing the rest to the caller
type prefixedRow struct {
	rows   pgx.Rows
	prefix []any
}

func (p prefixedRow) Scan(dest ...any) error {
	return p.rows.Scan(append(p.prefix, dest...)...)
}
