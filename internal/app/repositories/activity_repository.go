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
	"github.com/yigit/activityhub/internal/pkg/logger"
)

// activityColumns are selected from "activities a JOIN users u JOIN categories c"
var activityColumns = []string{
	"a.id", "a.title", "a.description", "a.start_date", "a.end_date", "a.location",
	"a.latitude", "a.longitude", "a.max_participants", "a.current_participants",
	"a.is_private", "a.is_paid", "a.price", "a.images", "a.status",
	"a.creator_id", "a.category_id", "a.created_at", "a.updated_at",
	"u.id", "u.name", "u.image",
	"c.id", "c.name",
}

// ActivityRepository handles activity database operations
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func selectActivities() squirrel.SelectBuilder {
	return psql.Select(activityColumns...).
		From("activities a").
		Join("users u ON u.id = a.creator_id").
		Join("categories c ON c.id = a.category_id")
}

// scanActivity scans one row produced by selectActivities
func scanActivity(row pgx.Row) (*models.Activity, error) {
	var a models.Activity
	var lat, lng *float64
	creator := &models.UserSummary{}
	category := &models.CategorySummary{}

	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.StartDate, &a.EndDate, &a.Location,
		&lat, &lng, &a.MaxParticipants, &a.CurrentParticipants,
		&a.IsPrivate, &a.IsPaid, &a.Price, &a.Images, &a.Status,
		&a.CreatorID, &a.CategoryID, &a.CreatedAt, &a.UpdatedAt,
		&creator.ID, &creator.Name, &creator.Image,
		&category.ID, &category.Name,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		a.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
	}
	a.Creator = creator
	a.Category = category

	return &a, nil
}

func collectActivities(rows pgx.Rows) ([]*models.Activity, error) {
	defer rows.Close()

	activities := make([]*models.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return activities, nil
}

// List returns one page of activities matching filter together with the total
// number of matches. Count and fetch read the same snapshot.
func (r *ActivityRepository) List(ctx context.Context, filter ActivityFilter, sort ActivitySort, offset, limit uint64) ([]*models.Activity, int64, error) {
	where := filter.Predicate()

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("activities a").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count activities query: %w", err)
	}

	listSQL, listArgs, err := selectActivities().
		Where(where).
		OrderBy(sort.OrderBy()...).
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list activities query: %w", err)
	}

	var total int64
	activities := make([]*models.Activity, 0)

	err = pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count activities: %w", err)
		}
		if total == 0 || offset >= uint64(total) {
			return nil
		}

		rows, err := tx.Query(ctx, listSQL, listArgs...)
		if err != nil {
			return fmt.Errorf("failed to query activities: %w", err)
		}
		activities, err = collectActivities(rows)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error listing activities")
		return nil, 0, err
	}

	return activities, total, nil
}

// FindAll returns every activity matching filter ordered by start date
func (r *ActivityRepository) FindAll(ctx context.Context, filter ActivityFilter) ([]*models.Activity, error) {
	sql, args, err := selectActivities().
		Where(filter.Predicate()).
		OrderBy(ActivitySort{Field: SortByStartDate}.OrderBy()...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find activities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}

	return collectActivities(rows)
}

// GetByID returns an activity with creator and category summaries
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	sql, args, err := selectActivities().Where(squirrel.Expr("a.id = ?", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get activity query: %w", err)
	}

	activity, err := scanActivity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return activity, nil
}

// Exists reports whether an activity with id exists
func (r *ActivityRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM activities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check activity existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new activity. The participant counter always starts at zero
// and is left to the database default.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	var lat, lng *float64
	if activity.Coordinates != nil {
		lat, lng = &activity.Coordinates.Lat, &activity.Coordinates.Lng
	}

	images := activity.Images
	if images == nil {
		images = []string{}
	}

	sql, args, err := psql.Insert("activities").
		Columns(
			"title", "description", "start_date", "end_date", "location", "latitude", "longitude",
			"max_participants", "is_private", "is_paid", "price", "images", "status",
			"creator_id", "category_id",
		).
		Values(
			activity.Title, activity.Description, activity.StartDate, activity.EndDate, activity.Location, lat, lng,
			activity.MaxParticipants, activity.IsPrivate, activity.IsPaid, activity.Price, images, string(activity.Status),
			activity.CreatorID, activity.CategoryID,
		).
		Suffix("RETURNING id, current_participants, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create activity query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&activity.ID, &activity.CurrentParticipants, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}

	activity.Images = images
	return nil
}
