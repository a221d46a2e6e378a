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

const categoryNameKey = "categories_name_key"

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func selectCategories() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.name", "c.description", "c.image", "c.parent_id", "c.created_at", "c.updated_at",
		"p.id", "p.name",
		"(SELECT COUNT(*) FROM activities a WHERE a.category_id = c.id)",
	).
		From("categories c").
		LeftJoin("categories p ON p.id = c.parent_id")
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	var parentID *uuid.UUID
	var parentName *string

	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Image, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
		&parentID, &parentName,
		&c.ActivityCount,
	)
	if err != nil {
		return nil, err
	}

	if parentID != nil && parentName != nil {
		c.Parent = &models.CategorySummary{ID: *parentID, Name: *parentName}
	}
	c.Children = []models.CategorySummary{}

	return &c, nil
}

// List returns categories ordered by name. rootsOnly restricts the result to
// categories without a parent.
func (r *CategoryRepository) List(ctx context.Context, rootsOnly bool) ([]*models.Category, error) {
	query := selectCategories().OrderBy("c.name ASC")
	if rootsOnly {
		query = query.Where(squirrel.Eq{"c.parent_id": nil})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	byID := make(map[uuid.UUID]*models.Category)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	children, err := r.children(ctx, nil)
	if err != nil {
		return nil, err
	}
	for parentID, list := range children {
		if parent, ok := byID[parentID]; ok {
			parent.Children = list
		}
	}

	return categories, nil
}

// GetByID returns a category with its parent and children
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	sql, args, err := selectCategories().Where(squirrel.Expr("c.id = ?", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	category, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	children, err := r.children(ctx, &id)
	if err != nil {
		return nil, err
	}
	if list, ok := children[id]; ok {
		category.Children = list
	}

	return category, nil
}

// children groups child summaries by parent id, optionally for a single parent
func (r *CategoryRepository) children(ctx context.Context, parentID *uuid.UUID) (map[uuid.UUID][]models.CategorySummary, error) {
	query := psql.Select("id", "name", "parent_id").
		From("categories").
		Where(squirrel.NotEq{"parent_id": nil}).
		OrderBy("name ASC")
	if parentID != nil {
		query = query.Where(squirrel.Expr("parent_id = ?", *parentID))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category children query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category children: %w", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]models.CategorySummary)
	for rows.Next() {
		var child models.CategorySummary
		var parent uuid.UUID
		if err := rows.Scan(&child.ID, &child.Name, &parent); err != nil {
			return nil, fmt.Errorf("failed to scan category child: %w", err)
		}
		grouped[parent] = append(grouped[parent], child)
	}

	return grouped, rows.Err()
}

// Exists reports whether a category with id exists
func (r *CategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

// Create inserts a category. A duplicate name yields ErrDuplicate and an
// unknown parent yields ErrNotFound.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	sql, args, err := psql.Insert("categories").
		Columns("name", "description", "image", "parent_id").
		Values(c.Name, c.Description, c.Image, c.ParentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create category query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, categoryNameKey) {
			return ErrDuplicate
		}
		if dberrors.IsForeignKeyViolation(err, "") {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	c.Children = []models.CategorySummary{}
	return nil
}

// UpsertByName inserts a category or refreshes the description and image of an
// existing one with the same name
func (r *CategoryRepository) UpsertByName(ctx context.Context, c *models.Category) error {
	sql, args, err := psql.Insert("categories").
		Columns("name", "description", "image").
		Values(c.Name, c.Description, c.Image).
		Suffix(`ON CONFLICT ON CONSTRAINT ` + categoryNameKey + ` DO UPDATE
			SET description = EXCLUDED.description, image = EXCLUDED.image, updated_at = now()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert category query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert category %q: %w", c.Name, err)
	}
	return nil
}
