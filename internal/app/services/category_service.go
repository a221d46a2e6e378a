package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/validation"
)

// CategoryService defines the interface for category operations
type CategoryService interface {
	ListCategories(ctx context.Context, rootsOnly bool) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryDetailResponse, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
}

// categoryServiceImpl implements CategoryService
type categoryServiceImpl struct {
	categories CategoryStore
	activities ActivityStore
	validator  *validation.Validator
	logger     zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories CategoryStore, activities ActivityStore, validator *validation.Validator, logger zerolog.Logger) CategoryService {
	return &categoryServiceImpl{
		categories: categories,
		activities: activities,
		validator:  validator,
		logger:     logger,
	}
}

// ListCategories returns all categories, or only those without a parent
func (s *categoryServiceImpl) ListCategories(ctx context.Context, rootsOnly bool) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx, rootsOnly)
	if err != nil {
		return nil, storageFailure(s.logger, "list categories", err)
	}
	return dto.FromCategories(categories), nil
}

// GetCategory returns a category with its activities
func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryDetailResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Category not found")
		}
		return nil, storageFailure(s.logger, "get category", err)
	}

	activities, err := s.activities.FindAll(ctx, repositories.ActivityFilter{CategoryID: &id})
	if err != nil {
		return nil, storageFailure(s.logger, "list category activities", err)
	}

	return &dto.CategoryDetailResponse{
		CategoryResponse: dto.FromCategory(category),
		Activities:       dto.FromActivities(activities),
	}, nil
}

// CreateCategory creates a category with a unique name
func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("Request body is required", nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	parentID, err := parseOptionalID("parentId", req.ParentID)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		exists, err := s.categories.Exists(ctx, *parentID)
		if err != nil {
			return nil, storageFailure(s.logger, "check parent category", err)
		}
		if !exists {
			return nil, apperrors.NewResourceNotFoundError("Parent category not found")
		}
	}

	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Image:       req.Image,
		ParentID:    parentID,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, apperrors.NewConflictError("Category name already exists")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewResourceNotFoundError("Parent category not found")
		}
		return nil, storageFailure(s.logger, "create category", err)
	}

	s.logger.Info().
		Str("categoryId", category.ID.String()).
		Str("name", category.Name).
		Msg("Category created")

	response := dto.FromCategory(category)
	return &response, nil
}
