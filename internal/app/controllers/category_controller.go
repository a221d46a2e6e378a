package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/services"
	"github.com/yigit/activityhub/internal/middleware"
)

// CategoryController handles category operations
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

// ListCategories lists categories
// @Summary List categories
// @Description Returns every category with parent, children and activity count
// @Tags categories
// @Produce json
// @Param root query bool false "Only categories without a parent"
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse} "Categories retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	rootsOnly := ctx.Query("root") == "true"

	categories, err := c.categoryService.ListCategories(ctx.Request.Context(), rootsOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories, ""))
}

// GetCategory returns a category with its activities
// @Summary Get category by ID
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryDetailResponse} "Category retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid category ID"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories/{id} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	category, err := c.categoryService.GetCategory(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(category, ""))
}

// CreateCategory creates a category
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category information"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse} "Category created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid category data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Parent category not found"
// @Failure 409 {object} dto.ErrorResponse "Category name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, bindError("body", err))
		return
	}

	category, err := c.categoryService.CreateCategory(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(category, "Category created successfully"))
}
