package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/middleware"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
)

// currentUserID returns the authenticated user set by AuthMiddleware.JWTAuth
func currentUserID(ctx *gin.Context) (uuid.UUID, error) {
	value, exists := ctx.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	return userID, nil
}

// pathID parses a uuid path parameter
func pathID(ctx *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("Invalid "+name, []apperrors.FieldViolation{
			{Path: name, Message: name + " must be a valid id"},
		})
	}
	return id, nil
}

// bindError turns a binding failure into a validation error
func bindError(path string, err error) error {
	return apperrors.NewValidationError("Invalid request payload", []apperrors.FieldViolation{
		{Path: path, Message: err.Error()},
	})
}
