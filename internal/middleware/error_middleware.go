package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/logger"
)

// HandleAPIError maps an application error onto the HTTP error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)

	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	message := func(fallback string) string {
		if hasCustom && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}
	code := func(fallback dto.ErrorCode) dto.ErrorCode {
		if hasCustom && custom.Code != "" {
			return dto.ErrorCode(custom.Code)
		}
		return fallback
	}
	details := func() interface{} {
		if hasCustom && len(custom.Details) > 0 {
			return custom.Details
		}
		return nil
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(code(dto.ErrorCodeValidationFailed), message("Validation failed"))
		violations := apperrors.ViolationsOf(err)
		if violations == nil {
			violations = []apperrors.FieldViolation{}
		}
		return http.StatusBadRequest, detail.WithDetails(violations)
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(code(dto.ErrorCodeExpiredToken), message("Token expired"))
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(code(dto.ErrorCodeInvalidToken), message("Invalid token"))
	case errors.Is(err, apperrors.ErrNoEmail):
		return http.StatusUnauthorized, dto.NewErrorDetail(code(dto.ErrorCodeNoEmail), message("Email is required"))
	case errors.Is(err, apperrors.ErrAccountNotLinked):
		return http.StatusUnauthorized, dto.NewErrorDetail(code(dto.ErrorCodeOAuthAccountNotLinked), message("Account not linked")).
			WithDetails(details())
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewErrorDetail(code(dto.ErrorCodeUnauthorized), message("Authentication required"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(code(dto.ErrorCodeForbidden), message("Permission denied"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(code(dto.ErrorCodeResourceNotFound), message("Resource not found"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(code(dto.ErrorCodeConflict), message("Conflict"))
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Internal server error")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
