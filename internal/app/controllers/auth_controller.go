// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/services"
	"github.com/yigit/activityhub/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// OAuthSignIn signs in an identity verified by the identity gateway
// @Summary OAuth sign-in
// @Description Accepts an identity already verified by an OAuth provider. First sign-in creates the user; later sign-ins must use a provider already linked to the email.
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Gateway-Key header string true "Identity gateway key"
// @Param request body dto.OAuthSignInRequest true "Verified identity"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Signed in"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Missing email, unlinked provider or bad gateway key"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/oauth/sign-in [post]
func (c *AuthController) OAuthSignIn(ctx *gin.Context) {
	c.logger.Debug().Msg("OAuth sign-in endpoint called")

	var req dto.OAuthSignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid sign-in request payload")
		middleware.HandleAPIError(ctx, bindError("body", err))
		return
	}

	response, err := c.authService.OAuthSignIn(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response, "Signed in"))
}
