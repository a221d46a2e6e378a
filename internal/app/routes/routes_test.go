package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/activityhub/internal/middleware"
)

func TestSetupRouter_RegistersAPISurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupRouter(router, Controllers{}, middleware.NewAuthMiddleware(nil, "gateway-key"))
	SetupSwagger(router)

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /api/v1/activities",
		"GET /api/v1/activities/:id",
		"POST /api/v1/activities",
		"POST /api/v1/activities/:id/join",
		"DELETE /api/v1/activities/:id/join",
		"GET /api/v1/activities/:id/comments",
		"POST /api/v1/activities/:id/comments",
		"PATCH /api/v1/activities/:id/comments/:commentId",
		"DELETE /api/v1/activities/:id/comments/:commentId",
		"GET /api/v1/activities/:id/feed",
		"GET /api/v1/categories",
		"GET /api/v1/categories/:id",
		"POST /api/v1/categories",
		"POST /api/v1/auth/oauth/sign-in",
		"GET /api/v1/users/me",
		"PUT /api/v1/users/me",
		"GET /api/v1/health",
		"GET /swagger/*any",
	} {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
