package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/activityhub/internal/app/controllers"
	"github.com/yigit/activityhub/internal/middleware"
	"github.com/yigit/activityhub/internal/pkg/websocket"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Activity      *controllers.ActivityController
	Participation *controllers.ParticipationController
	Category      *controllers.CategoryController
	Comment       *controllers.CommentController
	Auth          *controllers.AuthController
	User          *controllers.UserController
	Health        *controllers.HealthController
	Feed          *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Health.Health)

	// --- Public routes ---
	activities := v1.Group("/activities")
	{
		activities.GET("", c.Activity.ListActivities)
		activities.GET("/:id", c.Activity.GetActivity)
		activities.GET("/:id/comments", c.Comment.ListComments)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", c.Category.ListCategories)
		categories.GET("/:id", c.Category.GetCategory)
	}

	// Identity collaborator only
	auth := v1.Group("/auth")
	auth.Use(authMiddleware.GatewayKey())
	{
		auth.POST("/oauth/sign-in", c.Auth.OAuthSignIn)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		activitiesProtected := authenticated.Group("/activities")
		{
			activitiesProtected.POST("", c.Activity.CreateActivity)
			activitiesProtected.POST("/:id/join", c.Participation.JoinActivity)
			activitiesProtected.DELETE("/:id/join", c.Participation.LeaveActivity)
			activitiesProtected.POST("/:id/comments", c.Comment.CreateComment)
			activitiesProtected.PATCH("/:id/comments/:commentId", c.Comment.UpdateComment)
			activitiesProtected.DELETE("/:id/comments/:commentId", c.Comment.DeleteComment)
			activitiesProtected.GET("/:id/feed", c.Feed.HandleConnection)
		}

		authenticated.POST("/categories", c.Category.CreateCategory)

		users := authenticated.Group("/users")
		{
			users.GET("/me", c.User.GetProfile)
			users.PUT("/me", c.User.UpdateProfile)
		}
	}
}
