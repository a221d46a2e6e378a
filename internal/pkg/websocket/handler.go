package websocket

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/middleware"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
)

// ActivityChecker reports whether an activity exists
type ActivityChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub        *Hub
	activities ActivityChecker
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, activities ActivityChecker, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		activities: activities,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Follow an activity's live feed
// @Description Upgrades to a WebSocket that streams join, leave and comment events of the activity
// @Tags activities, websocket
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id}/feed [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewValidationError("Invalid activity ID", []apperrors.FieldViolation{
			{Path: "id", Message: "id must be a valid id"},
		}))
		return
	}

	userID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		middleware.HandleAPIError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	exists, err := h.activities.Exists(c.Request.Context(), activityID)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewStorageError("check activity", err))
		return
	}
	if !exists {
		middleware.HandleAPIError(c, apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("activityID", activityID.String()).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		userID:     userID.(uuid.UUID),
		activityID: activityID,
		logger:     h.logger,
	}
	if !h.hub.subscribe(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
