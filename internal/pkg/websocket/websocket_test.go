package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/middleware"
)

type knownActivities map[uuid.UUID]bool

func (k knownActivities) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return k[id], nil
}

func startFeedServer(t *testing.T, known knownActivities) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/activities/:id/feed", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
		c.Next()
	}, NewHandler(hub, known, zerolog.Nop()).HandleConnection)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func feedURL(server *httptest.Server, activityID uuid.UUID) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/activities/" + activityID.String() + "/feed"
}

func TestFeed_DeliversEventsOfTheActivity(t *testing.T) {
	activityID := uuid.New()
	otherID := uuid.New()
	hub, server := startFeedServer(t, knownActivities{activityID: true, otherID: true})

	conn, _, err := gorilla.DefaultDialer.Dial(feedURL(server, activityID), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.GetClientsCount(activityID) == 1 }, 2*time.Second, 10*time.Millisecond)

	current := 4
	userID := uuid.New()
	hub.Publish(models.ActivityEvent{Type: models.EventMemberJoined, ActivityID: otherID, UserID: uuid.New()})
	hub.Publish(models.ActivityEvent{
		Type:                models.EventMemberJoined,
		ActivityID:          activityID,
		UserID:              userID,
		CurrentParticipants: &current,
		Timestamp:           time.Now().UTC(),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event models.ActivityEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, models.EventMemberJoined, event.Type)
	assert.Equal(t, activityID, event.ActivityID)
	assert.Equal(t, userID, event.UserID)
	require.NotNil(t, event.CurrentParticipants)
	assert.Equal(t, 4, *event.CurrentParticipants)
}

func TestFeed_ClientLeaving(t *testing.T) {
	activityID := uuid.New()
	hub, server := startFeedServer(t, knownActivities{activityID: true})

	conn, _, err := gorilla.DefaultDialer.Dial(feedURL(server, activityID), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.GetClientsCount(activityID) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.GetClientsCount(activityID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeed_UnknownActivity(t *testing.T) {
	_, server := startFeedServer(t, knownActivities{})

	_, resp, err := gorilla.DefaultDialer.Dial(feedURL(server, uuid.New()), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.Publish(models.ActivityEvent{ActivityID: uuid.New()})
	}
	assert.Zero(t, hub.GetClientsCount(uuid.New()))
}
