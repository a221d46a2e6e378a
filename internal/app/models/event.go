package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEventType names a change broadcast on an activity's live feed
type ActivityEventType string

const (
	EventMemberJoined   ActivityEventType = "activity.member.joined"
	EventMemberLeft     ActivityEventType = "activity.member.left"
	EventCommentCreated ActivityEventType = "activity.comment.created"
)

// ActivityEvent is published after a committed change to an activity
type ActivityEvent struct {
	Type                ActivityEventType `json:"type"`
	ActivityID          uuid.UUID         `json:"activityId"`
	UserID              uuid.UUID         `json:"userId"`
	CurrentParticipants *int              `json:"currentParticipants,omitempty"`
	CommentID           *uuid.UUID        `json:"commentId,omitempty"`
	Timestamp           time.Time         `json:"timestamp"`
}
