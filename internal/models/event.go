package models

import "time"

// Event types published after a successful user operation.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventUserUpdated    = "user.updated"
)

// UserEvent is the message body published to the user events queue.
type UserEvent struct {
	Type       string     `json:"type"`
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username"`
	Status     UserStatus `json:"status"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewUserEvent creates a new UserEvent describing user.
func NewUserEvent(eventType string, user *User, at time.Time) UserEvent {
	return UserEvent{
		Type:       eventType,
		UserID:     user.ID,
		Username:   user.Username,
		Status:     user.Status,
		OccurredAt: at,
	}
}
