// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the audit consumer.
package queue

import "time"

// Event types carried in AuthEvent.Type.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

// AuthEvent is published after a successful registration or login.  It
// never carries a password or a password hash.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
