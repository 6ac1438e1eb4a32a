// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// AuthEvent is published after a successful register, login or logout. It
// carries enough for downstream consumers to audit or notify without
// querying the primary database.
type AuthEvent struct {
	Kind        string `json:"kind"`   // rider | driver
	Action      string `json:"action"` // registered | logged_in | logged_out
	PrincipalID uint64 `json:"principal_id"`
	Email       string `json:"email"`
	At          string `json:"at"` // RFC3339 UTC
}

// Actions published on the auth.events queue.
const (
	ActionRegistered = "registered"
	ActionLoggedIn   = "logged_in"
	ActionLoggedOut  = "logged_out"
)
