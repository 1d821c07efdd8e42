// Package event holds the payloads modules publish to the message broker.
package event

import "time"

const (
	IdentityUserCreatedTopic    string = "identity.user_created"
	IdentityUserFirstLoginTopic string = "identity.user_first_login"
)

// IdentityUserCreatedMessage is published when a phone requests its first code.
type IdentityUserCreatedMessage struct {
	UserID      int64     `json:"user_id,string"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdentityUserFirstLoginMessage is published on the first successful verification.
type IdentityUserFirstLoginMessage struct {
	UserID      int64     `json:"user_id,string"`
	PhoneNumber string    `json:"phone_number"`
	LoginAt     time.Time `json:"login_at"`
}
