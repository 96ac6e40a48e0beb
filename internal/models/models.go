package models

import "time"

type User struct {
	ID        uint64
	Username  string
	Email     string
	PassHash  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegistrationEvent is published to the message broker after a successful
// registration.
type RegistrationEvent struct {
	UserID     uint64    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
