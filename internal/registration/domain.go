package registration

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a registered user.
type Status string

const (
	// StatusPending marks an account awaiting email activation.
	StatusPending Status = "pending"
	// StatusActive marks an account whose email has been proven.
	StatusActive Status = "active"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account has been activated.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Activate performs the single pending->active transition.
func (u *User) Activate(now time.Time) {
	u.Status = StatusActive
	u.UpdatedAt = now
}

// ActivationCode is the one-time secret proving control of an email address.
type ActivationCode struct {
	UserID    uuid.UUID
	Code      string
	CreatedAt time.Time
}

// Expired reports whether the code is older than the configured TTL.
func (c ActivationCode) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CreatedAt) > ttl
}
