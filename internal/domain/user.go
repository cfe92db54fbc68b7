package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Accounts start inactive and
// unverified; exchanging the email verification token sets IsVerified and
// activates the account.
type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       *string
	IsActive       bool
	IsSuperuser    bool
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role returns the role string embedded in access tokens.
func (u *User) Role() string {
	if u.IsSuperuser {
		return "superuser"
	}
	return "user"
}

// RefreshToken represents a hashed refresh token stored in the database.
// Only the SHA-256 hash is persisted; the raw token lives on the client.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
