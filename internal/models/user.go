package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account behind the API's login boundary. Tallybook is a
// single-user ledger; User exists so the server can require a token, not to
// model multiple ledgers.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	Email       string `json:"email"`
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
