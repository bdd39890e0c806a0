package auth

import "time"

// User represents an account record.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// NewUser carries the fields required to create an account.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	// Role is granted to the account in the same transaction.
	Role string
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8
