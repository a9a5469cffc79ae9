package model

import "time"

// User represents an account as stored in the `users` table.
//
// Fields:
//  ID             – uuid primary key.
//  Username       – unique login name.
//  PasswordHash   – bcrypt hashed password.
//  ClearanceLevel – 1 (lowest) .. 5 (administrative).
//  IsActive       – deactivation replaces deletion.
//  IsAdmin        – set only on the seeded administrative account.
//  CreatedAt      – timestamp of creation.
type User struct {
	ID             string
	Username       string
	PasswordHash   string
	ClearanceLevel int
	IsActive       bool
	IsAdmin        bool
	CreatedAt      time.Time
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA‑256 hash.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Requester is the profile the clearance policy and the chat engine see.
// Privileged selects the alternate persona reserved for the administrative
// identity; it changes wording only, never access.
type Requester struct {
	UserID         string
	DisplayName    string
	ClearanceLevel int
	Privileged     bool
}

// GuestName is the display name used for anonymous callers.
const GuestName = "Гость"

// GuestRequester is the profile substituted when no user is authenticated.
func GuestRequester() Requester {
	return Requester{DisplayName: GuestName, ClearanceLevel: 1}
}

// IsGuest reports whether r has no backing account.
func (r Requester) IsGuest() bool { return r.UserID == "" }
