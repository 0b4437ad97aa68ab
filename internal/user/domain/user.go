package domain

import (
	"strings"
	"time"
)

type ID string

// User is a registered account. PasswordHash never leaves the service
// layer; see Profile for the outward shape.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is a User without credentials.
type Profile struct {
	ID        ID
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	UpdatedAt time.Time
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Username == nil && p.Email == nil
}

// NormalizeEmail is applied before every store and lookup so email
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
