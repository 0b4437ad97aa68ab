package dto

import "time"

// User is the outward profile shape. It has no credential fields.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
