package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Language     string    `json:"language"`
	IsAdmin      bool      `json:"is_admin"`
	IsAuthorized bool      `json:"is_authorized"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns the best available human-readable name,
// mirroring how the bot presents contributors in chat.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown"
}
