package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	UserID       int64     `json:"id" db:"user_id"`                 // Surrogate primary key
	Username     string    `json:"username" db:"username"`          // Unique username, exact-match semantics
	PasswordHash string    `json:"-" db:"password_hash"`            // bcrypt hash, raw password never stored
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`          // Role flag for the admin surface
	CreatedAt    time.Time `json:"created_at" db:"created_at"`      // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`      // Last update timestamp
}
