package users

import "time"

// Mirrors DB columns from tables:
// - users
// - deleted_users
type User struct {
	ID string `json:"id"`

	Name         string `json:"name"`
	Phone        string `json:"phone"` // +91XXXXXXXXXX
	PasswordHash string `json:"-"`

	Status *string `json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}
