// internal/models/user.go
package models

import (
	"context"
	"time"
)

// User is a registered platform member.
type User struct {
	ID        string    `json:"user_id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Skills    []string  `json:"skills" db:"skills"`
	Bio       string    `json:"bio" db:"bio"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileData is the profile payload extracted from a chat message or
// submitted to sign-up/update-profile. Nil pointers mean "not provided".
type ProfileData struct {
	Name   *string  `json:"name"`
	Email  *string  `json:"email"`
	Phone  *string  `json:"phone"`
	Skills []string `json:"skills"`
	Bio    *string  `json:"bio"`
}

// UserRepository defines user data access
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*User, error)
}
