package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Image     *string   `json:"image,omitempty" db:"image"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	Location  *string   `json:"location,omitempty" db:"location"`
	Interests []string  `json:"interests" db:"interests"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsNewUser reports whether the user has not filled in any profile details yet
func (u *User) IsNewUser() bool {
	return (u.Bio == nil || *u.Bio == "") &&
		(u.Location == nil || *u.Location == "") &&
		len(u.Interests) == 0
}

// Summary returns the denormalised view of the user
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Image: u.Image}
}

// UserSummary is the denormalised view of a user embedded in other entities
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

// Account links a user to an external identity provider
type Account struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"userId" db:"user_id"`
	Provider          string    `json:"provider" db:"provider"`
	ProviderAccountID string    `json:"providerAccountId" db:"provider_account_id"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}
