package entity

import (
	"time"
)

// User is the aggregate root for the social graph.
// ExternalID links the account to the identity provider and never changes.
// Following and Followers are read projections of the follows table.
type User struct {
	ID             string    `json:"id"`
	ExternalID     string    `json:"external_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePicture string    `json:"profile_picture"`
	Following      []string  `json:"following"`
	Followers      []string  `json:"followers"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsFollowing reports whether u follows the user with the given local id.
func (u *User) IsFollowing(id string) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// PublicUser is the profile as other users see it. Email and the identity
// provider id stay private to the owner.
type PublicUser struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePicture string    `json:"profile_picture"`
	Following      []string  `json:"following"`
	Followers      []string  `json:"followers"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Following:      u.Following,
		Followers:      u.Followers,
		CreatedAt:      u.CreatedAt,
	}
}

// UserSummary is the compact form used in follower/following listings.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture"`
}
