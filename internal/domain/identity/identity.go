// Package identity describes the external identity provider this service
// delegates authentication to.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNotFound     = errors.New("identity not found")
	ErrUpstream     = errors.New("identity provider error")
)

// Attributes are the provider-side profile fields of one identity.
type Attributes struct {
	ID           string
	Username     string
	PrimaryEmail string
	Emails       []string
	FirstName    string
	LastName     string
	ImageURL     string
}

// Email returns the primary email, falling back to the first listed address.
func (a *Attributes) Email() string {
	if a.PrimaryEmail != "" {
		return a.PrimaryEmail
	}
	if len(a.Emails) > 0 {
		return a.Emails[0]
	}
	return ""
}

// Verifier turns a bearer token into the caller's provider id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Directory fetches identity attributes by provider id.
type Directory interface {
	GetUser(ctx context.Context, id string) (*Attributes, error)
}
