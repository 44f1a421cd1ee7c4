package application

import "errors"

var (
	ErrUnauthenticated           = errors.New("unauthenticated")
	ErrUserNotFound              = errors.New("user not found")
	ErrSelfFollow                = errors.New("you cannot follow yourself")
	ErrInvalidPatch              = errors.New("invalid profile update")
	ErrUsernameTaken             = errors.New("username already taken")
	ErrIdentityNotFound          = errors.New("identity provider has no record for this user")
	ErrUpstreamIdentity          = errors.New("identity provider unavailable")
	ErrInvalidIdentityAttributes = errors.New("identity has neither username nor email")
	ErrDuplicateUser             = errors.New("user already exists")
	ErrNotificationNotFound      = errors.New("notification not found")
	ErrStorageUnavailable        = errors.New("avatar storage not configured")
)
