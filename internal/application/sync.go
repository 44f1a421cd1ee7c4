package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	repo "github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

// Sync makes sure a local user exists for the caller, creating it from the
// identity provider's attributes on first sight. created reports whether
// this call inserted the row. Calling it again for the same caller is a
// read.
func (s *Service) Sync(ctx context.Context, externalID string) (*entity.User, bool, error) {
	if externalID == "" {
		return nil, false, ErrUnauthenticated
	}
	log := s.Logger.WithField("external_id", externalID)

	existing, err := s.Users.GetByExternalID(ctx, externalID)
	if err == nil {
		log.Debug("user already synced")
		s.Metrics.RecordSync(false)
		return existing, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	attrs, err := s.Directory.GetUser(ctx, externalID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			log.Error("identity provider has no record for verified caller")
			return nil, false, fmt.Errorf("%w: %w", ErrIdentityNotFound, err)
		}
		return nil, false, fmt.Errorf("%w: %w", ErrUpstreamIdentity, err)
	}

	username, err := DeriveUsername(attrs)
	if err != nil {
		return nil, false, err
	}

	u := &entity.User{
		ExternalID:     externalID,
		Username:       username,
		Email:          attrs.Email(),
		FirstName:      attrs.FirstName,
		LastName:       attrs.LastName,
		ProfilePicture: attrs.ImageURL,
	}
	if err := s.create(ctx, u); err != nil {
		return nil, false, err
	}

	log.WithField("user_id", u.ID).WithField("username", u.Username).Info("user created from identity provider")
	s.Metrics.RecordSync(true)
	return u, true, nil
}

// usernameAttempts bounds the suffixed retries after the derived username
// turned out to belong to another identity.
const usernameAttempts = 3

// create inserts u. A unique violation is either a concurrent sync of the
// same caller, reported as ErrDuplicateUser, or a username owned by someone
// else, in which case a suffixed username is tried instead.
func (s *Service) create(ctx context.Context, u *entity.User) error {
	base := u.Username
	log := s.Logger.WithField("external_id", u.ExternalID)
	for attempt := 0; ; attempt++ {
		err := s.Users.Create(ctx, u)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("create user: %w", err)
		}
		if _, lookupErr := s.Users.GetByExternalID(ctx, u.ExternalID); lookupErr == nil {
			log.Warn("sync lost a creation race for the same identity")
			return fmt.Errorf("%w: %w", ErrDuplicateUser, err)
		}
		if attempt == usernameAttempts {
			return fmt.Errorf("%w: no free username derived from %q", ErrUsernameTaken, base)
		}
		log.WithField("username", u.Username).Info("derived username taken, trying a suffixed one")
		u.Username = suffixedUsername(base)
	}
}

func suffixedUsername(base string) string {
	const maxBase = 23 // leaves room for "_" and six hex digits within 30
	if len(base) > maxBase {
		base = base[:maxBase]
	}
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// DeriveUsername prefers the provider username and falls back to the local
// part of the email address.
func DeriveUsername(attrs *identity.Attributes) (string, error) {
	if u := strings.TrimSpace(attrs.Username); u != "" {
		return u, nil
	}
	local, _, _ := strings.Cut(attrs.Email(), "@")
	if local = strings.TrimSpace(local); local != "" {
		return local, nil
	}
	return "", ErrInvalidIdentityAttributes
}
