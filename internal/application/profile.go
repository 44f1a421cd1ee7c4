package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

// ProfilePatch lists the fields a caller may change on its own profile.
// Nil means "leave as is". Relationship data and identity fields are not
// patchable.
type ProfilePatch struct {
	Username       *string
	FirstName      *string
	LastName       *string
	ProfilePicture *string
}

func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.FirstName == nil && p.LastName == nil && p.ProfilePicture == nil
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetCurrent returns the caller's own profile. The caller must have been
// synced first; otherwise ErrUserNotFound.
func (s *Service) GetCurrent(ctx context.Context, externalID string) (*entity.User, error) {
	if externalID == "" {
		return nil, ErrUnauthenticated
	}
	cacheable := false
	var gen int64
	if s.Cache != nil {
		u, ok, err := s.Cache.Get(ctx, externalID)
		if err != nil {
			s.Logger.WithError(err).WithField("external_id", externalID).Warn("profile cache read failed")
		}
		if ok {
			return u, nil
		}
		// taken before the store read so a write in between wins
		gen, err = s.Cache.Generation(ctx, externalID)
		cacheable = err == nil
	}
	u, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, notFound(err)
	}
	if cacheable {
		if err := s.Cache.Set(ctx, u, gen); err != nil {
			s.Logger.WithError(err).WithField("external_id", externalID).Warn("profile cache write failed")
		}
	}
	return u, nil
}

func (s *Service) UpdateCurrent(ctx context.Context, externalID string, patch ProfilePatch) (*entity.User, error) {
	if externalID == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, notFound(err)
	}
	if patch.Empty() {
		return u, nil
	}
	if patch.Username != nil {
		name := strings.TrimSpace(*patch.Username)
		if name == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidPatch)
		}
		u.Username = name
	}
	if patch.FirstName != nil {
		u.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		u.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = strings.TrimSpace(*patch.ProfilePicture)
	}

	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, notFound(err)
	}
	s.invalidate(ctx, externalID)
	s.Logger.WithField("user_id", u.ID).Info("profile updated")
	return u, nil
}

// UploadAvatar stores the image under avatars/<user id>/ and points the
// profile picture at it.
func (s *Service) UploadAvatar(ctx context.Context, externalID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrStorageUnavailable
	}
	u, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, notFound(err)
	}
	ext := strings.ToLower(path.Ext(filename))
	objectPath := path.Join("avatars", u.ID, uuid.NewString()+ext)
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	u.ProfilePicture = url
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, notFound(err)
	}
	s.invalidate(ctx, externalID)
	return u, nil
}

func (s *Service) ListFollowers(ctx context.Context, username string) ([]entity.UserSummary, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.Users.ListFollowers(ctx, u.ID)
}

func (s *Service) ListFollowing(ctx context.Context, username string) ([]entity.UserSummary, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.Users.ListFollowing(ctx, u.ID)
}
