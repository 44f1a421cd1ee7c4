package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/pkg/mailer"
)

const (
	MessageFollowed   = "followed"
	MessageUnfollowed = "unfollowed"
)

type FollowResult struct {
	Following bool   `json:"following"`
	Message   string `json:"message"`
}

// ToggleFollow flips the caller -> target edge. A new edge also records a
// follow notification in the same transaction; removing an edge never
// creates one. The call is not idempotent: retrying flips the edge again.
func (s *Service) ToggleFollow(ctx context.Context, externalID, targetID string) (FollowResult, error) {
	if externalID == "" {
		return FollowResult{}, ErrUnauthenticated
	}
	caller, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return FollowResult{}, notFound(err)
	}
	if caller.ID == targetID {
		return FollowResult{}, ErrSelfFollow
	}
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return FollowResult{}, notFound(err)
	}

	log := s.Logger.WithField("follower_id", caller.ID).WithField("followee_id", target.ID)
	defer s.invalidate(ctx, caller.ExternalID, target.ExternalID)

	if caller.IsFollowing(target.ID) {
		removed, err := s.Follows.Unfollow(ctx, caller.ID, target.ID)
		if err != nil {
			return FollowResult{}, fmt.Errorf("unfollow: %w", err)
		}
		if !removed {
			log.Debug("edge was already gone")
		}
		s.Metrics.RecordFollowToggle(MessageUnfollowed)
		return FollowResult{Following: false, Message: MessageUnfollowed}, nil
	}

	n := &entity.Notification{FromUserID: caller.ID, ToUserID: target.ID, Type: entity.NotificationFollow}
	created, err := s.Follows.Follow(ctx, caller.ID, target.ID, n)
	if err != nil {
		return FollowResult{}, notFound(err)
	}
	if created {
		s.publishFollow(ctx, caller, target, n)
	} else {
		log.Debug("edge already existed, no notification")
	}
	s.Metrics.RecordFollowToggle(MessageFollowed)
	return FollowResult{Following: true, Message: MessageFollowed}, nil
}

func displayName(u *entity.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func personOf(u *entity.User) mailer.Person {
	return mailer.Person{
		ID:             u.ID,
		Username:       u.Username,
		Name:           displayName(u),
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

// publishFollow is best effort: the edge and notification are already
// committed, so a broker failure only loses the email.
func (s *Service) publishFollow(ctx context.Context, from, to *entity.User, n *entity.Notification) {
	if s.Events == nil {
		return
	}
	job := mailer.NotificationJob{
		NotificationID: n.ID,
		Type:           string(n.Type),
		From:           personOf(from),
		To:             personOf(to),
	}
	job.From.Email = ""

	c, cancel := context.WithTimeout(ctx, s.PublishTimeout)
	defer cancel()
	if err := s.Events.PublishJSON(c, job); err != nil {
		s.Metrics.RecordNotificationPublish(false)
		s.Logger.WithError(err).WithField("notification_id", n.ID).Warn("publish follow notification failed")
		return
	}
	s.Metrics.RecordNotificationPublish(true)
}
