package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-social-graph/config"
	"github.com/oksasatya/go-ddd-social-graph/pkg/mailer"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithActor(p mailer.Person, profileBaseURL string) Option {
	return func(d *EmailData) {
		d.ActorUsername = p.Username
		d.ActorName = strings.TrimSpace(p.Name)
		d.ActorPicture = p.ProfilePicture
		if profileBaseURL != "" {
			d.ActorURL = strings.TrimRight(profileBaseURL, "/") + "/" + p.Username
		}
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		LogoURL:        cfg.LogoURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewFollowerData builds the data for the new_follower template from a queued job.
func NewFollowerData(cfg *config.Config, job mailer.NotificationJob, opts ...Option) EmailData {
	name := job.To.Name
	if strings.TrimSpace(name) == "" {
		name = job.To.Username
	}
	opts = append([]Option{WithActor(job.From, cfg.ProfileBaseURL)}, opts...)
	return NewBaseEmailData(cfg, NewFollower, name, job.To.Email, opts...)
}
