package entity

import "time"

type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
)

// Notification is a social event addressed to ToUserID.
type Notification struct {
	ID         string           `json:"id"`
	FromUserID string           `json:"from"`
	ToUserID   string           `json:"to"`
	Type       NotificationType `json:"type"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
