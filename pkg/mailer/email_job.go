package mailer

// EmailJob is a rendered email ready for Mailgun.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// Person is the slice of a user profile a notification email needs.
type Person struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// NotificationJob is the JSON payload put on the RabbitMQ queue after a
// notification row is committed. Type mirrors entity.NotificationType.
type NotificationJob struct {
	NotificationID string `json:"notification_id"`
	Type           string `json:"type"`
	From           Person `json:"from"`
	To             Person `json:"to"`
}
