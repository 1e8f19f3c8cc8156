package model

import "time"

// NotificationType controls how a notification is presented.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is an alert addressed to a single user.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`

	// Read indicates whether the recipient has seen this notification.
	Read bool `json:"read"`

	// UserID is the recipient.
	UserID string `json:"userId"`

	// ActionURL optionally points the recipient at the related task.
	ActionURL string `json:"actionUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
