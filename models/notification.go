package models

import "time"

const (
	NotificationWarning = "warning"
	NotificationInfo    = "info"
	NotificationSuccess = "success"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Unread    bool      `json:"unread"`
	CreatedAt time.Time `json:"created_at"`
}
