package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationChannel string

const (
	NotifyEmail NotificationChannel = "email"
	NotifySMS   NotificationChannel = "sms"
)

type NotificationStatus string

const (
	NotifyPending NotificationStatus = "pending"
	NotifySent    NotificationStatus = "sent"
	NotifyFailed  NotificationStatus = "failed"
	NotifyDead    NotificationStatus = "dead"
)

// Notification is an outbox row. Rows are written before dispatch so a crash
// between enqueue and send loses nothing; the cron sweeper re-feeds due rows.
type Notification struct {
	gorm.Model
	Channel       NotificationChannel `json:"channel"`
	Recipient     string              `json:"recipient"`
	Subject       string              `json:"subject"`
	Body          string              `json:"body"`
	Status        NotificationStatus  `json:"status" gorm:"index"`
	Attempts      int                 `json:"attempts"`
	LastError     string              `json:"last_error"`
	NextAttemptAt time.Time           `json:"next_attempt_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.Status == "" {
		n.Status = NotifyPending
	}
	if n.NextAttemptAt.IsZero() {
		n.NextAttemptAt = time.Now()
	}
	return nil
}
