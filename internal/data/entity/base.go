package entity

import "time"

// Lifecycle holds collaborator-owned flags; the conversation never writes them.
type Lifecycle struct {
	ReminderSent   bool       `db:"reminder_sent"`
	ReminderSentAt *time.Time `db:"reminder_sent_at"`
	Canceled       bool       `db:"canceled"`
	CanceledAt     *time.Time `db:"canceled_at"`
}
