package entity

import "time"

type Booking struct {
	ID         int64   `db:"id"`
	TgUserID   *int64  `db:"tg_user_id"`
	TgUsername *string `db:"tg_username"`
	Date       string  `db:"date" validate:"required"`
	Time       string  `db:"time" validate:"required"`
	Guests     int     `db:"guests" validate:"min=1,max=50"`
	Name       string  `db:"name" validate:"required"`
	Phone      string  `db:"phone" validate:"required"`
	Comment    string  `db:"comment"`
	Lifecycle
	CreatedAt time.Time `db:"created_at"`
}

// Pending reports whether the booking still waits for a reminder.
func (b *Booking) Pending() bool {
	return !b.Canceled && !b.ReminderSent
}

// OwnedBy reports whether userID submitted the booking.
func (b *Booking) OwnedBy(userID int64) bool {
	return b.TgUserID != nil && *b.TgUserID == userID
}
