package response

import (
	"time"

	"venue-bot/internal/data/entity"
)

type BookingResponse struct {
	ID             int64      `json:"id"`
	TgUserID       *int64     `json:"tg_user_id,omitempty"`
	TgUsername     *string    `json:"tg_username,omitempty"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Guests         int        `json:"guests"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Comment        string     `json:"comment,omitempty"`
	ReminderSent   bool       `json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	Canceled       bool       `json:"canceled"`
	CanceledAt     *time.Time `json:"canceled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		TgUserID:       b.TgUserID,
		TgUsername:     b.TgUsername,
		Date:           b.Date,
		Time:           b.Time,
		Guests:         b.Guests,
		Name:           b.Name,
		Phone:          b.Phone,
		Comment:        b.Comment,
		ReminderSent:   b.ReminderSent,
		ReminderSentAt: b.ReminderSentAt,
		Canceled:       b.Canceled,
		CanceledAt:     b.CanceledAt,
		CreatedAt:      b.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}

type BroadcastResponse struct {
	Attempted int      `json:"attempted"`
	Delivered int      `json:"delivered"`
	Errors    []string `json:"errors,omitempty"`
}
