package repository

import (
	"venue-bot/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking BookingRepository
	Session SessionRepository
}

// NewRepository wires the Postgres booking store with the given session
// store. A nil session store falls back to process memory.
func NewRepository(db database.PgxIface, sessions SessionRepository, log *zap.Logger) *Repository {
	if sessions == nil {
		sessions = NewMemorySessionRepository()
	}
	return &Repository{
		Booking: NewBookingRepository(db, log),
		Session: sessions,
	}
}
