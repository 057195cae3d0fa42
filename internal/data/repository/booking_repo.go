package repository

import (
	"context"
	"errors"
	"fmt"

	"venue-bot/internal/data/entity"
	"venue-bot/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) (int64, error)
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindPending(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	CountPending(ctx context.Context) (int64, error)

	// Lifecycle updates, owned by the reminder worker and the cancel flows
	MarkReminderSent(ctx context.Context, id int64) error
	MarkCanceled(ctx context.Context, id int64) error
}

const bookingColumns = `id, tg_user_id, tg_username, date, time, guests, name, phone, comment,
		       reminder_sent, reminder_sent_at, canceled, canceled_at, created_at`

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (int64, error) {
	query := `
		INSERT INTO bookings (tg_user_id, tg_username, date, time, guests, name, phone, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		booking.TgUserID,
		booking.TgUsername,
		booking.Date,
		booking.Time,
		booking.Guests,
		booking.Name,
		booking.Phone,
		booking.Comment,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int64p("tg_user_id", booking.TgUserID),
		)
		return 0, fmt.Errorf("create booking: %w", err)
	}

	return booking.ID, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindPending(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE NOT canceled AND NOT reminder_sent
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find pending bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find pending bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking", zap.Error(err))
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountPending(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE NOT canceled AND NOT reminder_sent`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count pending bookings", zap.Error(err))
		return 0, fmt.Errorf("count pending bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, id int64) error {
	query := `
		UPDATE bookings
		SET reminder_sent = TRUE, reminder_sent_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark reminder sent",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return fmt.Errorf("mark reminder sent %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) MarkCanceled(ctx context.Context, id int64) error {
	query := `
		UPDATE bookings
		SET canceled = TRUE, canceled_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark booking canceled",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return fmt.Errorf("mark booking canceled %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TgUserID,
		&booking.TgUsername,
		&booking.Date,
		&booking.Time,
		&booking.Guests,
		&booking.Name,
		&booking.Phone,
		&booking.Comment,
		&booking.ReminderSent,
		&booking.ReminderSentAt,
		&booking.Canceled,
		&booking.CanceledAt,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
