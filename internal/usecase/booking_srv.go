package usecase

import (
	"context"
	"errors"
	"fmt"

	"venue-bot/internal/conversation"
	"venue-bot/internal/data/entity"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/dto/request"
	"venue-bot/internal/dto/response"
	"venue-bot/internal/notify"
	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

const (
	canceledByGuest    = "гостем"
	canceledByOperator = "администратором"
)

type BookingService interface {
	// Create writes the completed dialogue as one row.
	Create(ctx context.Context, sub request.Submitter, draft conversation.Draft) (*entity.Booking, error)

	// Operator endpoints
	GetByID(ctx context.Context, id int64) (*response.BookingResponse, error)
	ListPending(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Cancel marks the booking canceled and tells the staff. A non-nil
	// userID restricts it to the guest who made the booking.
	Cancel(ctx context.Context, id int64, userID *int64) (*entity.Booking, error)
}

type bookingService struct {
	repo     repository.BookingRepository
	notifier notify.Broadcaster
	log      *zap.Logger
}

func NewBookingService(repo repository.BookingRepository, notifier notify.Broadcaster, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Create(ctx context.Context, sub request.Submitter, draft conversation.Draft) (*entity.Booking, error) {
	booking := &entity.Booking{
		TgUserID:   sub.UserID(),
		TgUsername: sub.UsernamePtr(),
		Date:       draft.Date,
		Time:       draft.Time,
		Guests:     draft.Guests,
		Name:       draft.Name,
		Phone:      draft.Phone,
		Comment:    draft.Comment,
	}

	if errs := utils.ValidateStruct(booking); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidBooking, utils.FormatValidationErrors(errs))
	}

	if _, err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64p("tg_user_id", booking.TgUserID),
		zap.Int("guests", booking.Guests),
	)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id int64) (*response.BookingResponse, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListPending(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	total, err := s.repo.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}

	bookings, err := s.repo.FindPending(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) Cancel(ctx context.Context, id int64, userID *int64) (*entity.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	by := canceledByOperator
	if userID != nil {
		if !booking.OwnedBy(*userID) {
			s.log.Warn("Cancel attempt by another user",
				zap.Int64("booking_id", id),
				zap.Int64("user_id", *userID),
			)
			return nil, ErrNotBookingOwner
		}
		by = canceledByGuest
	}
	if booking.Canceled {
		return booking, ErrAlreadyCanceled
	}

	if err := s.repo.MarkCanceled(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("cancel booking %d: %w", id, err)
	}
	booking.Canceled = true

	result := s.notifier.Broadcast(ctx, cancelNotice(booking, by))
	s.log.Info("Booking canceled",
		zap.Int64("booking_id", id),
		zap.String("by", by),
		zap.Int("notified", result.Delivered),
	)

	return booking, nil
}
