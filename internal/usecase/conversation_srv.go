package usecase

import (
	"context"
	"fmt"

	"venue-bot/internal/conversation"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/dto/request"
	"venue-bot/internal/notify"

	"go.uber.org/zap"
)

// Outcome tells the caller what happened to one input.
type Outcome struct {
	// Handled is false for plain text outside a dialogue.
	Handled bool
	// ShowHome asks the caller to render the home surface.
	ShowHome  bool
	BookingID int64
	Broadcast *notify.Result
}

type ConversationService interface {
	// Handle feeds one input to the session of (sub, chatID) and carries
	// out the resulting effects. Replies go through replier in order.
	Handle(ctx context.Context, sub request.Submitter, chatID int64, in conversation.Input, replier Replier) (*Outcome, error)
}

type conversationService struct {
	sessions  repository.SessionRepository
	bookings  BookingService
	reminders ReminderService
	notifier  notify.Broadcaster
	log       *zap.Logger
}

func NewConversationService(sessions repository.SessionRepository, bookings BookingService, reminders ReminderService, notifier notify.Broadcaster, log *zap.Logger) ConversationService {
	return &conversationService{
		sessions:  sessions,
		bookings:  bookings,
		reminders: reminders,
		notifier:  notifier,
		log:       log.With(zap.String("service", "conversation")),
	}
}

func (s *conversationService) Handle(ctx context.Context, sub request.Submitter, chatID int64, in conversation.Input, replier Replier) (*Outcome, error) {
	key := conversation.Key{UserID: sub.ID, ChatID: chatID}

	current, err := s.sessions.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", key, err)
	}
	if in.Kind == conversation.InputText && !current.Active() {
		return &Outcome{}, nil
	}

	next, effects := conversation.Step(current, in)

	// stored before effects run: a failed booking write leaves the user idle
	if err := s.sessions.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save session %s: %w", key, err)
	}
	if current.State != next.State {
		s.log.Debug("Session moved",
			zap.String("session", key.String()),
			zap.Stringer("from", current.State),
			zap.Stringer("to", next.State),
		)
	}

	out := &Outcome{Handled: true}
	for _, effect := range effects {
		switch e := effect.(type) {
		case conversation.Reply:
			s.reply(ctx, replier, e.Text, e.Keyboard)
		case conversation.ShowHome:
			out.ShowHome = true
		case conversation.Complete:
			if err := s.complete(ctx, sub, e.Draft, replier, out); err != nil {
				return out, err
			}
		}
	}

	return out, nil
}

func (s *conversationService) complete(ctx context.Context, sub request.Submitter, draft conversation.Draft, replier Replier, out *Outcome) error {
	booking, err := s.bookings.Create(ctx, sub, draft)
	if err != nil {
		s.log.Error("Failed to store booking",
			zap.Error(err),
			zap.Int64("user_id", sub.ID),
		)
		s.reply(ctx, replier, SaveFailedText, conversation.KeyboardBackHome)
		return fmt.Errorf("%w: %w", ErrBookingNotSaved, err)
	}
	out.BookingID = booking.ID

	s.reply(ctx, replier, conversation.Confirmation(booking.ID), conversation.KeyboardBackHome)

	result := s.notifier.Broadcast(ctx, conversation.StaffSummary(booking.ID, sub.DisplayName(), draft))
	out.Broadcast = &result
	s.log.Info("Booking notify sent",
		zap.Int64("booking_id", booking.ID),
		zap.Int("delivered", result.Delivered),
		zap.Int("attempted", result.Attempted),
	)

	if err := s.reminders.Schedule(ctx, booking); err != nil {
		s.log.Warn("Failed to schedule reminder", zap.Error(err), zap.Int64("booking_id", booking.ID))
	}

	return nil
}

func (s *conversationService) reply(ctx context.Context, replier Replier, text string, keyboard conversation.Keyboard) {
	if err := replier.Reply(ctx, text, keyboard); err != nil {
		s.log.Warn("Failed to send reply", zap.Error(err))
	}
}
