package usecase

import (
	"context"

	"venue-bot/internal/conversation"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/notify"
	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

// Replier answers in the chat the current update came from.
type Replier interface {
	Reply(ctx context.Context, text string, keyboard conversation.Keyboard) error
}

// GuestMessenger writes to a guest's private chat.
type GuestMessenger interface {
	notify.ChatSender
	SendReminder(ctx context.Context, chatID, bookingID int64, text string) error
}

type Service struct {
	Booking      BookingService
	Conversation ConversationService
	Order        OrderService
	Reminder     ReminderService
	Notify       NotifyService
}

// NewService wires the use cases. queue may be nil, which disables reminders.
func NewService(repo *repository.Repository, notifier notify.Broadcaster, guest GuestMessenger, queue Enqueuer, config *utils.Config, log *zap.Logger) *Service {
	reminder := NewReminderService(repo.Booking, guest, queue, config.Reminder, log)
	booking := NewBookingService(repo.Booking, notifier, log)

	return &Service{
		Booking:      booking,
		Conversation: NewConversationService(repo.Session, booking, reminder, notifier, log),
		Order:        NewOrderService(notifier, guest, config.Notify, log),
		Reminder:     reminder,
		Notify:       NewNotifyService(notifier, config.Notify, log),
	}
}
