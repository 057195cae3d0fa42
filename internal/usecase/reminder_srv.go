package usecase

import (
	"context"
	"errors"
	"fmt"

	"venue-bot/internal/data/entity"
	"venue-bot/internal/data/repository"
	"venue-bot/pkg/utils"

	"github.com/bytedance/sonic"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingReminder = "booking:reminder"

// Enqueuer is the part of *asynq.Client the reminders need.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type reminderPayload struct {
	BookingID int64 `json:"booking_id"`
}

type ReminderService interface {
	// Schedule queues the reminder for a new booking. It is a no-op when
	// reminders are off or the booking has no guest to write to.
	Schedule(ctx context.Context, booking *entity.Booking) error
	// Remind sends the reminder for one booking and marks it sent.
	Remind(ctx context.Context, bookingID int64) error
	// HandleTask is the asynq handler for TypeBookingReminder.
	HandleTask(ctx context.Context, task *asynq.Task) error
}

type reminderService struct {
	repo   repository.BookingRepository
	guest  GuestMessenger
	queue  Enqueuer
	config utils.ReminderConfig
	log    *zap.Logger
}

func NewReminderService(repo repository.BookingRepository, guest GuestMessenger, queue Enqueuer, config utils.ReminderConfig, log *zap.Logger) ReminderService {
	return &reminderService{
		repo:   repo,
		guest:  guest,
		queue:  queue,
		config: config,
		log:    log.With(zap.String("service", "reminder")),
	}
}

func NewReminderTask(bookingID int64) (*asynq.Task, error) {
	b, err := sonic.Marshal(reminderPayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingReminder, b), nil
}

func reminderTaskID(bookingID int64) string {
	return fmt.Sprintf("reminder-%d", bookingID)
}

func (s *reminderService) Schedule(ctx context.Context, booking *entity.Booking) error {
	if !s.config.Enabled || s.queue == nil || booking.TgUserID == nil {
		return nil
	}

	task, err := NewReminderTask(booking.ID)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}

	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.TaskID(reminderTaskID(booking.ID)),
		asynq.ProcessIn(s.config.Delay),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue reminder for booking %d: %w", booking.ID, err)
	}

	s.log.Info("Reminder scheduled",
		zap.Int64("booking_id", booking.ID),
		zap.String("task_id", info.ID),
		zap.Time("process_at", info.NextProcessAt),
	)
	return nil
}

func (s *reminderService) HandleTask(ctx context.Context, task *asynq.Task) error {
	var p reminderPayload
	if err := sonic.Unmarshal(task.Payload(), &p); err != nil {
		s.log.Error("Invalid reminder payload", zap.Error(err))
		return fmt.Errorf("decode reminder payload: %w: %w", err, asynq.SkipRetry)
	}
	return s.Remind(ctx, p.BookingID)
}

func (s *reminderService) Remind(ctx context.Context, bookingID int64) error {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("load booking %d: %w", bookingID, err)
	}
	if booking == nil {
		s.log.Warn("Reminder for missing booking", zap.Int64("booking_id", bookingID))
		return nil
	}
	if !booking.Pending() || booking.TgUserID == nil {
		s.log.Debug("Reminder skipped",
			zap.Int64("booking_id", bookingID),
			zap.Bool("canceled", booking.Canceled),
			zap.Bool("reminder_sent", booking.ReminderSent),
		)
		return nil
	}

	if err := s.guest.SendReminder(ctx, *booking.TgUserID, booking.ID, reminderText(booking)); err != nil {
		return fmt.Errorf("send reminder for booking %d: %w", bookingID, err)
	}

	// the guest already has the message; a retry would send it twice
	if err := s.repo.MarkReminderSent(ctx, bookingID); err != nil {
		return fmt.Errorf("mark reminder sent %d: %w: %w", bookingID, err, asynq.SkipRetry)
	}

	s.log.Info("Reminder sent", zap.Int64("booking_id", bookingID))
	return nil
}
