package usecase

import (
	"context"

	"venue-bot/internal/notify"
	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

type NotifyService interface {
	// Test sends the diagnostic message to every destination.
	Test(ctx context.Context, text string, extra ...string) notify.Result
	// Report renders a result the way operators see it.
	Report(result notify.Result) string
}

type notifyService struct {
	notifier notify.Broadcaster
	config   utils.NotifyConfig
	log      *zap.Logger
}

func NewNotifyService(notifier notify.Broadcaster, config utils.NotifyConfig, log *zap.Logger) NotifyService {
	return &notifyService{
		notifier: notifier,
		config:   config,
		log:      log.With(zap.String("service", "notify_test")),
	}
}

func (s *notifyService) Test(ctx context.Context, text string, extra ...string) notify.Result {
	if text == "" {
		text = TestNotifyText
	}
	result := s.notifier.Broadcast(ctx, text, extra...)
	s.log.Info("Test notify sent",
		zap.Int("delivered", result.Delivered),
		zap.Int("attempted", result.Attempted),
	)
	return result
}

func (s *notifyService) Report(result notify.Result) string {
	return TestNotifyReport(result.Delivered, result.Attempted, result.Summary(s.config.ErrorExcerptLen))
}
