package usecase

import (
	"context"
	"errors"
	"strconv"

	"venue-bot/internal/conversation"
	"venue-bot/internal/dto/request"
	"venue-bot/internal/notify"
	"venue-bot/internal/order"
	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

type IngestStatus int

const (
	IngestMalformed IngestStatus = iota + 1
	IngestNotPreorder
	IngestDelivered
	IngestUndelivered
)

func (s IngestStatus) String() string {
	switch s {
	case IngestMalformed:
		return "malformed"
	case IngestNotPreorder:
		return "not_preorder"
	case IngestDelivered:
		return "delivered"
	case IngestUndelivered:
		return "undelivered"
	default:
		return "unknown"
	}
}

// Source is the chat a payload arrived in.
type Source struct {
	ChatID   int64
	ChatType string
}

// Shared reports whether the chat is a group or a channel.
func (s Source) Shared() bool {
	switch s.ChatType {
	case "group", "supergroup", "channel":
		return true
	default:
		return false
	}
}

type IngestResult struct {
	Status    IngestStatus
	Broadcast notify.Result
}

type OrderService interface {
	// Ingest never fails: every outcome is reported to the submitter
	// through replier and in the result.
	Ingest(ctx context.Context, sub request.Submitter, src Source, raw string, replier Replier) IngestResult
}

type orderService struct {
	notifier notify.Broadcaster
	dm       notify.ChatSender
	config   utils.NotifyConfig
	log      *zap.Logger
}

func NewOrderService(notifier notify.Broadcaster, dm notify.ChatSender, config utils.NotifyConfig, log *zap.Logger) OrderService {
	return &orderService{
		notifier: notifier,
		dm:       dm,
		config:   config,
		log:      log.With(zap.String("service", "order")),
	}
}

func (s *orderService) Ingest(ctx context.Context, sub request.Submitter, src Source, raw string, replier Replier) IngestResult {
	s.log.Info("Web app data received",
		zap.Int64("chat_id", src.ChatID),
		zap.String("payload", utils.Excerpt(raw, 1000)),
	)

	preorder, err := order.Parse(raw)
	switch {
	case errors.Is(err, order.ErrMalformed):
		s.log.Warn("Order payload unreadable", zap.Error(err))
		s.reply(ctx, replier, OrderMalformedText)
		return IngestResult{Status: IngestMalformed}
	case errors.Is(err, order.ErrNotPreorder):
		s.log.Info("Order payload is not a preorder", zap.Error(err))
		s.reply(ctx, replier, OrderNotPreorderText)
		return IngestResult{Status: IngestNotPreorder}
	}

	var extra []string
	if s.config.EchoSourceChat && src.Shared() {
		extra = append(extra, strconv.FormatInt(src.ChatID, 10))
	}

	result := s.notifier.Broadcast(ctx, preorder.Render(sub.DisplayName()), extra...)
	s.log.Info("Preorder notify sent",
		zap.Int("delivered", result.Delivered),
		zap.Int("attempted", result.Attempted),
	)

	if !result.OK() {
		text := OrderUndeliveredText
		if summary := result.Summary(s.config.ErrorExcerptLen); summary != "" {
			text += "\n\n" + summary
		}
		s.reply(ctx, replier, text)
		return IngestResult{Status: IngestUndelivered, Broadcast: result}
	}

	s.reply(ctx, replier, OrderAcceptedText)
	s.acknowledgePrivately(ctx, sub, src)

	return IngestResult{Status: IngestDelivered, Broadcast: result}
}

// acknowledgePrivately is best-effort: the guest may never have opened a
// private chat with the bot.
func (s *orderService) acknowledgePrivately(ctx context.Context, sub request.Submitter, src Source) {
	if sub.ID == 0 || sub.ID == src.ChatID {
		return
	}
	if err := s.dm.SendMessage(ctx, sub.ID, OrderDMText); err != nil {
		s.log.Info("Private order acknowledgment not delivered",
			zap.Error(err),
			zap.Int64("user_id", sub.ID),
		)
	}
}

func (s *orderService) reply(ctx context.Context, replier Replier, text string) {
	if err := replier.Reply(ctx, text, conversation.KeyboardNone); err != nil {
		s.log.Warn("Failed to send reply", zap.Error(err))
	}
}
