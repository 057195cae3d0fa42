package adaptor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"venue-bot/internal/conversation"
	"venue-bot/internal/dto/request"
	"venue-bot/internal/usecase"
	"venue-bot/pkg/utils"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	ApologyText         = "😔 Что-то пошло не так. Попробуй ещё раз чуть позже."
	BookingGoneText     = "Эта бронь не найдена."
	BookingCanceledText = "Эта бронь уже отменена."
)

// BotHandler routes Telegram updates to the use cases.
type BotHandler struct {
	service *usecase.Service
	bot     Messenger
	home    *HomeScreen
	log     *zap.Logger
}

func NewBotHandler(service *usecase.Service, bot Messenger, home *HomeScreen, log *zap.Logger) *BotHandler {
	return &BotHandler{
		service: service,
		bot:     bot,
		home:    home,
		log:     log.With(zap.String("handler", "bot")),
	}
}

// HandleUpdate is the last line of defence: panics and unexpected errors
// are logged and answered with one apology.
func (h *BotHandler) HandleUpdate(ctx context.Context, update *models.Update) {
	ctx, traceID := utils.WithTraceID(ctx)
	log := h.log.With(zap.String("trace_id", traceID), zap.Int64("update_id", update.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Update handler panicked",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			h.apologize(ctx, update, log)
		}
	}()

	err := h.route(ctx, update)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrBookingNotSaved):
		// the user already got the save failure message
		log.Error("Booking not saved", zap.Error(err))
	default:
		log.Error("Failed to handle update", zap.Error(err), zap.Stack("stack"))
		h.apologize(ctx, update, log)
	}
}

func (h *BotHandler) route(ctx context.Context, update *models.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return h.handleMessage(ctx, update.Message)
	case update.ChannelPost != nil:
		return h.handleChannelPost(ctx, update.ChannelPost)
	default:
		return nil
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *models.Message) error {
	chatID := msg.Chat.ID
	sub := submitter(msg.From)
	replier := chatReplier{bot: h.bot, chatID: chatID}

	if msg.WebAppData != nil {
		src := usecase.Source{ChatID: chatID, ChatType: string(msg.Chat.Type)}
		result := h.service.Order.Ingest(ctx, sub, src, msg.WebAppData.Data, replier)
		h.log.Debug("Order ingested",
			zap.Stringer("status", result.Status),
			zap.Int64("chat_id", chatID),
		)
		return nil
	}

	if name, ok := command(msg.Text, h.bot.Username()); ok {
		return h.handleCommand(ctx, name, chatID, sub, replier)
	}
	if msg.Text == "" {
		return nil
	}

	out, err := h.service.Conversation.Handle(ctx, sub, chatID, conversation.Text(msg.Text), replier)
	return h.finish(ctx, chatID, out, err)
}

func (h *BotHandler) handleCommand(ctx context.Context, name string, chatID int64, sub request.Submitter, replier chatReplier) error {
	switch name {
	case "start":
		return h.home.Show(ctx, chatID)
	case "cancel":
		out, err := h.service.Conversation.Handle(ctx, sub, chatID, conversation.Cancel(), replier)
		return h.finish(ctx, chatID, out, err)
	case "chatid":
		_, err := h.bot.SendText(ctx, chatID, fmt.Sprintf(ChatIDTextFormat, chatID), nil)
		return err
	case "testnotify":
		result := h.service.Notify.Test(ctx, "")
		_, err := h.bot.SendText(ctx, chatID, h.service.Notify.Report(result), nil)
		return err
	default:
		return nil
	}
}

// handleChannelPost only answers /chatid, which operators use to find the
// id of a notification channel.
func (h *BotHandler) handleChannelPost(ctx context.Context, post *models.Message) error {
	if name, ok := command(post.Text, h.bot.Username()); ok && name == "chatid" {
		_, err := h.bot.SendText(ctx, post.Chat.ID, fmt.Sprintf(ChatIDTextFormat, post.Chat.ID), nil)
		return err
	}
	return nil
}

func (h *BotHandler) handleCallback(ctx context.Context, q *models.CallbackQuery) error {
	if err := h.bot.AnswerCallback(ctx, q.ID); err != nil {
		h.log.Debug("Callback not answered", zap.Error(err))
	}

	chatID, ok := callbackChatID(q)
	if !ok {
		return nil
	}
	sub := submitter(&q.From)
	replier := chatReplier{bot: h.bot, chatID: chatID}

	switch q.Data {
	case CallbackHome:
		out, err := h.service.Conversation.Handle(ctx, sub, chatID, conversation.Home(), replier)
		return h.finish(ctx, chatID, out, err)
	case CallbackBookStart:
		out, err := h.service.Conversation.Handle(ctx, sub, chatID, conversation.Enter(), replier)
		return h.finish(ctx, chatID, out, err)
	case CallbackMenu:
		return h.home.SendMenu(ctx, chatID)
	case CallbackEvents:
		return h.home.SendEvents(ctx, chatID)
	case CallbackTips:
		return h.home.SendTips(ctx, chatID)
	}

	if id, ok := parseCancelBooking(q.Data); ok {
		return h.cancelBooking(ctx, chatID, sub.ID, id)
	}
	return nil
}

func (h *BotHandler) cancelBooking(ctx context.Context, chatID, userID, bookingID int64) error {
	_, err := h.service.Booking.Cancel(ctx, bookingID, &userID)

	var text string
	switch {
	case err == nil:
		text = usecase.GuestCanceledText(bookingID)
	case errors.Is(err, usecase.ErrAlreadyCanceled):
		text = BookingCanceledText
	case errors.Is(err, usecase.ErrBookingNotFound), errors.Is(err, usecase.ErrNotBookingOwner):
		text = BookingGoneText
	default:
		return err
	}

	_, err = h.bot.SendText(ctx, chatID, text, backHomeKeyboard())
	return err
}

func (h *BotHandler) finish(ctx context.Context, chatID int64, out *usecase.Outcome, err error) error {
	if err != nil {
		return err
	}
	if out.ShowHome {
		return h.home.Show(ctx, chatID)
	}
	return nil
}

func (h *BotHandler) apologize(ctx context.Context, update *models.Update, log *zap.Logger) {
	chatID, ok := updateChatID(update)
	if !ok {
		return
	}
	if _, err := h.bot.SendText(ctx, chatID, ApologyText, backHomeKeyboard()); err != nil {
		log.Warn("Apology not delivered", zap.Error(err))
	}
}

type chatReplier struct {
	bot    Messenger
	chatID int64
}

func (r chatReplier) Reply(ctx context.Context, text string, keyboard conversation.Keyboard) error {
	_, err := r.bot.SendText(ctx, r.chatID, text, markup(keyboard))
	return err
}

func submitter(u *models.User) request.Submitter {
	if u == nil {
		return request.Submitter{}
	}
	return request.Submitter{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// command returns the lowercased name of a "/name@bot args" message. A
// command addressed to another bot is still a command but has no name, so
// callers neither run it nor treat it as a dialogue answer.
func command(text, self string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	name, mention, addressed := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	if name == "" {
		return "", false
	}
	if addressed && self != "" && !strings.EqualFold(mention, self) {
		return "", true
	}
	return strings.ToLower(name), true
}

func callbackChatID(q *models.CallbackQuery) (int64, bool) {
	switch {
	case q.Message.Message != nil:
		return q.Message.Message.Chat.ID, true
	case q.Message.InaccessibleMessage != nil:
		return q.Message.InaccessibleMessage.Chat.ID, true
	default:
		return 0, false
	}
}

func updateChatID(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil:
		return callbackChatID(update.CallbackQuery)
	case update.ChannelPost != nil:
		return update.ChannelPost.Chat.ID, true
	default:
		return 0, false
	}
}
