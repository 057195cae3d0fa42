package adaptor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"venue-bot/pkg/utils"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	TipsSoonText     = "💜 Скоро здесь можно будет оставить чаевые."
	MenuMissingText  = "Файл меню не найден 🙁 Проверь `assets/menu.pdf`."
	EventsEmptyText  = "🎉 Пока пусто."
	ChatIDTextFormat = "chat_id этого чата: %d"
)

// Messenger is the part of the Telegram client the handlers use.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error)
	SendMarkdown(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error)
	SendPhoto(ctx context.Context, chatID int64, path, caption string, markup models.ReplyMarkup) (*models.Message, error)
	SendDocument(ctx context.Context, chatID int64, path string, markup models.ReplyMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	PinMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID string) error
	Username() string
}

// HomeScreen renders the pinned home message and the static assets behind
// its buttons.
type HomeScreen struct {
	bot       Messenger
	venue     *utils.Venue
	assetsDir string
	webAppURL string
	log       *zap.Logger

	mu    sync.Mutex
	homes map[int64]int
}

func NewHomeScreen(bot Messenger, venue *utils.Venue, assetsDir, webAppURL string, log *zap.Logger) *HomeScreen {
	return &HomeScreen{
		bot:       bot,
		venue:     venue,
		assetsDir: assetsDir,
		webAppURL: webAppURL,
		log:       log.With(zap.String("handler", "home")),
		homes:     make(map[int64]int),
	}
}

// Show replaces the chat's previous home message with a new one and pins
// it. Only sending the new message can fail.
func (h *HomeScreen) Show(ctx context.Context, chatID int64) error {
	if old, ok := h.previous(chatID); ok {
		if err := h.bot.DeleteMessage(ctx, chatID, old); err != nil {
			h.log.Debug("Old home message not deleted", zap.Error(err), zap.Int64("chat_id", chatID))
		}
	}

	keyboard := mainKeyboard(h.venue, h.webAppURL)

	var (
		msg *models.Message
		err error
	)
	if logo := h.asset(h.venue.Files.Logo); logo != "" {
		msg, err = h.bot.SendPhoto(ctx, chatID, logo, h.venue.HomeText, keyboard)
	} else {
		msg, err = h.bot.SendMarkdown(ctx, chatID, h.venue.HomeText, keyboard)
	}
	if err != nil {
		return err
	}

	h.remember(chatID, msg.ID)

	if err := h.bot.PinMessage(ctx, chatID, msg.ID); err != nil {
		h.log.Debug("Home message not pinned", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	return nil
}

func (h *HomeScreen) SendMenu(ctx context.Context, chatID int64) error {
	return h.sendFile(ctx, chatID, h.venue.Files.Menu, MenuMissingText)
}

func (h *HomeScreen) SendEvents(ctx context.Context, chatID int64) error {
	return h.sendFile(ctx, chatID, h.venue.Files.Events, EventsEmptyText)
}

func (h *HomeScreen) SendTips(ctx context.Context, chatID int64) error {
	_, err := h.bot.SendText(ctx, chatID, TipsSoonText, backHomeKeyboard())
	return err
}

func (h *HomeScreen) sendFile(ctx context.Context, chatID int64, name, missing string) error {
	path := h.asset(name)
	if path == "" {
		_, err := h.bot.SendText(ctx, chatID, missing, backHomeKeyboard())
		return err
	}
	return h.bot.SendDocument(ctx, chatID, path, backHomeKeyboard())
}

// asset returns the path of an existing file in the assets dir, or "".
func (h *HomeScreen) asset(name string) string {
	if name == "" {
		return ""
	}
	path := filepath.Join(h.assetsDir, name)

	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.log.Warn("Asset not readable", zap.Error(err), zap.String("path", path))
		}
		return ""
	}
	if info.IsDir() {
		return ""
	}
	return path
}

func (h *HomeScreen) previous(chatID int64) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.homes[chatID]
	return id, ok
}

func (h *HomeScreen) remember(chatID int64, messageID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.homes[chatID] = messageID
}
