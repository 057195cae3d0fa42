package telegram

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"venue-bot/pkg/utils"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// UpdateHandler receives every update in arrival order.
type UpdateHandler func(ctx context.Context, update *models.Update)

// Client wraps the Bot API with a shared outbound rate limit.
type Client struct {
	bot      *bot.Bot
	username string
	limiter  *rate.Limiter
	log      *zap.Logger
}

func NewClient(config utils.TelegramConfig, log *zap.Logger) (*Client, error) {
	log = log.With(zap.String("component", "telegram"))

	pollTimeout := time.Duration(config.PollingTimeout) * time.Second
	if pollTimeout <= time.Second {
		pollTimeout = 30 * time.Second
	}

	opts := []bot.Option{
		// a single synchronous worker preserves update order
		bot.WithWorkers(1),
		bot.WithNotAsyncHandlers(),
		bot.WithHTTPClient(pollTimeout, newHTTPClient(pollTimeout)),
		bot.WithAllowedUpdates(bot.AllowedUpdates{
			models.AllowedUpdateMessage,
			models.AllowedUpdateChannelPost,
			models.AllowedUpdateCallbackQuery,
		}),
		bot.WithSkipGetMe(),
		bot.WithErrorsHandler(func(err error) {
			log.Warn("Bot API error", zap.Error(err))
		}),
	}
	if config.APIURL != "" {
		opts = append(opts, bot.WithServerURL(config.APIURL))
	}

	b, err := bot.New(config.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	me, err := b.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bot identity: %w", err)
	}
	log.Info("Bot identity loaded", zap.String("username", me.Username))

	limit := rate.Limit(config.RatePerSecond)
	if config.RatePerSecond <= 0 {
		limit = rate.Inf
	}

	return &Client{
		bot:      b,
		username: me.Username,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log,
	}, nil
}

// Username is the bot's own @name, without the @.
func (c *Client) Username() string {
	return c.username
}

func newHTTPClient(pollTimeout time.Duration) *http.Client {
	return &http.Client{Timeout: pollTimeout + 10*time.Second}
}

// Start long-polls until ctx is done.
func (c *Client) Start(ctx context.Context, handler UpdateHandler) {
	c.bot.RegisterHandlerMatchFunc(
		func(*models.Update) bool { return true },
		func(ctx context.Context, _ *bot.Bot, update *models.Update) { handler(ctx, update) },
	)
	c.log.Info("Long polling started")
	c.bot.Start(ctx)
	c.log.Info("Long polling stopped")
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// SendMessage sends plain text without markup or parse mode, so any
// characters in user supplied text are safe.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.SendText(ctx, chatID, text, nil)
	return err
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return nil, fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return msg, nil
}

// SendPhoto uploads the file at path with a Markdown caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, path, caption string, markup models.ReplyMarkup) (*models.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo %s: %w", path, err)
	}
	defer f.Close()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	msg, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: filepath.Base(path), Data: f},
		Caption:     caption,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
	if err != nil {
		return nil, fmt.Errorf("send photo to %d: %w", chatID, err)
	}
	return msg, nil
}

// SendMarkdown is SendText with the legacy Markdown parse mode.
func (c *Client) SendMarkdown(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
	if err != nil {
		return nil, fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return msg, nil
}

func (c *Client) SendDocument(ctx context.Context, chatID int64, path string, markup models.ReplyMarkup) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document %s: %w", path, err)
	}
	defer f.Close()

	if err := c.wait(ctx); err != nil {
		return err
	}
	_, err = c.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:      chatID,
		Document:    &models.InputFileUpload{Filename: filepath.Base(path), Data: f},
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("send document to %d: %w", chatID, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	if _, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
		return fmt.Errorf("delete message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (c *Client) PinMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, err := c.bot.PinChatMessage(ctx, &bot.PinChatMessageParams{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	if err != nil {
		return fmt.Errorf("pin message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	if _, err := c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID}); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}
