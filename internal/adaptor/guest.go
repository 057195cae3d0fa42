package adaptor

import (
	"context"
)

// Guest writes to guests' private chats.
type Guest struct {
	bot Messenger
}

func NewGuest(bot Messenger) *Guest {
	return &Guest{bot: bot}
}

func (g *Guest) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := g.bot.SendText(ctx, chatID, text, nil)
	return err
}

// SendReminder attaches the cancel button for bookingID.
func (g *Guest) SendReminder(ctx context.Context, chatID, bookingID int64, text string) error {
	_, err := g.bot.SendText(ctx, chatID, text, cancelBookingKeyboard(bookingID))
	return err
}
