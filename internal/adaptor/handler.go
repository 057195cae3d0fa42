package adaptor

import (
	"venue-bot/internal/usecase"
	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Bot     *BotHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, bot Messenger, venue *utils.Venue, config *utils.Config, log *zap.Logger) *Handler {
	home := NewHomeScreen(bot, venue, config.Venue.AssetsDir, config.Telegram.WebAppURL, log)

	return &Handler{
		Bot:     NewBotHandler(service, bot, home, log),
		Booking: NewBookingHandler(service.Booking, service.Notify, log),
	}
}
