package adaptor

import (
	"strconv"
	"strings"

	"venue-bot/internal/conversation"
	"venue-bot/pkg/utils"

	"github.com/go-telegram/bot/models"
)

// Callback data sent by the inline buttons.
const (
	CallbackHome          = "go_home"
	CallbackMenu          = "open_menu"
	CallbackEvents        = "open_events"
	CallbackTips          = "tips"
	CallbackBookStart     = "book_start"
	CallbackCancelBooking = "cancel_booking:"
)

func mainKeyboard(venue *utils.Venue, webAppURL string) *models.InlineKeyboardMarkup {
	tips := models.InlineKeyboardButton{Text: "💜 Чаевые", CallbackData: CallbackTips}
	if venue.Links.Tips != "" {
		tips = models.InlineKeyboardButton{Text: "💜 Чаевые", URL: venue.Links.Tips}
	}

	var rows [][]models.InlineKeyboardButton

	// only a web_app button makes the client send web_app_data back
	if webAppURL != "" {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "🛒 Меню / Предзаказ (Mini App)", WebApp: &models.WebAppInfo{URL: webAppURL}},
		})
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{
			{Text: "📋 Меню (PDF)", CallbackData: CallbackMenu},
			{Text: "🎉 События", CallbackData: CallbackEvents},
		},
		linkRow(
			models.InlineKeyboardButton{Text: "⭐ (Яндекс)", URL: venue.Links.YandexReviews},
			models.InlineKeyboardButton{Text: "⭐ (2ГИС)", URL: venue.Links.GisReviews},
		),
		linkRow(
			models.InlineKeyboardButton{Text: "📣 Наш канал", URL: venue.Links.Channel},
			models.InlineKeyboardButton{Text: "🛵 Яндекс Еда", URL: venue.Links.Delivery},
		),
		[]models.InlineKeyboardButton{
			{Text: "📅 Бронь столов", CallbackData: CallbackBookStart},
			tips,
		},
	)

	return &models.InlineKeyboardMarkup{InlineKeyboard: compact(rows)}
}

// linkRow drops buttons whose link is not configured.
func linkRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	row := make([]models.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		if b.URL != "" {
			row = append(row, b)
		}
	}
	return row
}

func compact(rows [][]models.InlineKeyboardButton) [][]models.InlineKeyboardButton {
	out := rows[:0]
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out
}

func backHomeKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "🏠 Главное меню", CallbackData: CallbackHome}},
	}}
}

func cancelBookingKeyboard(bookingID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "❌ Отменить бронь", CallbackData: CallbackCancelBooking + strconv.FormatInt(bookingID, 10)}},
		{{Text: "🏠 Главное меню", CallbackData: CallbackHome}},
	}}
}

// parseCancelBooking extracts the id from "cancel_booking:<id>".
func parseCancelBooking(data string) (int64, bool) {
	raw, ok := strings.CutPrefix(data, CallbackCancelBooking)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// markup maps a conversation keyboard to Telegram markup. A nil interface
// is returned for KeyboardNone so no reply_markup is sent.
func markup(k conversation.Keyboard) models.ReplyMarkup {
	if k == conversation.KeyboardBackHome {
		return backHomeKeyboard()
	}
	return nil
}
