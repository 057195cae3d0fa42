package usecase

import (
	"fmt"

	"venue-bot/internal/data/entity"
)

const (
	SaveFailedText = "❌ Не получилось сохранить бронь. Попробуй ещё раз чуть позже."

	OrderMalformedText   = "❌ Ошибка чтения заказа (JSON)."
	OrderNotPreorderText = "⚠️ Это не предзаказ. Открой меню через кнопку «Меню / Предзаказ» и отправь заказ оттуда."
	OrderAcceptedText    = "✅ Предзаказ принят! Мы скоро свяжемся."
	OrderDMText          = "🛒 Твой предзаказ получен, мы скоро свяжемся для подтверждения."
	OrderUndeliveredText = "❌ Заказ дошёл до бота, но НЕ отправился в группу.\n" +
		"Проверь: бот добавлен в группу, chat_id верный, нет ограничений на отправку."

	TestNotifyText = "✅ Тест: бот умеет отправлять сообщения в группу заказов."
)

func reminderText(b *entity.Booking) string {
	return fmt.Sprintf("⏰ Напоминаем о брони #%d: %s в %s, гостей: %d.\n"+
		"Если планы изменились, отмени бронь кнопкой ниже.", b.ID, b.Date, b.Time, b.Guests)
}

// GuestCanceledText acknowledges the cancel button.
func GuestCanceledText(id int64) string {
	return fmt.Sprintf("Бронь #%d отменена. Будем рады видеть в другой раз!", id)
}

func cancelNotice(b *entity.Booking, by string) string {
	return fmt.Sprintf("❌ Бронь #%d отменена (%s)\nДата: %s\nВремя: %s\nГостей: %d\nИмя: %s\nТелефон: %s",
		b.ID, by, b.Date, b.Time, b.Guests, b.Name, b.Phone)
}

// TestNotifyReport renders the /testnotify answer.
func TestNotifyReport(delivered, attempted int, errors string) string {
	text := fmt.Sprintf("Результат: отправлено в %d чат(ов) из %d.", delivered, attempted)
	if errors != "" {
		text += "\nОшибки: " + errors
	}
	return text
}
