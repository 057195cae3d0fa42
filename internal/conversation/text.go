package conversation

import (
	"fmt"
	"strings"
)

const (
	PromptDate    = "📅 Напиши дату (например: 26.01 или 26 января):"
	PromptTime    = "⏰ Время (например: 19:30):"
	PromptGuests  = "👥 Количество гостей числом (1–50):"
	PromptName    = "👤 На какое имя бронируем?"
	PromptPhone   = "📞 Телефон для связи:"
	PromptComment = "💬 Комментарий (необязательно). Если нет — напиши: -"

	CancelAck = "Ок, отменил."

	retryGuests = "Напиши число от 1 до 50."
	retryEmpty  = "Нужен ответ текстом."
)

var prompts = map[State]string{
	StateAwaitDate:    PromptDate,
	StateAwaitTime:    PromptTime,
	StateAwaitGuests:  PromptGuests,
	StateAwaitName:    PromptName,
	StateAwaitPhone:   PromptPhone,
	StateAwaitComment: PromptComment,
}

// Prompt is the question asked while waiting in state s.
func Prompt(s State) string {
	return prompts[s]
}

// retryText explains the rejection and repeats the current question.
func retryText(s State, err *ValidationError) string {
	hint := retryEmpty
	if err.Field == FieldGuests {
		hint = retryGuests
	}
	return hint + "\n" + Prompt(s)
}

// Confirmation is the user-facing answer after the booking is stored.
func Confirmation(id int64) string {
	return fmt.Sprintf("✅ Бронь принята! Номер #%d", id)
}

// StaffSummary renders the booking for the staff chats.
func StaffSummary(id int64, who string, d Draft) string {
	comment := d.Comment
	if comment == "" {
		comment = NoComment
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📌 Новая бронь #%d\n", id)
	if who != "" {
		fmt.Fprintf(&b, "От: %s\n", who)
	}
	fmt.Fprintf(&b, "Дата: %s\n", d.Date)
	fmt.Fprintf(&b, "Время: %s\n", d.Time)
	fmt.Fprintf(&b, "Гостей: %d\n", d.Guests)
	fmt.Fprintf(&b, "Имя: %s\n", d.Name)
	fmt.Fprintf(&b, "Телефон: %s\n", d.Phone)
	fmt.Fprintf(&b, "Комментарий: %s", comment)
	return b.String()
}
