package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"learn-proxy/api/internal/learn"
)

// practiceSession is the last practice set sent to a chat, kept for the
// answer and worksheet buttons.
type practiceSession struct {
	Subject learn.Subject
	Set     learn.PracticeResponse
	At      time.Time
}

// sessionTTL is how long the buttons under a practice set keep working.
const sessionTTL = 6 * time.Hour

const (
	cbAnswers   = "practice_answers"
	cbWorksheet = "practice_pdf"
)

func practiceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Show answers", cbAnswers),
		tgbotapi.NewInlineKeyboardButtonData("Worksheet PDF", cbWorksheet),
	))
}
