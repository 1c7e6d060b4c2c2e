package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-ma-automation/internal/config"
	"go-ma-automation/internal/models"
)

// TelegramNotifier pushes session summaries and errors to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.ChatID,
	}, nil
}

func (t *TelegramNotifier) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramNotifier) SendSession(result models.SessionResult) error {
	text := fmt.Sprintf(
		"💼 <b>M&A Session Complete</b>\n"+
			"🔍 Jobs found: %d\n"+
			"⭐ High priority: %d\n"+
			"📨 Applications submitted: %d\n"+
			"⚠️ Errors: %d",
		result.JobsFound,
		result.HighPriorityJobs,
		result.ApplicationsSubmitted,
		len(result.Errors),
	)
	return t.SendMessage(text)
}

func (t *TelegramNotifier) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>M&A Automation Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
