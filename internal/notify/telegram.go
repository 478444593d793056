package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/pipeline"
)

// TelegramPublisher posts formatted alerts to a Telegram chat.
type TelegramPublisher struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var _ pipeline.Publisher = (*TelegramPublisher)(nil)

// NewTelegramPublisher creates a publisher for the given bot token and
// chat.
func NewTelegramPublisher(token string, chatID int64) (*TelegramPublisher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramPublisher{bot: bot, chatID: chatID}, nil
}

// NewTelegramPublisherWithBot wraps an existing bot instance.
func NewTelegramPublisherWithBot(bot *tgbotapi.BotAPI, chatID int64) *TelegramPublisher {
	return &TelegramPublisher{bot: bot, chatID: chatID}
}

// Publish renders the event and sends it to the chat.
func (p *TelegramPublisher) Publish(ctx context.Context, ev *domain.EnrichedEvent) error {
	return p.SendText(ctx, FormatAlert(ev))
}

// SendText sends a raw message to the chat. Link previews are disabled
// so the GMGN links stay compact.
func (p *TelegramPublisher) SendText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
