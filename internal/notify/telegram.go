// Package notify - канал уведомлений. Отправка fire-and-forget:
// ошибки доставки не влияют на судьбу бронирования.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// TelegramNotifier отправляет текстовые уведомления студентам в Telegram
type TelegramNotifier struct {
	bot *bot.Bot
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: b}, nil
}

// Send отправляет текст получателю по его chat ID
func (n *TelegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if chatID == 0 {
		return fmt.Errorf("recipient has no telegram chat")
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
