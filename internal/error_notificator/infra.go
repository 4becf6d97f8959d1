package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	bot    Sender
	chatID int64
}

func NewTelegramInfra(token string, chatID int64) (*Infra, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return NewInfra(bot, chatID), nil
}

func NewInfra(bot Sender, chatID int64) *Infra {
	return &Infra{bot: bot, chatID: chatID}
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	text := fmt.Sprintf(
		"❗ Ошибка Tanky API\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.chatID, text)); sendErr != nil {
		return fmt.Errorf("telegram send to %d: %w", i.chatID, sendErr)
	}
	return nil
}

// Noop используется, когда бот для уведомлений не настроен
type Noop struct{}

func (Noop) Notify(context.Context, error, string) error { return nil }
