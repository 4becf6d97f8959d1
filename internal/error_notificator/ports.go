package error_notificator

import "context"

type Notificator interface {
	// Notify: отправляет сообщение об ошибке оператору
	Notify(ctx context.Context, err error, details string) error
}
