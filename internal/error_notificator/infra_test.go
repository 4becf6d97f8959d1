package error_notificator

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestNotify_SendsToOperatorChat(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(NewInfra(sender, 42), zap.NewNop())

	err := svc.Notify(context.Background(), errors.New("status code: 429"), "quota")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "status code: 429")
	assert.Contains(t, sender.sent[0].Text, "quota")
}

func TestNotify_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	infra := NewInfra(sender, 1)

	err := infra.Notify(context.Background(), errors.New("boom"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
}

func TestNotify_CanceledContext(t *testing.T) {
	sender := &fakeSender{}
	infra := NewInfra(sender, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, infra.Notify(ctx, errors.New("boom"), ""), context.Canceled)
	assert.Empty(t, sender.sent)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), errors.New("x"), "y"))
}
