package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/tanky/internal/error_notificator"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 120 * time.Second
	notifyTimeout  = 10 * time.Second
)

type AiService struct {
	client   Completer
	notifier error_notificator.Notificator
	log      *zap.Logger
	timeout  time.Duration
}

func NewAiService(
	client Completer,
	notifier error_notificator.Notificator,
	log *zap.Logger,
	timeout time.Duration,
) *AiService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AiService{
		client:   client,
		notifier: notifier,
		log:      log,
		timeout:  timeout,
	}
}

// === главный метод ===
func (s *AiService) GetReply(ctx context.Context, req ChatRequest) (*Reply, error) {
	start := time.Now()
	p := Assemble(req)

	s.log.Debug("prompt assembled",
		zap.String("lang", p.Lang),
		zap.Bool("lang_explicit", p.LangExplicit),
		zap.Bool("has_image", p.HasImage()),
		zap.Int("turns", len(req.Messages)),
	)

	ctxGPT, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.GetCompletion(ctxGPT, p.Messages())
	s.log.Info("gpt done",
		zap.Duration("took", time.Since(start)),
		zap.Bool("has_image", p.HasImage()),
		zap.Error(err),
	)

	if err != nil {
		s.notifyGptError(err, p)
		return nil, &UpstreamError{Err: err}
	}

	return &Reply{
		Text:     ExtractReply(raw, p.HasImage(), p.Lang),
		Lang:     p.Lang,
		UserText: p.UserText,
		HasImage: p.HasImage(),
		ImageURL: p.ImageURL,
	}, nil
}

// уведомление не должно задерживать ответ клиенту
func (s *AiService) notifyGptError(err error, p Prompt) {
	details := fmt.Sprintf("Lang: %s\nImage: %t\nUser: %s\n\n%s",
		p.Lang, p.HasImage(), p.UserText, diagnoseUpstreamError(err))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if nerr := s.notifier.Notify(ctx, err, details); nerr != nil {
			s.log.Warn("operator notification failed", zap.Error(nerr))
		}
	}()
}
