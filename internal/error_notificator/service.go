package error_notificator

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	infra Notificator
	log   *zap.Logger
}

func NewService(infra Notificator, log *zap.Logger) *Service {
	return &Service{infra: infra, log: log}
}

func (s *Service) Notify(ctx context.Context, err error, details string) error {
	s.log.Error("upstream failure", zap.Error(err), zap.String("details", details))
	return s.infra.Notify(ctx, err, details)
}
