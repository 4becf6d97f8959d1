package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/tanky/internal/ports"
)

const archiveTimeout = 30 * time.Second

type recordService struct {
	sink    ports.LogSink
	history ports.HistoryStore
	webhook ports.WebhookNotifier
	images  ports.S3Service
	log     *zap.Logger
	now     func() time.Time

	uploads sync.WaitGroup
}

// images may be nil: архив фотографий не настроен
func NewRecordService(
	sink ports.LogSink,
	history ports.HistoryStore,
	webhook ports.WebhookNotifier,
	images ports.S3Service,
	log *zap.Logger,
) ports.RecordService {
	return &recordService{
		sink:    sink,
		history: history,
		webhook: webhook,
		images:  images,
		log:     log,
		now:     time.Now,
	}
}

func (s *recordService) LogExchange(ctx context.Context, rec ports.LogRecord) {
	if rec.Timestamp == "" {
		rec.Timestamp = s.timestamp()
	}
	// запись не должна обрываться, если клиент уже отключился
	ctx = context.WithoutCancel(ctx)

	if err := s.sink.Append(ctx, FormatExchange(rec)); err != nil {
		s.log.Error("failed to append chat log", zap.Error(err))
	}

	if err := s.history.Push(ctx, rec); err != nil {
		s.log.Error("failed to save recent history", zap.Error(err))
	}

	s.webhook.Enqueue(rec)
}

// LogFailure пишет только в плоский лог: ни история, ни вебхук не получают ошибок
func (s *recordService) LogFailure(ctx context.Context, message string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.sink.Append(ctx, FormatFailure(message, s.timestamp())); err != nil {
		s.log.Error("failed to append error line", zap.Error(err))
	}
}

func (s *recordService) ArchiveImage(_ context.Context, dataURI string) {
	if s.images == nil || dataURI == "" {
		return
	}

	s.uploads.Add(1)
	go func() {
		defer s.uploads.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		url, err := s.images.SaveImage(ctx, dataURI)
		if err != nil {
			s.log.Warn("image archive failed", zap.Error(err))
			return
		}
		s.log.Info("image archived", zap.String("url", url))
	}()
}

// Wait blocks until every started image upload has finished.
func (s *recordService) Wait() {
	s.uploads.Wait()
}

func (s *recordService) ReadLog(ctx context.Context) (string, error) {
	return s.sink.ReadAll(ctx)
}

func (s *recordService) Recent(ctx context.Context) ([]ports.LogRecord, error) {
	return s.history.Recent(ctx)
}

func (s *recordService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// FormatExchange: одна строка плоского лога на обмен
func FormatExchange(rec ports.LogRecord) string {
	image := "no"
	if rec.HasImage {
		image = "yes"
	}
	return fmt.Sprintf("[%s] (%s) USER: %s | IMAGE: %s | TANKY: %s",
		rec.Timestamp, rec.Lang, oneLine(rec.User), image, oneLine(rec.Reply))
}

func FormatFailure(message, timestamp string) string {
	return fmt.Sprintf("ERROR: %s [%s]", oneLine(message), timestamp)
}

// newlines inside a message would split one entry over several log lines
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ⏎ ")
}
