package ports

import "context"

type RecordService interface {
	// LogExchange и LogFailure никогда не возвращают ошибок: проблемы записи только логируются
	LogExchange(ctx context.Context, rec LogRecord)
	LogFailure(ctx context.Context, message string)

	// ArchiveImage uploads the photo in the background when an archive is configured.
	ArchiveImage(ctx context.Context, dataURI string)
	// Wait ждёт фоновые загрузки; вызывается при остановке сервера
	Wait()

	ReadLog(ctx context.Context) (string, error)
	Recent(ctx context.Context) ([]LogRecord, error)
}
