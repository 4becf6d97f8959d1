package delivery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Serve обслуживает ln до отмены ctx, затем останавливает srv.
// Возвращается только после того, как Shutdown дождался активных запросов,
// так что после Serve можно закрывать хранилища и очередь вебхука.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// srv.Serve уже вернул ErrServerClosed
	<-errCh
	return nil
}
