package webhook

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Vovarama1992/tanky/internal/ports"
)

const DefaultQueueSize = 64

// Dispatcher отправляет записи в фоне: запрос пользователя никогда не ждёт вебхук.
// При переполненной очереди запись отбрасывается.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	queue  chan ports.LogRecord

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, queueSize int, log *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan ports.LogRecord, queueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) Enqueue(rec ports.LogRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- rec:
	default:
		d.log.Warn("webhook queue full, record dropped", zap.String("timestamp", rec.Timestamp))
	}
}

// Close stops accepting records and waits until the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for rec := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, rec); err != nil {
			d.log.Warn("webhook delivery failed", zap.Error(err))
		}
		cancel()
	}
}

// Noop используется, когда WEBHOOK_URL не задан
type Noop struct{}

func (Noop) Enqueue(ports.LogRecord) {}
