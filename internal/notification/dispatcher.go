package notification

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"supplyhub/internal/infrastructure/telemetry"
)

const deliveryTimeout = 5 * time.Second

type job struct {
	n    Notification
	span trace.SpanContext
}

// Dispatcher hands notifications to a pool of workers through a bounded queue.
type Dispatcher struct {
	notifier Notifier
	queue    chan job
	workers  int
	logger   *zap.Logger
	metrics  *telemetry.Metrics

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(notifier Notifier, queueSize, workers int, logger *zap.Logger, metrics *telemetry.Metrics) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		notifier: notifier,
		queue:    make(chan job, queueSize),
		workers:  workers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			d.workerLoop(id)
		}(i)
	}
	d.logger.Info("notification workers started", zap.Int("workers", d.workers))
}

// Enqueue never blocks. It reports false when the notification was dropped
// because the queue is full or the dispatcher is shutting down.
func (d *Dispatcher) Enqueue(ctx context.Context, n Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.CountNotification("dropped")
		return false
	}

	select {
	case d.queue <- job{n: n, span: trace.SpanContextFromContext(ctx)}:
		return true
	default:
		d.metrics.CountNotification("dropped")
		d.logger.Warn("notification queue full, dropping",
			zap.String("type", string(n.Type)), zap.String("orderId", n.OrderID))
		return false
	}
}

// Shutdown stops accepting notifications and drains the queue until ctx expires.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) workerLoop(id int) {
	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if j.span.IsValid() {
			ctx = trace.ContextWithRemoteSpanContext(ctx, j.span)
		}

		if err := d.notifier.Notify(ctx, j.n); err != nil {
			d.metrics.CountNotification("failed")
			d.logger.Error("notification delivery failed",
				zap.Int("worker", id),
				zap.String("type", string(j.n.Type)),
				zap.String("orderId", j.n.OrderID),
				zap.Error(err))
		} else {
			d.metrics.CountNotification("sent")
		}

		cancel()
	}
}
