package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mindpay/internal/logger"
	"mindpay/internal/metrics"
)

const maxTries = 3

// Deliverer hands a notice to whoever announces payouts.
type Deliverer interface {
	Deliver(ctx context.Context, n Notice) error
}

// Worker drains the queue into a Deliverer, retrying each notice up to
// maxTries times before parking it on the failed list.
type Worker struct {
	queue      *Queue
	deliverer  Deliverer
	pollWait   time.Duration
	retryDelay time.Duration
	// errBackoff is the pause after Redis itself fails, so an outage does
	// not turn the poll loop into a busy loop.
	errBackoff time.Duration
}

func NewWorker(queue *Queue, deliverer Deliverer) *Worker {
	return &Worker{
		queue:      queue,
		deliverer:  deliverer,
		pollWait:   2 * time.Second,
		retryDelay: 5 * time.Second,
		errBackoff: 3 * time.Second,
	}
}

func (w *Worker) Start(ctx context.Context) {
	logger.Info("payout notice worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("payout notice worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *Worker) processNext(ctx context.Context) {
	result, err := w.queue.redis.BRPop(ctx, w.pollWait, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("payout notice poll failed", "error", err.Error())
		}
		sleep(ctx, w.errBackoff)
		return
	}

	var n Notice
	if err := json.Unmarshal([]byte(result[1]), &n); err != nil {
		logger.Errorf("bad payout notice: %v", err)
		return
	}

	n.Tries++
	if err := w.deliverer.Deliver(ctx, n); err != nil {
		logger.WithError(err).Error("payout notice delivery failed", "payout_id", n.PayoutID, "tries", n.Tries)

		if n.Tries < maxTries {
			// The notice is requeued even when ctx ends during the pause.
			sleep(ctx, w.retryDelay)
			if err := w.queue.push(context.Background(), queueKey, n); err != nil {
				logger.WithError(err).Error("failed to requeue payout notice", "payout_id", n.PayoutID)
			}
			metrics.RecordNotification(noticeType, "retry")
			return
		}

		w.saveFailed(n, err)
		return
	}

	metrics.RecordNotification(noticeType, "delivered")
	logger.Info("payout notice delivered", "payout_id", n.PayoutID)
}

func (w *Worker) saveFailed(n Notice, cause error) {
	failed := map[string]interface{}{
		"notice": n,
		"error":  cause.Error(),
		"time":   w.queue.now().UTC(),
	}
	if err := w.queue.push(context.Background(), failedQueueKey, failed); err != nil {
		logger.WithError(err).Error("failed to park payout notice", "payout_id", n.PayoutID)
	}
	metrics.RecordNotification(noticeType, "failed")
	logger.Errorf("payout notice %d moved to failed queue after %d tries", n.PayoutID, n.Tries)
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
