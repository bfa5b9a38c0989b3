package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mindpay/internal/logger"
	"mindpay/internal/metrics"
	"mindpay/internal/payout"
)

const (
	queueKey       = "payouts:settled"
	failedQueueKey = "payouts:settled:failed"
	noticeType     = "payout_settled"
)

// Notice is the payload consumers of the payout queue receive.
type Notice struct {
	PayoutID       int64     `json:"payout_id"`
	Reference      uuid.UUID `json:"reference"`
	ProviderID     int64     `json:"provider_id"`
	NetPayoutCents int64     `json:"net_payout_cents"`
	PaymentMethod  string    `json:"payment_method"`
	PayoutDate     time.Time `json:"payout_date"`
	Tries          int       `json:"tries"`
	Created        time.Time `json:"created"`
}

// Queue is a Redis list of settled payouts waiting to be announced.
type Queue struct {
	redis *redis.Client
	now   func() time.Time
}

func New(redisAddr string) *Queue {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: redisAddr}))
}

func NewWithClient(rdb *redis.Client) *Queue {
	return &Queue{redis: rdb, now: time.Now}
}

// PayoutSettled enqueues a notice for p. It runs after the settlement commit,
// so a failure here never undoes the payout.
func (q *Queue) PayoutSettled(ctx context.Context, p payout.Payout) error {
	notice := Notice{
		PayoutID:       p.ID,
		Reference:      p.Reference,
		ProviderID:     p.ProviderID,
		NetPayoutCents: p.NetPayoutCents,
		PaymentMethod:  p.PaymentMethod,
		PayoutDate:     p.PayoutDate,
		Created:        q.now().UTC(),
	}

	if err := q.push(ctx, queueKey, notice); err != nil {
		metrics.RecordNotification(noticeType, "enqueue_failed")
		return err
	}

	metrics.RecordNotification(noticeType, "queued")
	logger.Info("payout notice queued", "payout_id", p.ID, "provider_id", p.ProviderID)
	return nil
}

func (q *Queue) push(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := q.redis.LPush(ctx, key, string(data)).Err(); err != nil {
		return fmt.Errorf("push %s: %w", key, err)
	}
	return nil
}

// QueueLength reports the backlog and mirrors it into the gauge.
func (q *Queue) QueueLength(ctx context.Context) int64 {
	length, err := q.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.redis.Ping(ctx).Err()
}

func (q *Queue) Close() error {
	return q.redis.Close()
}
