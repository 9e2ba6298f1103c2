package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// How often a consumer sweeps the group's pending list for entries that
	// were delivered but never acked.
	reclaimInterval = 30 * time.Second
	reclaimMinIdle  = time.Minute
)

// RedisEventQueue backs the audit trail with a capped redis stream and a
// consumer group for reliable draining.
type RedisEventQueue struct {
	rdb *redis.Client
}

func NewRedisEventQueue(rdb *redis.Client) *RedisEventQueue {
	return &RedisEventQueue{rdb: rdb}
}

func (q *RedisEventQueue) streamKey(topic string) string {
	return "stream:" + topic
}

func (q *RedisEventQueue) PublishToStream(ctx context.Context, topic string, payload []byte) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey(topic),
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"data": payload},
	}).Err()
}

func (q *RedisEventQueue) SubscribeToStream(
	ctx context.Context,
	topic string,
	group string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) error {
	stream := q.streamKey(topic)
	err := q.rdb.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("create consumer group: %w", err)
	}
	consumer := uuid.NewString()
	lastClaim := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Entries delivered but never acked (handler error, crashed
			// consumer) are reclaimed periodically and re-run.
			if time.Since(lastClaim) >= reclaimInterval {
				lastClaim = time.Now()
				q.reclaimPending(ctx, stream, group, consumer, handler)
			}
			res, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    16,
				Block:    2 * time.Second,
			}).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					slog.Warn("redis - event queue - stream read error", "stream", stream, "err", err)
				}
				continue
			}
			for _, s := range res {
				for _, msg := range s.Messages {
					raw, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}
					if err := handler(ctx, msg.ID, []byte(raw)); err != nil {
						slog.Warn("redis - event queue - handler error", "stream", stream, "message_id", msg.ID, "err", err)
					}
				}
			}
		}
	}
}

func (q *RedisEventQueue) reclaimPending(
	ctx context.Context,
	stream, group, consumer string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) {
	claimed, _, err := q.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  reclaimMinIdle,
		Start:    "0-0",
		Count:    16,
	}).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			slog.Warn("redis - event queue - reclaim error", "stream", stream, "err", err)
		}
		return
	}
	for _, msg := range claimed {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		if err := handler(ctx, msg.ID, []byte(raw)); err != nil {
			slog.Warn("redis - event queue - reclaimed handler error", "stream", stream, "message_id", msg.ID, "err", err)
		}
	}
}

func (q *RedisEventQueue) AcknowledgeMessage(ctx context.Context, topic, group, msgID string) error {
	return q.rdb.XAck(ctx, q.streamKey(topic), group, msgID).Err()
}

func (q *RedisEventQueue) DeleteMessage(ctx context.Context, topic, msgID string) error {
	return q.rdb.XDel(ctx, q.streamKey(topic), msgID).Err()
}
