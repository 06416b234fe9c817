package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// changeChannel 是写入通知使用的 pub/sub 频道。
const changeChannel = "store:changes"

// RedisStore 将共享存储放在 Redis 上：记录本身是普通的字符串键，
// 每次写入后在 pub/sub 频道上发布一条 Change。
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore 构造 RedisStore。
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, logger: logger}
}

// Get returns the raw value under key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	switch {
	case err == redis.Nil:
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores the value and publishes a change notice.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	s.publish(ctx, Change{Key: key, Origin: OriginFrom(ctx)})
	return nil
}

// Delete removes the key. Deleting a missing key succeeds.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	s.publish(ctx, Change{Key: key, Origin: OriginFrom(ctx), Deleted: true})
	return nil
}

// Keys lists keys under prefix via SCAN.
func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}
	return keys, nil
}

// Watch subscribes to the change channel and converts messages to Change values.
func (s *RedisStore) Watch(ctx context.Context) (<-chan Change, error) {
	pubsub := s.client.Subscribe(ctx, changeChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %q: %w", changeChannel, err)
	}

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					s.logger.Warn("drop malformed change notice", slog.String("payload", msg.Payload))
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// publish 发布写入通知。通知失败只记日志：同步是尽力而为的。
func (s *RedisStore) publish(ctx context.Context, change Change) {
	payload, err := json.Marshal(change)
	if err != nil {
		return
	}
	if err := s.client.Publish(ctx, changeChannel, payload).Err(); err != nil {
		s.logger.Warn("publish change notice failed",
			slog.String("key", change.Key),
			slog.String("error", err.Error()),
		)
	}
}
