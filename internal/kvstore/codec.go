package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrWriteFailed 表示记录没能持久化。内存态仍然是本次会话的权威数据，
// 调用方把它当作非致命告警处理。
var ErrWriteFailed = errors.New("store write failed")

// Codec 把 JSON 记录编解码到共享存储。读取绝不报错：
// 键缺失、JSON 损坏、形状不符都退化为调用方给定的默认值。
type Codec struct {
	store  Store
	logger *slog.Logger
}

// NewCodec 构造 Codec。
func NewCodec(store Store, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{store: store, logger: logger}
}

// Store 返回底层存储，供需要订阅变更的组件使用。
func (c *Codec) Store() Store { return c.store }

// Read 解析 key 下的记录；任何失败都返回 def。
func Read[T any](ctx context.Context, c *Codec, key string, def T) T {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("read record failed, using default",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return def
	}
	if !ok {
		return def
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// 损坏的记录本地恢复为默认值，不上抛。
		c.logger.Warn("corrupt record, using default", slog.String("key", key))
		return def
	}
	return out
}

// Write 序列化并存储记录；持久化失败归一为 ErrWriteFailed。
func (c *Codec) Write(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(payload)); err != nil {
		c.logger.Warn("persist record failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s", ErrWriteFailed, key)
	}
	return nil
}

// Delete 删除记录；键不存在视为成功。
func (c *Codec) Delete(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %s", ErrWriteFailed, key)
	}
	return nil
}

// Keys 列出带前缀的记录键。
func (c *Codec) Keys(ctx context.Context, prefix string) ([]string, error) {
	return c.store.Keys(ctx, prefix)
}
