package kvstore

import "context"

// Change 描述共享存储上被观察到的一次写入。
// Origin 标识发起写入的视图，订阅方据此丢弃自己的写入。
type Change struct {
	Key     string `json:"key"`
	Origin  string `json:"origin"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Store 是所有视图共享的键值存储。实现必须在每次写入后向
// Watch 订阅者投递一条 Change；投递是尽力而为的，不保证送达。
type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the raw value and notifies watchers.
	Set(ctx context.Context, key, value string) error
	// Delete removes the key and notifies watchers. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Watch delivers changes made through this store until ctx is done.
	Watch(ctx context.Context) (<-chan Change, error)
}

type originKey struct{}

// WithOrigin 将发起写入的视图 ID 绑定到上下文。
func WithOrigin(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, originKey{}, viewID)
}

// OriginFrom 取出上下文中的视图 ID，没有则返回空串。
func OriginFrom(ctx context.Context) string {
	if v, ok := ctx.Value(originKey{}).(string); ok {
		return v
	}
	return ""
}
