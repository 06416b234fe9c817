package syncfeed

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"dreamycv/internal/kvstore"
)

// Handler 在订阅的键发生变化时被调用，负责重新走 get/hydrate 路径
// 刷新本视图的内存状态。
type Handler func(ctx context.Context, change kvstore.Change)

// Broadcaster 监听共享存储上其它视图的写入并通知本地订阅者。
// 本视图自己的写入不会回调（写入带着视图 ID，这里按 ID 丢弃）。
// 这是尽力而为的对账，不是可靠投递协议。
type Broadcaster struct {
	store  kvstore.Store
	viewID string
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string][]Handler
}

// New 构造属于某个视图的 Broadcaster。
func New(store kvstore.Store, viewID string, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		store:  store,
		viewID: viewID,
		logger: logger,
		subs:   map[string][]Handler{},
	}
}

// Subscribe 注册对某个键前缀的刷新回调。
func (b *Broadcaster) Subscribe(prefix string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[prefix] = append(b.subs[prefix], fn)
}

// Run 消费存储的变更通知直到 ctx 结束。通常放在单独的 goroutine 里。
func (b *Broadcaster) Run(ctx context.Context) error {
	changes, err := b.store.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if change.Origin != "" && change.Origin == b.viewID {
				continue
			}
			b.dispatch(ctx, change)
		}
	}
}

// Resync 主动把每个订阅前缀各刷新一次。视图重获前台焦点时调用，
// 覆盖原生变更事件不可靠的场景。
func (b *Broadcaster) Resync(ctx context.Context) {
	b.mu.Lock()
	prefixes := make([]string, 0, len(b.subs))
	for p := range b.subs {
		prefixes = append(prefixes, p)
	}
	b.mu.Unlock()

	for _, p := range prefixes {
		b.dispatch(ctx, kvstore.Change{Key: p})
	}
}

func (b *Broadcaster) dispatch(ctx context.Context, change kvstore.Change) {
	b.mu.Lock()
	var handlers []Handler
	for prefix, subs := range b.subs {
		if strings.HasPrefix(change.Key, prefix) {
			handlers = append(handlers, subs...)
		}
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ctx, change)
	}
}

// Stream 返回发给某个远端视图的变更流：该视图自己的写入被过滤掉。
// WebSocket 边界用它把变更转发给打开的页面。
func (b *Broadcaster) Stream(ctx context.Context, viewID string) (<-chan kvstore.Change, error) {
	changes, err := b.store.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan kvstore.Change, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				if viewID != "" && change.Origin == viewID {
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
