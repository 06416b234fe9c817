package kvstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MemoryStore 是进程内的 Store 实现，用于测试和本地运行。
// 行为与 RedisStore 对齐：写入后向所有 watcher 投递 Change。
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	watchers map[chan Change]struct{}

	// FailWrites 让后续写入返回错误，用于模拟配额耗尽。
	FailWrites bool
}

// NewMemoryStore 构造空的 MemoryStore。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   map[string]string{},
		watchers: map[chan Change]struct{}{},
	}
}

var errWritesDisabled = errors.New("writes disabled")

// Get returns the raw value under key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.values[key]
	return val, ok, nil
}

// Set stores the value and notifies watchers.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	if s.FailWrites {
		s.mu.Unlock()
		return errWritesDisabled
	}
	s.values[key] = value
	s.mu.Unlock()
	s.notify(Change{Key: key, Origin: OriginFrom(ctx)})
	return nil
}

// Delete removes the key; missing keys are fine.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	s.notify(Change{Key: key, Origin: OriginFrom(ctx), Deleted: true})
	return nil
}

// Keys lists keys under prefix.
func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Watch delivers changes until ctx is done.
func (s *MemoryStore) Watch(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 16)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// notify 尽力投递变更；watcher 缓冲满时丢弃，不阻塞写入方。
func (s *MemoryStore) notify(change Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}
