package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
)

// countingStore 在 MemoryStore 之上统计写入次数，用来验证防抖合并。
type countingStore struct {
	*kvstore.MemoryStore

	mu   sync.Mutex
	sets map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: kvstore.NewMemoryStore(), sets: map[string]int{}}
}

func (s *countingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets[key]++
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *countingStore) setCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[key]
}

func newAutosaverFixture(t *testing.T, window time.Duration) (*Autosaver, *Store, *countingStore) {
	t.Helper()
	cs := newCountingStore()
	codec := kvstore.NewCodec(cs, nil)
	store := NewStore(codec, prefs.NewStore(codec))
	return NewAutosaver(store, window, nil), store, cs
}

func TestAutosaverCoalescesBurst(t *testing.T) {
	ctx := context.Background()
	saver, store, cs := newAutosaverFixture(t, 20*time.Millisecond)

	for _, summary := range []string{"first", "second", "final"} {
		saver.Queue(ctx, Draft{TemplateID: "mint", SummaryText: summary})
	}

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, 1, cs.setCount(Key("mint")))

	d, err := store.Hydrate(ctx, "mint")
	require.NoError(t, err)
	assert.Equal(t, "final", d.SummaryText)
}

func TestAutosaverFlushTemplateWritesImmediately(t *testing.T) {
	ctx := context.Background()
	saver, store, cs := newAutosaverFixture(t, time.Hour)

	saver.Queue(ctx, Draft{TemplateID: "dark", SummaryText: "pending"})
	saver.FlushTemplate(ctx, "dark")

	assert.Equal(t, 1, cs.setCount(Key("dark")))

	d, err := store.Hydrate(ctx, "dark")
	require.NoError(t, err)
	assert.Equal(t, "pending", d.SummaryText)

	// 再次 flush 没有待写内容，不产生额外写入。
	saver.FlushTemplate(ctx, "dark")
	assert.Equal(t, 1, cs.setCount(Key("dark")))
}

func TestAutosaverCancelDropsPendingWrite(t *testing.T) {
	ctx := context.Background()
	saver, _, cs := newAutosaverFixture(t, 20*time.Millisecond)

	saver.Queue(ctx, Draft{TemplateID: "mint", SummaryText: "doomed"})
	saver.Cancel("mint")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, cs.setCount(Key("mint")))
}

func TestAutosaverFlushDrainsEverything(t *testing.T) {
	ctx := context.Background()
	saver, _, cs := newAutosaverFixture(t, time.Hour)

	saver.Queue(ctx, Draft{TemplateID: "mint", SummaryText: "a"})
	saver.Queue(ctx, Draft{TemplateID: "dark", SummaryText: "b"})
	saver.Flush(ctx)

	assert.Equal(t, 1, cs.setCount(Key("mint")))
	assert.Equal(t, 1, cs.setCount(Key("dark")))
}

// 请求结束后防抖写入仍要执行，但发起视图的标识必须保留。
func TestAutosaverSurvivesRequestCancelAndKeepsOrigin(t *testing.T) {
	saver, _, cs := newAutosaverFixture(t, 20*time.Millisecond)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	changes, err := cs.Watch(watchCtx)
	require.NoError(t, err)

	reqCtx, cancel := context.WithCancel(kvstore.WithOrigin(context.Background(), "tab-9"))
	saver.Queue(reqCtx, Draft{TemplateID: "mint", SummaryText: "late"})
	cancel()

	select {
	case change := <-changes:
		assert.Equal(t, Key("mint"), change.Key)
		assert.Equal(t, "tab-9", change.Origin)
	case <-time.After(time.Second):
		t.Fatal("debounced write never landed")
	}
}
