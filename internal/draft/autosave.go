package draft

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dreamycv/internal/kvstore"
)

// Autosaver 把密集的编辑合并成有界的存储写入：同一模板在防抖窗口内
// 的连续提交只落一次盘，后到的内容覆盖先到的（最后写入获胜）。
// 每次提交都会重置该模板的待写计时器。
type Autosaver struct {
	store  *Store
	window time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingSave
}

type pendingSave struct {
	timer *time.Timer
	draft Draft
	ctx   context.Context
}

// NewAutosaver 构造 Autosaver。window 决定合并窗口。
func NewAutosaver(store *Store, window time.Duration, logger *slog.Logger) *Autosaver {
	if window <= 0 {
		window = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{
		store:   store,
		window:  window,
		logger:  logger,
		pending: map[string]*pendingSave{},
	}
}

// Queue 记下草稿的最新状态并（重新）起一个防抖计时器。
// 写入脱离请求生命周期执行，但保留发起视图的标识。
func (a *Autosaver) Queue(ctx context.Context, d Draft) {
	d.normalize()
	saveCtx := context.WithoutCancel(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[d.TemplateID]; ok {
		p.timer.Stop()
		p.draft = d
		p.ctx = saveCtx
		p.timer.Reset(a.window)
		return
	}

	p := &pendingSave{draft: d, ctx: saveCtx}
	p.timer = time.AfterFunc(a.window, func() { a.fire(d.TemplateID) })
	a.pending[d.TemplateID] = p
}

// fire 执行到期的待写草稿。
func (a *Autosaver) fire(templateID string) {
	a.mu.Lock()
	p, ok := a.pending[templateID]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pending, templateID)
	a.mu.Unlock()

	a.save(p.ctx, p.draft)
}

// FlushTemplate 立刻落盘某个模板的待写草稿（若有）。
// 视图离开编辑器时必须调用，避免静默丢掉最后一次编辑。
func (a *Autosaver) FlushTemplate(_ context.Context, templateID string) {
	a.mu.Lock()
	p, ok := a.pending[templateID]
	if ok {
		p.timer.Stop()
		delete(a.pending, templateID)
	}
	a.mu.Unlock()

	if ok {
		a.save(p.ctx, p.draft)
	}
}

// Cancel 丢弃某个模板的待写草稿。草稿被显式删除时调用，
// 避免过期的防抖写入把它复活。
func (a *Autosaver) Cancel(templateID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pending[templateID]; ok {
		p.timer.Stop()
		delete(a.pending, templateID)
	}
}

// Flush 落盘全部待写草稿，进程退出前调用。
func (a *Autosaver) Flush(_ context.Context) {
	a.mu.Lock()
	drained := make([]*pendingSave, 0, len(a.pending))
	for id, p := range a.pending {
		p.timer.Stop()
		delete(a.pending, id)
		drained = append(drained, p)
	}
	a.mu.Unlock()

	for _, p := range drained {
		a.save(p.ctx, p.draft)
	}
}

func (a *Autosaver) save(ctx context.Context, d Draft) {
	if err := a.store.Save(ctx, d); err != nil {
		// 持久化失败不致命：内存态仍是本会话的权威数据。
		if errors.Is(err, kvstore.ErrWriteFailed) {
			a.logger.Warn("autosave not persisted", slog.String("template_id", d.TemplateID))
			return
		}
		a.logger.Error("autosave failed",
			slog.String("template_id", d.TemplateID),
			slog.String("error", err.Error()),
		)
	}
}
