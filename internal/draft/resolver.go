package draft

import "context"

// ResolverState 是一次模板编辑会话的水合状态。
type ResolverState int

const (
	StateUninitialized ResolverState = iota
	StateHydrating
	StateReady
)

func (s ResolverState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// HydrationResolver 驱动编辑器启动：Uninitialized -> Hydrating -> Ready。
// 存储访问是同步的且读取绝不失败，所以不需要错误态。
type HydrationResolver struct {
	store *Store
	state ResolverState
	draft Draft
}

// NewHydrationResolver 构造处于 Uninitialized 态的解析器。
func NewHydrationResolver(store *Store) *HydrationResolver {
	return &HydrationResolver{store: store}
}

// State returns the current session state.
func (r *HydrationResolver) State() ResolverState { return r.state }

// Draft returns the resolved draft; only meaningful once Ready.
func (r *HydrationResolver) Draft() Draft { return r.draft }

// Resolve 为模板水合草稿并进入 Ready。返回的告警（持久化失败）
// 不阻止前进：草稿在内存里已经可用。
func (r *HydrationResolver) Resolve(ctx context.Context, templateID string) (Draft, error) {
	r.state = StateHydrating
	d, err := r.store.Hydrate(ctx, templateID)
	r.draft = d
	r.state = StateReady
	return d, err
}
