package reco

import (
	"context"
	"strings"

	"dreamycv/internal/catalog"
	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
)

// Key 是缓存的排序结果在共享存储中的键。
const Key = "reco"

// RankedList 是根据偏好推导出的模板排序，目录的一个置换。
type RankedList struct {
	Ordered []string `json:"ordered"`
}

// toneOrder 给出每种语气下目录的完整排序。
var toneOrder = map[catalog.Tone][]string{
	catalog.ToneProfessional: {"slate-columns", "serif-cream", "charcoal-pro", "dark", "modern-sky", "mint", "notion-blocks", "photo-left", "pastel", "coral-warm", "lavender-glow"},
	catalog.ToneCreative:     {"pastel", "lavender-glow", "notion-blocks", "photo-left", "modern-sky", "mint", "coral-warm", "serif-cream", "slate-columns", "charcoal-pro", "dark"},
	catalog.ToneBold:         {"charcoal-pro", "dark", "modern-sky", "slate-columns", "mint", "photo-left", "notion-blocks", "pastel", "serif-cream", "coral-warm", "lavender-glow"},
	catalog.ToneMinimal:      {"serif-cream", "slate-columns", "mint", "modern-sky", "notion-blocks", "dark", "charcoal-pro", "photo-left", "pastel", "lavender-glow", "coral-warm"},
}

// colorOrder 给出每个规范色下目录的完整排序。
var colorOrder = map[catalog.Color][]string{
	catalog.ColorMint:     {"mint", "modern-sky", "serif-cream", "pastel", "slate-columns", "charcoal-pro", "dark", "lavender-glow", "coral-warm", "notion-blocks", "photo-left"},
	catalog.ColorPink:     {"pastel", "lavender-glow", "coral-warm", "serif-cream", "modern-sky", "mint", "notion-blocks", "slate-columns", "photo-left", "charcoal-pro", "dark"},
	catalog.ColorLavender: {"lavender-glow", "pastel", "serif-cream", "modern-sky", "mint", "notion-blocks", "slate-columns", "photo-left", "coral-warm", "charcoal-pro", "dark"},
	catalog.ColorPeach:    {"coral-warm", "pastel", "serif-cream", "mint", "modern-sky", "notion-blocks", "slate-columns", "photo-left", "lavender-glow", "charcoal-pro", "dark"},
	catalog.ColorCoral:    {"coral-warm", "pastel", "serif-cream", "mint", "modern-sky", "notion-blocks", "slate-columns", "photo-left", "lavender-glow", "charcoal-pro", "dark"},
	catalog.ColorSky:      {"modern-sky", "mint", "serif-cream", "slate-columns", "pastel", "photo-left", "notion-blocks", "lavender-glow", "coral-warm", "charcoal-pro", "dark"},
	catalog.ColorCharcoal: {"charcoal-pro", "dark", "slate-columns", "modern-sky", "notion-blocks", "serif-cream", "mint", "pastel", "photo-left", "coral-warm", "lavender-glow"},
	catalog.ColorCream:    {"serif-cream", "slate-columns", "notion-blocks", "modern-sky", "mint", "pastel", "photo-left", "charcoal-pro", "dark", "lavender-glow", "coral-warm"},
	catalog.ColorSlate:    {"slate-columns", "serif-cream", "charcoal-pro", "notion-blocks", "modern-sky", "mint", "dark", "photo-left", "pastel", "lavender-glow", "coral-warm"},
}

// fieldBoost 给出每个行业最契合的几款模板。这只是一个加权头部，
// 不是完整排序；未覆盖的行业没有加权。
func fieldBoost(field string) []string {
	switch strings.ToLower(field) {
	case "design":
		return []string{"pastel", "modern-sky", "notion-blocks", "photo-left", "lavender-glow"}
	case "marketing":
		return []string{"pastel", "coral-warm", "modern-sky", "notion-blocks"}
	case "software":
		return []string{"slate-columns", "charcoal-pro", "dark", "modern-sky"}
	case "finance":
		return []string{"slate-columns", "serif-cream", "charcoal-pro", "dark"}
	case "hr":
		return []string{"serif-cream", "mint", "slate-columns"}
	case "education":
		return []string{"serif-cream", "mint", "modern-sky"}
	default:
		return nil
	}
}

// Rank 根据偏好计算模板排序。纯函数：同样的偏好永远得到同样的结果。
//
// 候选序列按优先级拼接：行业加权、语气排序、颜色排序、目录声明顺序，
// 再按首次出现去重。行业在并列时获胜，其次语气，再次颜色；
// 收尾项是目录的全排序，保证每款模板恰好出现一次。
func Rank(p prefs.Preferences) RankedList {
	all := catalog.IDs()

	color := catalog.DefaultColor
	if c, ok := catalog.NormalizeColor(p.AccentColor); ok {
		color = c
	}

	byTone, ok := toneOrder[p.Tone]
	if !ok {
		// 未知语气是中性空操作：该表贡献未调整的目录顺序。
		byTone = all
	}
	byColor, ok := colorOrder[color]
	if !ok {
		byColor = all
	}

	candidates := make([]string, 0, 4*len(all))
	candidates = append(candidates, fieldBoost(p.Field)...)
	candidates = append(candidates, byTone...)
	candidates = append(candidates, byColor...)
	candidates = append(candidates, all...)

	seen := make(map[string]struct{}, len(all))
	ordered := make([]string, 0, len(all))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	return RankedList{Ordered: ordered}
}

// Badge 在当前可见的模板里选出唯一的 Recommended 徽标目标。
// 优先级与排序算法本身不同：规范色的旗舰模板优先；
// 旗舰被筛掉时退回排序里第一个仍然可见的条目。
func Badge(p prefs.Preferences, ordered []string, visible map[string]bool) string {
	if c, ok := catalog.NormalizeColor(p.AccentColor); ok {
		if flagship := catalog.ColorToTemplate[c]; visible[flagship] {
			return flagship
		}
	}
	for _, id := range ordered {
		if visible[id] {
			return id
		}
	}
	return ""
}

// Engine 负责排序结果的计算与缓存。
type Engine struct {
	codec *kvstore.Codec
}

// NewEngine 构造 Engine。
func NewEngine(codec *kvstore.Codec) *Engine {
	return &Engine{codec: codec}
}

// RankAndStore 重新计算排序并写入缓存。
func (e *Engine) RankAndStore(ctx context.Context, p prefs.Preferences) (RankedList, error) {
	list := Rank(p)
	err := e.codec.Write(ctx, Key, list)
	return list, err
}

// Load 读取缓存的排序；缺失、损坏或长度与目录不符时按目录声明顺序兜底。
func (e *Engine) Load(ctx context.Context) RankedList {
	list := kvstore.Read(ctx, e.codec, Key, RankedList{})
	if len(list.Ordered) != len(catalog.Templates) {
		return RankedList{Ordered: catalog.IDs()}
	}
	return list
}

// LoadOrRank 优先用缓存；缓存缺失或失效时直接按当前偏好重算，
// 不长期信任过期的缓存排序。
func (e *Engine) LoadOrRank(ctx context.Context, p prefs.Preferences) RankedList {
	list := kvstore.Read(ctx, e.codec, Key, RankedList{})
	if len(list.Ordered) != len(catalog.Templates) {
		return Rank(p)
	}
	return list
}
