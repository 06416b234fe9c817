package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/catalog"
	"dreamycv/internal/prefs"
	"dreamycv/internal/reco"
)

// GalleryHandler 按推荐顺序提供模板目录，并标出唯一的 Recommended 徽标。
type GalleryHandler struct {
	prefs  *prefs.Store
	engine *reco.Engine
}

// NewGalleryHandler 构造 GalleryHandler。
func NewGalleryHandler(prefsStore *prefs.Store, engine *reco.Engine) *GalleryHandler {
	return &GalleryHandler{prefs: prefsStore, engine: engine}
}

type galleryItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Vibe        string   `json:"vibe"`
	Categories  []string `json:"categories"`
	Recommended bool     `json:"recommended"`
}

// ListTemplates 应用搜索与分类筛选，按排序返回模板，
// 徽标目标被提到最前面。
func (h *GalleryHandler) ListTemplates(c *gin.Context) {
	ctx := c.Request.Context()
	p := h.prefs.Get(ctx)
	list := h.engine.LoadOrRank(ctx, p)

	term := strings.ToLower(strings.TrimSpace(c.Query("q")))
	cats := splitCats(c.Query("cats"))

	visible := make(map[string]bool, len(catalog.Templates))
	filtered := make([]catalog.Template, 0, len(catalog.Templates))
	for _, t := range catalog.Templates {
		if !matchesTerm(t, term) || !matchesCats(t, cats) {
			continue
		}
		visible[t.ID] = true
		filtered = append(filtered, t)
	}

	recommendedID := reco.Badge(p, list.Ordered, visible)

	pos := make(map[string]int, len(list.Ordered))
	for i, id := range list.Ordered {
		pos[id] = i
	}
	rank := func(t catalog.Template) int {
		// 徽标目标永远排第一，哪怕排序里它不在最前。
		if t.ID == recommendedID {
			return -1
		}
		if i, ok := pos[t.ID]; ok {
			return i
		}
		return len(catalog.Templates)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return rank(filtered[i]) < rank(filtered[j])
	})

	items := make([]galleryItem, 0, len(filtered))
	for _, t := range filtered {
		items = append(items, galleryItem{
			ID:          t.ID,
			Name:        t.Name,
			Vibe:        t.Vibe,
			Categories:  t.Categories,
			Recommended: t.ID == recommendedID,
		})
	}

	payload := gin.H{
		"items":       items,
		"recommended": recommendedID,
	}
	// 语气决定画廊初次打开时预选的分类。
	if cat, ok := catalog.ToneToCategory[p.Tone]; ok {
		payload["defaultCategory"] = cat
	}
	c.JSON(http.StatusOK, payload)
}

func splitCats(raw string) []string {
	var cats []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			cats = append(cats, p)
		}
	}
	return cats
}

// matchesTerm 在名称、气质和分类拼成的干草堆里做子串匹配。
func matchesTerm(t catalog.Template, term string) bool {
	if term == "" {
		return true
	}
	hay := strings.ToLower(t.Name + " " + t.Vibe + " " + strings.Join(t.Categories, " "))
	return strings.Contains(hay, term)
}

// matchesCats 要求模板命中所有选中的分类。
func matchesCats(t catalog.Template, cats []string) bool {
	for _, want := range cats {
		found := false
		for _, have := range t.Categories {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
