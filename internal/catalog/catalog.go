package catalog

// Template 描述目录中一款模板的画廊元数据。
type Template struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Vibe       string   `json:"vibe"`
	Categories []string `json:"categories"`
}

// Tone 是用户自述的语气偏好。
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCreative     Tone = "creative"
	ToneBold         Tone = "bold"
	ToneMinimal      Tone = "minimal"
)

// Fields 是向导里可选的行业。
var Fields = []string{"Design", "Marketing", "HR", "Software", "Admin", "Sales", "Finance", "Education"}

// Tones 是全部语气选项。
var Tones = []Tone{ToneProfessional, ToneCreative, ToneBold, ToneMinimal}

// Templates 是模板目录的声明顺序。排序算法的收尾项就是它，
// 所以任何排序结果都是目录的一个置换。
var Templates = []Template{
	{ID: "pastel", Name: "Pastel Classic", Vibe: "pink/lavender", Categories: []string{"fun", "elegant"}},
	{ID: "mint", Name: "Minimal Mint", Vibe: "mint/green", Categories: []string{"professional", "minimal", "elegant"}},
	{ID: "dark", Name: "Elegant Dark", Vibe: "navy/gray", Categories: []string{"elegant", "professional"}},
	{ID: "serif-cream", Name: "Serif Cream", Vibe: "ivory/coffee", Categories: []string{"professional", "elegant"}},
	{ID: "modern-sky", Name: "Modern Sky", Vibe: "sky/white", Categories: []string{"professional", "unique"}},
	{ID: "charcoal-pro", Name: "Charcoal Pro", Vibe: "charcoal/blue", Categories: []string{"professional", "bold"}},
	{ID: "lavender-glow", Name: "Lavender Glow", Vibe: "lavender/silver", Categories: []string{"fun", "unique", "elegant"}},
	{ID: "coral-warm", Name: "Coral Warm", Vibe: "coral/sand", Categories: []string{"fun", "bold"}},
	{ID: "slate-columns", Name: "Slate Columns", Vibe: "slate/columns", Categories: []string{"professional", "elegant"}},
	{ID: "photo-left", Name: "Photo Left", Vibe: "avatar/airy", Categories: []string{"unique", "fun"}},
	{ID: "notion-blocks", Name: "Notion Blocks", Vibe: "neutral/blocks", Categories: []string{"unique", "minimal"}},
}

// CategoryFilters 是画廊里可用的分类筛选。
var CategoryFilters = []string{"professional", "fun", "elegant", "unique"}

// ToneToCategory 把语气映射到画廊默认预选的分类。
var ToneToCategory = map[Tone]string{
	ToneProfessional: "professional",
	ToneCreative:     "fun",
	ToneBold:         "unique",
	ToneMinimal:      "elegant",
}

// IDs returns the catalog's template identifiers in declared order.
func IDs() []string {
	ids := make([]string, len(Templates))
	for i, t := range Templates {
		ids[i] = t.ID
	}
	return ids
}

// ByID looks a template up by identifier.
func ByID(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// KnownField reports whether field is one of the wizard's industries.
func KnownField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}

// KnownTone reports whether tone is a supported tone.
func KnownTone(tone Tone) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}
