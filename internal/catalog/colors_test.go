package catalog

import "testing"

func TestNormalizeColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"mint", ColorMint, true},
		{"  Slate ", ColorSlate, true},
		{"LAVENDER", ColorLavender, true},
		{"#90ee90", ColorMint, true},
		{"#90EE90", ColorMint, true},
		{"#ffb6c1", ColorPink, true},
		{"#2f2f2f", ColorCharcoal, true},
		{"chartreuse", "", false},
		{"#123456", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeColor(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeColor(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestColorToTemplateTargetsExist(t *testing.T) {
	for color, tplID := range ColorToTemplate {
		if _, ok := ByID(tplID); !ok {
			t.Errorf("flagship for %q points at unknown template %q", color, tplID)
		}
	}
	for _, c := range Colors {
		if _, ok := ColorToTemplate[c]; !ok {
			t.Errorf("palette color %q has no flagship template", c)
		}
	}
}

func TestCatalogIntegrity(t *testing.T) {
	seen := map[string]bool{}
	known := map[string]bool{}
	for _, cat := range CategoryFilters {
		known[cat] = true
	}
	// 目录里还出现了不可筛选的分类。
	known["minimal"] = true
	known["bold"] = true

	for _, tpl := range Templates {
		if seen[tpl.ID] {
			t.Errorf("duplicate template id %q", tpl.ID)
		}
		seen[tpl.ID] = true
		if tpl.Name == "" {
			t.Errorf("template %q has no display name", tpl.ID)
		}
		for _, cat := range tpl.Categories {
			if !known[cat] {
				t.Errorf("template %q has unknown category %q", tpl.ID, cat)
			}
		}
	}

	for tone, cat := range ToneToCategory {
		if !KnownTone(tone) {
			t.Errorf("mapping lists unknown tone %q", tone)
		}
		found := false
		for _, f := range CategoryFilters {
			if f == cat {
				found = true
			}
		}
		if !found {
			t.Errorf("tone %q maps to non-filterable category %q", tone, cat)
		}
	}
}
