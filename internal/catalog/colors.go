package catalog

import "strings"

// Color 是内部使用的规范色键，与用户表达颜色的方式无关。
type Color string

const (
	ColorMint     Color = "mint"
	ColorPink     Color = "pink"
	ColorLavender Color = "lavender"
	ColorPeach    Color = "peach"
	ColorCoral    Color = "coral"
	ColorSky      Color = "sky"
	ColorCharcoal Color = "charcoal"
	ColorCream    Color = "cream"
	ColorSlate    Color = "slate"
)

// DefaultColor 是目录声明的默认色键，未表达颜色偏好时使用。
const DefaultColor = ColorMint

// Colors 是完整的调色板。
var Colors = []Color{
	ColorMint, ColorPink, ColorLavender, ColorPeach, ColorCoral,
	ColorSky, ColorCharcoal, ColorCream, ColorSlate,
}

// legacyHex 收录历史上录入界面用过的十六进制色值。
var legacyHex = map[string]Color{
	"#90ee90": ColorMint,
	"#98ff98": ColorMint,
	"#ffc0cb": ColorPink,
	"#ffb6c1": ColorPink,
	"#e6e6fa": ColorLavender,
	"#ffd5b7": ColorPeach,
	"#ffb3a7": ColorPeach,
	"#ff7f50": ColorCoral,
	"#87ceeb": ColorSky,
	"#708090": ColorSlate,
	"#2f2f2f": ColorCharcoal,
	"#f5f5dc": ColorCream,
}

// ColorToTemplate 把规范色映射到该色系的旗舰模板，
// 画廊的 Recommended 徽标优先选它。
var ColorToTemplate = map[Color]string{
	ColorMint:     "mint",
	ColorPink:     "pastel",
	ColorLavender: "lavender-glow",
	ColorPeach:    "coral-warm",
	ColorCoral:    "coral-warm",
	ColorSky:      "modern-sky",
	ColorCharcoal: "charcoal-pro",
	ColorCream:    "serif-cream",
	ColorSlate:    "slate-columns",
}

// NormalizeColor 把自由格式的颜色输入归一到规范色键。
// 无法识别的输入返回 false，调用方按"没有颜色偏好"处理。
func NormalizeColor(token string) (Color, bool) {
	x := strings.ToLower(strings.TrimSpace(token))
	if x == "" {
		return "", false
	}
	for _, c := range Colors {
		if string(c) == x {
			return c, true
		}
	}
	if c, ok := legacyHex[x]; ok {
		return c, true
	}
	return "", false
}
