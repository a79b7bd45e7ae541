package render

import (
	"strings"

	"github.com/i474232898/weather-view/internal/common"
)

// Glyphs used for condition icons.
const (
	GlyphSun      = "☀️"
	GlyphCloud    = "☁️"
	GlyphRain     = "🌧️"
	GlyphStorm    = "⛈️"
	GlyphSnow     = "❄️"
	GlyphFog      = "🌫️"
	GlyphFallback = "🌡️"
)

// iconRules is checked in order; the first matching group wins. The order is
// significant ("Thunderstorm with rain" is rain, not storm).
var iconRules = []struct {
	keywords []string
	glyph    string
}{
	{[]string{"clear", "sunny"}, GlyphSun},
	{[]string{"cloud"}, GlyphCloud},
	{[]string{"rain", "drizzle"}, GlyphRain},
	{[]string{"storm"}, GlyphStorm},
	{[]string{"snow"}, GlyphSnow},
	{[]string{"fog", "mist"}, GlyphFog},
}

// Icon picks a glyph for a free-text condition by case-insensitive keyword match.
func Icon(condition string) string {
	c := strings.ToLower(condition)
	for _, rule := range iconRules {
		if common.HasAny(c, rule.keywords...) {
			return rule.glyph
		}
	}
	return GlyphFallback
}
