package domain

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (theme Theme) Valid() bool {
	return theme == ThemeDark || theme == ThemeLight
}

func (theme Theme) Toggle() Theme {
	if theme == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

type IconSize string

const (
	IconSmall  IconSize = "small"
	IconMedium IconSize = "medium"
	IconLarge  IconSize = "large"
)

func (size IconSize) Valid() bool {
	switch size {
	case IconSmall, IconMedium, IconLarge:
		return true
	default:
		return false
	}
}

type Effect string

const (
	EffectNone     Effect = "None"
	EffectGlow     Effect = "Glow"
	EffectShadow   Effect = "Shadow"
	EffectGradient Effect = "Gradient"
	Effect3D       Effect = "3D Effect"
)

var Effects = []Effect{EffectNone, EffectGlow, EffectShadow, EffectGradient, Effect3D}

var Icons = []string{
	"📁", "📂", "📄", "📷", "🎵", "🎥", "📊", "🔒",
	"💾", "📎", "📌", "📍", "🚀", "⭐", "🎨", "🔧",
}
