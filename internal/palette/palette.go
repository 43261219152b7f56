// Package palette converts between hex and RGB folder colors.
package palette

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	fferrors "filefusion/internal/errors"
)

// HoverDelta is the brightness shift used to derive a hover color.
const HoverDelta = -20

var hexPattern = regexp.MustCompile(`^#?(?:[0-9a-fA-F]{3}){1,2}$`)

type RGB struct {
	R int
	G int
	B int
}

type Preset struct {
	Name string
	Hex  string
}

var Presets = []Preset{
	{Name: "Blue", Hex: "#3498db"},
	{Name: "Green", Hex: "#2ecc71"},
	{Name: "Red", Hex: "#e74c3c"},
	{Name: "Orange", Hex: "#f39c12"},
	{Name: "Purple", Hex: "#9b59b6"},
	{Name: "Turquoise", Hex: "#1abc9c"},
	{Name: "Dark Blue", Hex: "#34495e"},
	{Name: "Carrot", Hex: "#e67e22"},
	{Name: "Emerald", Hex: "#27ae60"},
	{Name: "Wisteria", Hex: "#8e44ad"},
	{Name: "Pumpkin", Hex: "#d35400"},
	{Name: "Pomegranate", Hex: "#c0392b"},
}

// IsValidHex is the strict form accepted in config and user input: a
// leading '#' followed by 3 or 6 hex digits.
func IsValidHex(value string) bool {
	return strings.HasPrefix(value, "#") && hexPattern.MatchString(value)
}

// HexToRGB accepts 3 or 6 hex digits with an optional leading '#'.
// Three-digit forms expand each digit, so "#abc" is "#aabbcc".
func HexToRGB(value string) (RGB, error) {
	if !hexPattern.MatchString(value) {
		return RGB{}, fferrors.Newf(fferrors.ErrInvalidFormat, "invalid hex color %q", value)
	}
	digits := strings.TrimPrefix(value, "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	parsed, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fferrors.Wrapf(err, fferrors.ErrInvalidFormat, "invalid hex color %q", value)
	}
	return RGB{
		R: int((parsed >> 16) & 0xff),
		G: int((parsed >> 8) & 0xff),
		B: int(parsed & 0xff),
	}, nil
}

// RGBToHex clamps each channel into [0,255] before encoding.
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(r), clampChannel(g), clampChannel(b))
}

func (c RGB) Hex() string {
	return RGBToHex(c.R, c.G, c.B)
}

// AdjustBrightness shifts every channel by delta. Input that does not
// decode is returned as-is.
func AdjustBrightness(value string, delta int) string {
	rgb, err := HexToRGB(value)
	if err != nil {
		return value
	}
	return RGBToHex(rgb.R+delta, rgb.G+delta, rgb.B+delta)
}

// Normalize returns the canonical "#rrggbb" form of value.
func Normalize(value string) (string, error) {
	rgb, err := HexToRGB(value)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// PresetByName finds a preset by case-insensitive name.
func PresetByName(name string) (Preset, bool) {
	for _, preset := range Presets {
		if strings.EqualFold(preset.Name, name) {
			return preset, true
		}
	}
	return Preset{}, false
}

func clampChannel(value int) int {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return value
}
