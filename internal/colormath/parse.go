package colormath

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Named query colours.
var (
	Red    = Color{R: 1, G: 0, B: 0, A: 1}
	Green  = Color{R: 0, G: 1, B: 0, A: 1}
	Blue   = Color{R: 0, G: 0, B: 1, A: 1}
	Black  = Color{R: 0, G: 0, B: 0, A: 1}
	White  = Color{R: 1, G: 1, B: 1, A: 1}
	Yellow = Color{R: 1, G: 235.0 / 255.0, B: 4.0 / 255.0, A: 1}
)

var namedColors = map[string]Color{
	"red":    Red,
	"green":  Green,
	"blue":   Blue,
	"black":  Black,
	"white":  White,
	"yellow": Yellow,
}

// ParseColor parses a colour literal: "#RGB", "#RRGGBB", "#RGBA", "#RRGGBBAA"
// or one of the names red, green, blue, black, white and yellow.
func ParseColor(literal string) (Color, bool) {
	literal = strings.TrimSpace(literal)
	if strings.HasPrefix(literal, "#") {
		return parseHex(literal)
	}
	c, ok := namedColors[strings.ToLower(literal)]
	return c, ok
}

// ColorParam parses a query parameter and falls back to black when the literal
// is not understood.
func ColorParam(literal string) Color {
	if c, ok := ParseColor(literal); ok {
		return c
	}
	return Black
}

func parseHex(literal string) (Color, bool) {
	digits := literal[1:]
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return Color{}, false
		}
	}

	alpha := uint64(255)
	switch len(digits) {
	case 3, 6:
	case 4:
		a, _ := strconv.ParseUint(digits[3:], 16, 8)
		alpha = a * 17
		digits = digits[:3]
	case 8:
		alpha, _ = strconv.ParseUint(digits[6:], 16, 8)
		digits = digits[:6]
	default:
		return Color{}, false
	}

	parsed, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, false
	}
	r, g, b := parsed.RGB255()
	return RGBA8{R: r, G: g, B: b, A: uint8(alpha)}.Float(), true
}
