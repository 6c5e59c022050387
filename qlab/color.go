package qlab

import (
	"strconv"
	"strings"

	"github.com/zenibako/cuesheet/templates"
)

// swatchColors maps palette names to QLab colour names
var swatchColors = map[string]string{
	"red":    ColorRed,
	"orange": ColorOrange,
	"yellow": ColorOrange,
	"green":  ColorGreen,
	"blue":   ColorBlue,
	"purple": ColorPurple,
	"pink":   ColorRed,
	"gray":   ColorNone,
	"grey":   ColorNone,
}

// ColorName maps a cue sheet colour to the nearest QLab colour name. Colours
// can be palette names ("blue") or hex values ("#3B82F6", "#f00"); a hex value
// off the palette uses the closest palette swatch. Anything else is "none".
func ColorName(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if name, ok := swatchColors[color]; ok {
		return name
	}
	r, g, b, ok := parseHex(color)
	if !ok {
		return ColorNone
	}

	best, bestDist := "", -1
	for _, sw := range templates.Palette {
		sr, sg, sb, _ := parseHex(sw.Hex)
		d := sq(r-sr) + sq(g-sg) + sq(b-sb)
		if bestDist < 0 || d < bestDist {
			best, bestDist = sw.Name, d
		}
	}
	return swatchColors[strings.ToLower(best)]
}

func parseHex(s string) (r, g, b int, ok bool) {
	s, found := strings.CutPrefix(s, "#")
	if !found {
		return 0, 0, 0, false
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func sq(v int) int { return v * v }
