package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Tk colour names accepted in scene files.
var namedColors = map[string]color.RGBA{
	"pink":  {255, 192, 203, 255},
	"pink1": {255, 181, 197, 255},
	"pink2": {238, 169, 184, 255},
	"pink3": {205, 145, 158, 255},
	"white": {255, 255, 255, 255},
	"black": {0, 0, 0, 255},
	"blue":  {0, 0, 255, 255},
}

// ParseColor accepts "#rrggbb" or a known colour name. Empty means pink2.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return namedColors["pink2"], nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if n, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil && n == 3 {
			return color.RGBA{r, g, b, 255}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
