package conceptmap

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex chars, got %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("hex.DecodeString(%s) > %w", s, err)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}, nil
}

// mustParseHex is only used with the palette constants of this package.
func mustParseHex(s string) color.NRGBA {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func withAlpha(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}
