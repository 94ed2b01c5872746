package engine

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidHexColor is returned alongside the fallback color when a hex string cannot be decoded.
var ErrInvalidHexColor = errors.New("invalid hex color")

const (
	maxChannel    = 255
	nibbleToByte  = 17 // 0xF * 17 == 0xFF
	hexBase       = 16
	hexBitSize    = 64
	shortHexLen   = 3
	rgbHexLen     = 6
	argbHexLen    = 8
	fallbackAlpha = maxChannel
)

// RGBA is a color with each channel normalized to [0,1].
type RGBA struct {
	R, G, B, A float64
}

// FallbackColor is returned for malformed input: fully opaque black.
var FallbackColor = RGBA{R: 0, G: 0, B: 0, A: 1}

func rgbaFromBytes(a, r, g, b uint64) RGBA {
	return RGBA{
		R: float64(r) / maxChannel,
		G: float64(g) / maxChannel,
		B: float64(b) / maxChannel,
		A: float64(a) / maxChannel,
	}
}

// ParseHexColor decodes "RGB", "RRGGBB" or "AARRGGBB" after stripping every non-alphanumeric rune.
// Malformed input never panics: it yields FallbackColor together with ErrInvalidHexColor.
func ParseHexColor(hex string) (RGBA, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, hex)

	switch len(cleaned) {
	case shortHexLen, rgbHexLen, argbHexLen:
	default:
		return FallbackColor, fmt.Errorf("%w: %q has %d digits", ErrInvalidHexColor, hex, len(cleaned))
	}

	v, err := strconv.ParseUint(cleaned, hexBase, hexBitSize)
	if err != nil {
		return FallbackColor, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	switch len(cleaned) {
	case shortHexLen:
		return rgbaFromBytes(fallbackAlpha, (v>>8)*nibbleToByte, (v>>4&0xF)*nibbleToByte, (v&0xF)*nibbleToByte), nil
	case rgbHexLen:
		return rgbaFromBytes(fallbackAlpha, v>>16, v>>8&0xFF, v&0xFF), nil
	default:
		return rgbaFromBytes(v>>24, v>>16&0xFF, v>>8&0xFF, v&0xFF), nil
	}
}

// DecodeHexColor is the lenient form of ParseHexColor for rendering code.
func DecodeHexColor(hex string) RGBA {
	c, _ := ParseHexColor(hex)
	return c
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * maxChannel))
}

// NRGBA converts to a non-premultiplied 8-bit color for canvas drawing.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B), A: toByte(c.A)}
}

// WithAlpha returns the same color with a different opacity.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Hex formats the color as #RRGGBB, dropping opacity (terminal colors have none).
func (c RGBA) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}
