package engine

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor_ValidForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGBA
	}{
		{"Short red", "F00", RGBA{R: 1, G: 0, B: 0, A: 1}},
		{"Short with hash", "#0F0", RGBA{R: 0, G: 1, B: 0, A: 1}},
		{"Full blue", "#0000FF", RGBA{R: 0, G: 0, B: 1, A: 1}},
		{"Lowercase", "ffffff", RGBA{R: 1, G: 1, B: 1, A: 1}},
		{"Transparent black", "00000000", RGBA{R: 0, G: 0, B: 0, A: 0}},
		{"Surrounding noise", "  #FF-00-00 ", RGBA{R: 1, G: 0, B: 0, A: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.R, got.R, 1e-9)
			assert.InDelta(t, tt.want.G, got.G, 1e-9)
			assert.InDelta(t, tt.want.B, got.B, 1e-9)
			assert.InDelta(t, tt.want.A, got.A, 1e-9)
		})
	}
}

func TestParseHexColor_ShortEqualsLong(t *testing.T) {
	short, err := ParseHexColor("F00")
	require.NoError(t, err)
	long, err := ParseHexColor("FF0000")
	require.NoError(t, err)
	assert.Equal(t, long, short)

	short, _ = ParseHexColor("#abc")
	long, _ = ParseHexColor("#aabbcc")
	assert.Equal(t, long, short)
}

func TestParseHexColor_AlphaChannel(t *testing.T) {
	c, err := ParseHexColor("80FF0000")
	require.NoError(t, err)

	assert.InDelta(t, 128.0/255.0, c.A, 1e-9)
	assert.InDelta(t, 0.502, c.A, 0.001)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.Zero(t, c.G)
	assert.Zero(t, c.B)
}

func TestParseHexColor_MalformedFallsBackToOpaqueBlack(t *testing.T) {
	for _, input := range []string{"", "zz", "#12345", "GGG", "FFFFFFFFFF", "#12G45Z", "###"} {
		t.Run(input, func(t *testing.T) {
			c, err := ParseHexColor(input)
			assert.ErrorIs(t, err, ErrInvalidHexColor)
			assert.Equal(t, FallbackColor, c)
			assert.Equal(t, FallbackColor, DecodeHexColor(input))
		})
	}
}

func TestParseHexColor_ChannelsStayInRange(t *testing.T) {
	for _, input := range []string{"000", "FFF", "7F7F7F", "FFFFFFFF", "01020304"} {
		c := DecodeHexColor(input)
		for _, ch := range []float64{c.R, c.G, c.B, c.A} {
			assert.GreaterOrEqual(t, ch, 0.0)
			assert.LessOrEqual(t, ch, 1.0)
		}
	}
}

func TestRGBA_Conversions(t *testing.T) {
	c := DecodeHexColor("#FF6B6B")
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}, c.NRGBA())
	assert.Equal(t, "#FF6B6B", c.Hex())

	faded := c.WithAlpha(0.5)
	assert.Equal(t, uint8(128), faded.NRGBA().A)
	assert.Equal(t, 1.0, c.A, "WithAlpha returns a copy")
}
