package monofilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBColor
	}{
		{"#ff0db2", RGBColor{255, 13, 178}},
		{"FF0DB2", RGBColor{255, 13, 178}},
		{"  #000000 ", Black},
		{"#fff", White},
		{"#3c9", RGBColor{0x33, 0xcc, 0x99}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#1234", "#1234567", "#gg0000", "red", "#ff 0db2"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseHex(in)
			assert.ErrorIs(t, err, ErrInvalidColorFormat)
		})
	}
}

func TestNormalizeHex(t *testing.T) {
	got, err := NormalizeHex("#ABC")
	require.NoError(t, err)
	assert.Equal(t, "#aabbcc", got)

	got, err = NormalizeHex("FF0DB2")
	require.NoError(t, err)
	assert.Equal(t, "#ff0db2", got)
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB(255, 13, 178)
	require.NoError(t, err)
	assert.Equal(t, "#ff0db2", c.Hex())

	_, err = ParseRGB(256, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidColorFormat)
	_, err = ParseRGB(0, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidColorFormat)
}

func TestHexRoundsAndClamps(t *testing.T) {
	assert.Equal(t, "#ff0000", RGBColor{300, -4, 0.4}.Hex())
	assert.Equal(t, "#010203", RGBColor{0.6, 2.2, 2.5}.Hex())
}

func TestHSL(t *testing.T) {
	gray := RGBColor{128, 128, 128}.HSL()
	assert.Zero(t, gray.H)
	assert.Zero(t, gray.S)
	assert.InDelta(t, 128.0/255, gray.L, 1e-9)

	red := RGBColor{255, 0, 0}.HSL()
	assert.InDelta(t, 0, red.H, 1e-9)
	assert.InDelta(t, 1, red.S, 1e-9)
	assert.InDelta(t, 0.5, red.L, 1e-9)

	blue := RGBColor{0, 0, 255}.HSL()
	assert.InDelta(t, 240, blue.H, 1e-9)

	assert.Zero(t, Black.HSL().S)
	assert.InDelta(t, 1, White.HSL().L, 1e-9)
}
