// Package monofilter solves image-filter chains that tint a pure black asset
// into an arbitrary target color.
//
// The chain is invert, sepia, saturate, hue-rotate, brightness, contrast,
// always applied in that order.
package monofilter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidColorFormat is returned when an input cannot be read as three
	// channel values in [0,255].
	ErrInvalidColorFormat = errors.New("invalid color format")
	// ErrInvalidDescriptor is returned by ParseDescriptor.
	ErrInvalidDescriptor = errors.New("invalid filter descriptor")
)

// RGBColor holds channel values in [0,255]. Intermediate pipeline values are
// fractional; parsed inputs are whole numbers.
type RGBColor struct {
	R, G, B float64
}

// HSLColor is a derived view of an RGBColor.
// H is in [0,360), S and L in [0,1].
type HSLColor struct {
	H, S, L float64
}

var (
	Black = RGBColor{0, 0, 0}
	White = RGBColor{255, 255, 255}
)

func NewRGB(r, g, b uint8) RGBColor {
	return RGBColor{float64(r), float64(g), float64(b)}
}

// ParseRGB validates integer channels.
func ParseRGB(r, g, b int) (RGBColor, error) {
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return RGBColor{}, fmt.Errorf("%w: component %d out of range [0,255]", ErrInvalidColorFormat, v)
		}
	}
	return RGBColor{float64(r), float64(g), float64(b)}, nil
}

// ParseHex reads "#rrggbb", "rrggbb" or the "#rgb" shorthand.
func ParseHex(s string) (RGBColor, error) {
	norm, err := NormalizeHex(s)
	if err != nil {
		return RGBColor{}, err
	}
	c, err := colorful.Hex(norm)
	if err != nil {
		return RGBColor{}, fmt.Errorf("%w: %q: %v", ErrInvalidColorFormat, s, err)
	}
	return RGBFromColorful(c), nil
}

// NormalizeHex returns the canonical lowercase "#rrggbb" form of s.
func NormalizeHex(s string) (string, error) {
	h := strings.ToLower(strings.TrimSpace(s))
	h = strings.TrimPrefix(h, "#")
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q: non-hex character %q", ErrInvalidColorFormat, s, c)
		}
	}
	switch len(h) {
	case 6:
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	default:
		return "", fmt.Errorf("%w: %q: want 3 or 6 hex digits", ErrInvalidColorFormat, s)
	}
	return "#" + h, nil
}

// RGBFromColorful converts a go-colorful color ([0,1] channels), clamping
// and rounding to whole channel values.
func RGBFromColorful(c colorful.Color) RGBColor {
	r, g, b := c.Clamped().RGB255()
	return NewRGB(r, g, b)
}

func (c RGBColor) Colorful() colorful.Color {
	return colorful.Color{R: c.R / 255.0, G: c.G / 255.0, B: c.B / 255.0}
}

// Clamped limits every channel to [0,255].
func (c RGBColor) Clamped() RGBColor {
	return RGBColor{clampChannel(c.R), clampChannel(c.G), clampChannel(c.B)}
}

// Rounded rounds every channel to the nearest whole value.
func (c RGBColor) Rounded() RGBColor {
	return RGBColor{math.Round(c.R), math.Round(c.G), math.Round(c.B)}
}

func (c RGBColor) Hex() string {
	r := c.Clamped().Rounded()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r.R), uint8(r.G), uint8(r.B))
}

func (c RGBColor) String() string { return c.Hex() }

// HSL returns the hue/saturation/lightness view. Achromatic colors report
// hue 0.
func (c RGBColor) HSL() HSLColor {
	h, s, l := c.Clamped().Colorful().Hsl()
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}
	if math.IsNaN(s) {
		s = 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return HSLColor{H: h, S: s, L: l}
}

// MaxChannelDiff is the largest absolute per-channel difference.
func (c RGBColor) MaxChannelDiff(o RGBColor) float64 {
	return max(math.Abs(c.R-o.R), math.Abs(c.G-o.G), math.Abs(c.B-o.B))
}

// pack folds whole channel values into a 24-bit integer, used as a seed term.
func (c RGBColor) pack() uint64 {
	r := c.Clamped().Rounded()
	return uint64(r.R)<<16 | uint64(r.G)<<8 | uint64(r.B)
}

func clampChannel(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
