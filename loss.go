package monofilter

import "math"

// Weights scales the two loss terms.
type Weights struct {
	// RGB weights the squared per-channel error.
	RGB float64
	// HSL weights the hue/saturation/lightness divergence. Keep it well below
	// RGB: it only breaks ties between RGB-equidistant candidates whose hue
	// is visibly wrong.
	HSL float64
}

// DefaultWeights is used by Loss and DefaultOptions.
var DefaultWeights = Weights{RGB: 1, HSL: 0.25}

// CandidateResult is one scored evaluation of the chain against black.
type CandidateResult struct {
	Params   FilterParameters
	Achieved RGBColor
	Loss     float64
}

// Loss scores candidate against target with DefaultWeights.
// It is zero iff the colors are equal.
func Loss(target, candidate RGBColor) float64 {
	return DefaultWeights.Loss(target, candidate)
}

// Loss is the weighted sum of the squared RGB error and the HSL divergence.
// The HSL term is expressed on the same 0..255 scale as the RGB term.
func (w Weights) Loss(target, candidate RGBColor) float64 {
	dr := candidate.R - target.R
	dg := candidate.G - target.G
	db := candidate.B - target.B
	rgb := dr*dr + dg*dg + db*db

	ht := target.HSL()
	hc := candidate.HSL()
	// Hue matters in proportion to how saturated the target is.
	dh := HueDistance(ht, hc) / 180 * 255 * ht.S
	ds := (hc.S - ht.S) * 255
	dl := (hc.L - ht.L) * 255
	hsl := dh*dh + ds*ds + dl*dl

	loss := w.RGB*rgb + w.HSL*hsl
	if math.IsNaN(loss) || loss < 0 {
		return w.RGB * rgb
	}
	return loss
}

// HueDistance is the circular hue distance in degrees, in [0,180]. It is zero
// when either color is achromatic, since hue is undefined there.
func HueDistance(a, b HSLColor) float64 {
	if a.S == 0 || b.S == 0 || math.IsNaN(a.H) || math.IsNaN(b.H) {
		return 0
	}
	d := math.Abs(a.H - b.H)
	d = math.Mod(d, 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Evaluate applies p to black and scores the result against target.
func Evaluate(target RGBColor, p FilterParameters, w Weights) CandidateResult {
	achieved := Apply(p, Black)
	return CandidateResult{
		Params:   p,
		Achieved: achieved,
		Loss:     w.Loss(target, achieved),
	}
}
