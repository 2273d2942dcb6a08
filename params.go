package monofilter

import "math"

// Stage identifies one transform of the filter chain.
type Stage int

const (
	StageInvert Stage = iota
	StageSepia
	StageSaturate
	StageHueRotate
	StageBrightness
	StageContrast
)

// NumStages is the length of the filter chain.
const NumStages = 6

// stages is the chain in application order. The stages do not commute.
var stages = [NumStages]Stage{
	StageInvert,
	StageSepia,
	StageSaturate,
	StageHueRotate,
	StageBrightness,
	StageContrast,
}

// Stages returns the chain in application order.
func Stages() [NumStages]Stage { return stages }

// String returns the descriptor function name.
func (s Stage) String() string {
	switch s {
	case StageInvert:
		return "invert"
	case StageSepia:
		return "sepia"
	case StageSaturate:
		return "saturate"
	case StageHueRotate:
		return "hue-rotate"
	case StageBrightness:
		return "brightness"
	case StageContrast:
		return "contrast"
	default:
		return "unknown"
	}
}

// Bound is a closed parameter range, except for hue-rotate whose Max is
// exclusive and wraps.
type Bound struct {
	Min, Max float64
}

func (b Bound) Span() float64 { return b.Max - b.Min }

const (
	// MaxSaturate is the upper saturate multiplier (750%).
	MaxSaturate = 7.5
	// MaxBrightness is the upper brightness multiplier (300%).
	MaxBrightness = 3.0
	// MaxContrast is the upper contrast multiplier (300%).
	MaxContrast = 3.0
)

var bounds = [NumStages]Bound{
	StageInvert:     {0, 1},
	StageSepia:      {0, 1},
	StageSaturate:   {0, MaxSaturate},
	StageHueRotate:  {0, 360},
	StageBrightness: {0, MaxBrightness},
	StageContrast:   {0, MaxContrast},
}

// Bound returns the parameter range of s, or the zero Bound for an unknown
// stage.
func (s Stage) Bound() Bound {
	if s < 0 || s >= NumStages {
		return Bound{}
	}
	return bounds[s]
}

// FilterParameters is the ordered parameter tuple of the chain.
// Invert and Sepia are fractions, HueRotate is in degrees and the rest are
// multipliers.
type FilterParameters struct {
	Invert     float64
	Sepia      float64
	Saturate   float64
	HueRotate  float64
	Brightness float64
	Contrast   float64
}

// Identity leaves every color unchanged.
var Identity = FilterParameters{
	Saturate:   1,
	Brightness: 1,
	Contrast:   1,
}

// Vector returns the parameters in stage order.
func (p FilterParameters) Vector() [NumStages]float64 {
	return [NumStages]float64{p.Invert, p.Sepia, p.Saturate, p.HueRotate, p.Brightness, p.Contrast}
}

func ParamsFromVector(v [NumStages]float64) FilterParameters {
	return FilterParameters{
		Invert:     v[StageInvert],
		Sepia:      v[StageSepia],
		Saturate:   v[StageSaturate],
		HueRotate:  v[StageHueRotate],
		Brightness: v[StageBrightness],
		Contrast:   v[StageContrast],
	}
}

// Clamp forces every parameter into its bound. Hue-rotate wraps modulo 360,
// the others saturate at the ends of their range.
func (p FilterParameters) Clamp() FilterParameters {
	v := p.Vector()
	for i, s := range stages {
		v[i] = clampStage(s, v[i])
	}
	return ParamsFromVector(v)
}

// InBounds reports whether every parameter lies in its bound.
func (p FilterParameters) InBounds() bool {
	v := p.Vector()
	for i, s := range stages {
		b := bounds[s]
		x := v[i]
		if math.IsNaN(x) || x < b.Min {
			return false
		}
		if s == StageHueRotate {
			if x >= b.Max {
				return false
			}
		} else if x > b.Max {
			return false
		}
	}
	return true
}

func clampStage(s Stage, x float64) float64 {
	b := bounds[s]
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return b.Min
	}
	if s == StageHueRotate {
		x = math.Mod(x, b.Max)
		if x < 0 {
			x += b.Max
		}
		// Mod of a tiny negative value can round up to exactly 360, and Mod
		// keeps the sign of -0.
		if x >= b.Max || x == 0 {
			x = 0
		}
		return x
	}
	return max(b.Min, min(b.Max, x))
}

// paramDistance is the largest per-stage difference between a and b as a
// fraction of the stage span. Hue-rotate is measured around the circle.
func paramDistance(a, b FilterParameters) float64 {
	va, vb := a.Vector(), b.Vector()
	d := 0.0
	for i, s := range stages {
		x := math.Abs(va[i] - vb[i])
		span := bounds[s].Span()
		if s == StageHueRotate {
			x = math.Min(x, span-x)
		}
		d = max(d, x/span)
	}
	return d
}
