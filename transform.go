package monofilter

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Luma weights shared by the saturate and hue-rotate matrices.
const (
	lumaR = 0.213
	lumaG = 0.715
	lumaB = 0.072
)

// Apply runs the whole chain over input. Every stage clamps its output to
// [0,255] before the next one consumes it, as a compositor does.
func Apply(p FilterParameters, input RGBColor) RGBColor {
	c := input.Clamped()
	for _, s := range stages {
		c = ApplyStage(s, p, c)
	}
	return c
}

// ApplyStage runs a single stage of the chain with its parameter taken from p.
// The result is clamped.
func ApplyStage(s Stage, p FilterParameters, c RGBColor) RGBColor {
	switch s {
	case StageInvert:
		return invert(c, p.Invert)
	case StageSepia:
		return multiply(sepiaMatrix(p.Sepia), c)
	case StageSaturate:
		return multiply(saturateMatrix(p.Saturate), c)
	case StageHueRotate:
		return multiply(hueRotateMatrix(p.HueRotate), c)
	case StageBrightness:
		return brightness(c, p.Brightness)
	case StageContrast:
		return contrast(c, p.Contrast)
	}
	return c
}

// Trace returns the color after every stage, in chain order.
func Trace(p FilterParameters, input RGBColor) [NumStages]RGBColor {
	var out [NumStages]RGBColor
	c := input.Clamped()
	for i, s := range stages {
		c = ApplyStage(s, p, c)
		out[i] = c
	}
	return out
}

func invert(c RGBColor, a float64) RGBColor {
	return RGBColor{
		c.R + a*(255-2*c.R),
		c.G + a*(255-2*c.G),
		c.B + a*(255-2*c.B),
	}.Clamped()
}

func brightness(c RGBColor, b float64) RGBColor {
	return RGBColor{c.R * b, c.G * b, c.B * b}.Clamped()
}

func contrast(c RGBColor, k float64) RGBColor {
	return RGBColor{
		(c.R-128)*k + 128,
		(c.G-128)*k + 128,
		(c.B-128)*k + 128,
	}.Clamped()
}

func multiply(m *mat.Dense, c RGBColor) RGBColor {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{c.R, c.G, c.B}))
	return RGBColor{out.AtVec(0), out.AtVec(1), out.AtVec(2)}.Clamped()
}

// sepiaMatrix blends the identity with the standard sepia matrix by a.
func sepiaMatrix(a float64) *mat.Dense {
	k := 1 - a
	return mat.NewDense(3, 3, []float64{
		0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k,
		0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k,
		0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k,
	})
}

// saturateMatrix scales the deviation of each channel from luma by s.
func saturateMatrix(s float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		lumaR + (1-lumaR)*s, lumaG - lumaG*s, lumaB - lumaB*s,
		lumaR - lumaR*s, lumaG + (1-lumaG)*s, lumaB - lumaB*s,
		lumaR - lumaR*s, lumaG - lumaG*s, lumaB + (1-lumaB)*s,
	})
}

// hueRotateMatrix rotates the color vector around the luma axis by deg.
func hueRotateMatrix(deg float64) *mat.Dense {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return mat.NewDense(3, 3, []float64{
		lumaR + cos*(1-lumaR) - sin*lumaR, lumaG - cos*lumaG - sin*lumaG, lumaB - cos*lumaB + sin*(1-lumaB),
		lumaR - cos*lumaR + sin*0.143, lumaG + cos*(1-lumaG) + sin*0.140, lumaB - cos*lumaB - sin*0.283,
		lumaR - cos*lumaR - sin*(1-lumaR), lumaG - cos*lumaG + sin*lumaG, lumaB + cos*(1-lumaB) + sin*lumaB,
	})
}
