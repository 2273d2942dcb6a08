package monofilter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Precision is the granularity of descriptor values.
type Precision int

const (
	// PrecisionCoarse uses whole percentage points and whole degrees.
	PrecisionCoarse Precision = iota
	// PrecisionFine uses one decimal place.
	PrecisionFine
	// PrecisionFull keeps the value unrounded.
	PrecisionFull
)

func (p Precision) String() string {
	switch p {
	case PrecisionCoarse:
		return "coarse"
	case PrecisionFine:
		return "fine"
	default:
		return "full"
	}
}

// Formatted is a quantized descriptor together with its re-evaluated loss.
type Formatted struct {
	Descriptor string
	Params     FilterParameters
	Achieved   RGBColor
	Precision  Precision
	Loss       float64
}

// Format quantizes params at the coarsest precision whose loss stays within
// epsilon of the unquantized loss. Full precision is the fallback.
func Format(target RGBColor, params FilterParameters, epsilon float64, w Weights) Formatted {
	params = params.Clamp()
	limit := w.Loss(target, Apply(params, Black)) + epsilon
	var f Formatted
	for _, prec := range []Precision{PrecisionCoarse, PrecisionFine, PrecisionFull} {
		q := params.Quantize(prec)
		achieved := Apply(q, Black)
		f = Formatted{
			Descriptor: params.Descriptor(prec),
			Params:     q,
			Achieved:   achieved,
			Precision:  prec,
			Loss:       w.Loss(target, achieved),
		}
		if f.Loss <= limit {
			break
		}
	}
	return f
}

// Quantize returns the parameters exactly as ParseDescriptor reads them back
// from Descriptor(prec).
func (p FilterParameters) Quantize(prec Precision) FilterParameters {
	d := p.displayValues(prec)
	var v [NumStages]float64
	for i, s := range stages {
		v[i] = fromDisplay(s, d[i])
	}
	return ParamsFromVector(v)
}

// Descriptor encodes the chain in stage order, e.g.
//
//	invert(12%) sepia(34%) saturate(560%) hue-rotate(291deg) brightness(104%) contrast(98%)
func (p FilterParameters) Descriptor(prec Precision) string {
	d := p.displayValues(prec)
	var sb strings.Builder
	for i, s := range stages {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.String())
		sb.WriteByte('(')
		sb.WriteString(strconv.FormatFloat(d[i], 'f', -1, 64))
		sb.WriteString(unit(s))
		sb.WriteByte(')')
	}
	return sb.String()
}

func (p FilterParameters) String() string { return p.Descriptor(PrecisionFull) }

// ParseDescriptor reads a descriptor produced by Descriptor. Stages must
// appear in chain order. "none" reads as Identity.
func ParseDescriptor(s string) (FilterParameters, error) {
	s = strings.TrimSpace(s)
	if s == "none" {
		return Identity, nil
	}
	fields := strings.Fields(s)
	if len(fields) != NumStages {
		return FilterParameters{}, fmt.Errorf("%w: want %d stages, got %d", ErrInvalidDescriptor, NumStages, len(fields))
	}
	var v [NumStages]float64
	for i, st := range stages {
		x, err := parseStage(st, fields[i])
		if err != nil {
			return FilterParameters{}, err
		}
		v[i] = x
	}
	p := ParamsFromVector(v)
	if !p.InBounds() {
		return FilterParameters{}, fmt.Errorf("%w: %q: parameter out of bounds", ErrInvalidDescriptor, s)
	}
	return p, nil
}

func parseStage(st Stage, field string) (float64, error) {
	name := st.String()
	body, ok := strings.CutPrefix(field, name+"(")
	if !ok {
		return 0, fmt.Errorf("%w: stage %d: want %s(...), got %q", ErrInvalidDescriptor, int(st)+1, name, field)
	}
	body, ok = strings.CutSuffix(body, unit(st)+")")
	if !ok {
		return 0, fmt.Errorf("%w: %q: want unit %q", ErrInvalidDescriptor, field, unit(st))
	}
	if !plainDecimal(body) {
		return 0, fmt.Errorf("%w: %q: want a plain decimal number", ErrInvalidDescriptor, field)
	}
	x, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: bad number", ErrInvalidDescriptor, field)
	}
	return fromDisplay(st, x), nil
}

// plainDecimal reports whether s is digits with at most one decimal point,
// the only number form Descriptor writes. Signs, exponents, hex floats and
// underscores are rejected even though ParseFloat takes them.
func plainDecimal(s string) bool {
	digits, dot := 0, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// displayValues converts to descriptor units (percent or degrees) and rounds
// them to prec.
func (p FilterParameters) displayValues(prec Precision) [NumStages]float64 {
	v := p.Clamp().Vector()
	var d [NumStages]float64
	for i, s := range stages {
		x := v[i]
		if s != StageHueRotate {
			x *= 100
		}
		switch prec {
		case PrecisionCoarse:
			x = math.Round(x)
		case PrecisionFine:
			x = math.Round(x*10) / 10
		}
		if s == StageHueRotate && x >= bounds[s].Max {
			x -= bounds[s].Max
		}
		d[i] = x
	}
	return d
}

func fromDisplay(s Stage, x float64) float64 {
	if s == StageHueRotate {
		return x
	}
	return x / 100
}

func unit(s Stage) string {
	if s == StageHueRotate {
		return "deg"
	}
	return "%"
}
