package monofilter

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

// fastOptions keeps the search short; quality tests use DefaultOptions.
func fastOptions() Options {
	opt := DefaultOptions()
	opt.Samples = 200
	opt.Iterations = 600
	opt.Rounds = 1
	return opt
}

func solveHex(t *testing.T, hex string, opt Options) SolverResult {
	t.Helper()
	r, err := SolveHex(hex, opt)
	require.NoError(t, err)
	return r
}

func appliedDescriptor(t *testing.T, r SolverResult) RGBColor {
	t.Helper()
	p, err := ParseDescriptor(r.Descriptor)
	require.NoError(t, err)
	return Apply(p, Black)
}

func TestSolveBlack(t *testing.T) {
	r := solveHex(t, "#000000", DefaultOptions())
	assertColorInDelta(t, Black, appliedDescriptor(t, r), 2)
	assert.InDelta(t, 0, r.RawLoss, 1)
}

func TestSolveWhite(t *testing.T) {
	r := solveHex(t, "#ffffff", DefaultOptions())
	assertColorInDelta(t, White, appliedDescriptor(t, r), 2)
}

func TestSolveTargets(t *testing.T) {
	for _, hex := range []string{"#ff0db2", "#00aaff", "#33cc99", "#ff0000", "#123456"} {
		t.Run(hex, func(t *testing.T) {
			target, err := ParseHex(hex)
			require.NoError(t, err)
			r := solveHex(t, hex, DefaultOptions())
			got := appliedDescriptor(t, r)
			assertColorInDelta(t, target, got, 3, "descriptor %q gave %s", r.Descriptor, got)
			assert.Equal(t, r.Achieved, got)
		})
	}
}

func TestSolveConsistency(t *testing.T) {
	target := RGBColor{255, 13, 178}
	r := Solve(target, fastOptions())
	assert.Equal(t, Apply(r.RawParams, Black), r.RawAchieved)
	assert.InDelta(t, r.RawLoss, Loss(target, Apply(r.RawParams, Black)), 1e-9)
	assert.Equal(t, Apply(r.Params, Black), r.Achieved)
	assert.InDelta(t, r.Loss, Loss(target, r.Achieved), 1e-9)
}

func TestSolveDeterministic(t *testing.T) {
	opt := fastOptions()
	opt.Seed = 42
	a := solveHex(t, "#ff0db2", opt)
	b := solveHex(t, "#FF0DB2", opt)
	assert.Equal(t, a.Descriptor, b.Descriptor)
	assert.Equal(t, a, b)

	opt.Seed = 43
	c := solveHex(t, "#ff0db2", opt)
	assert.NotEqual(t, a.RawParams, c.RawParams)
}

// replayWide redraws the uniform candidates Solve starts from, using the same
// seed and draw order, and returns the best loss among them.
func replayWide(target RGBColor, opt Options) float64 {
	src := rand.NewPCG(opt.Seed, target.pack())
	best := math.Inf(1)
	for range opt.Samples {
		var v [NumStages]float64
		for i, st := range Stages() {
			b := st.Bound()
			v[i] = distuv.Uniform{Min: b.Min, Max: b.Max, Src: src}.Rand()
		}
		best = min(best, Evaluate(target, ParamsFromVector(v).Clamp(), opt.Weights).Loss)
		if best <= opt.Epsilon {
			break
		}
	}
	return best
}

func TestSolveMonotonicRefinement(t *testing.T) {
	opt := fastOptions()
	opt.Samples = 20
	opt.Iterations = 300
	opt.Rounds = 3
	for seed := range uint64(8) {
		opt.Seed = seed
		for _, hex := range []string{"#ff0db2", "#7f7f80", "#00ff00", "#fedcba"} {
			target, err := ParseHex(hex)
			require.NoError(t, err)
			r := Solve(target, opt)
			wide := replayWide(target, opt)
			assert.Equal(t, wide, r.Phase1Loss, "%s seed %d", hex, seed)
			assert.LessOrEqual(t, r.RawLoss, wide, "%s seed %d", hex, seed)
			assert.Equal(t, r.RawLoss <= opt.Epsilon, r.Converged)
		}
	}
}

func TestSolveRefinementImproves(t *testing.T) {
	// Twenty uniform draws almost never land within 3 per channel; the
	// annealing rounds have to do the work.
	opt := DefaultOptions()
	opt.Samples = 20
	for _, hex := range []string{"#ff0db2", "#00aaff", "#123456"} {
		target, err := ParseHex(hex)
		require.NoError(t, err)
		r := Solve(target, opt)
		assert.Less(t, r.RawLoss, replayWide(target, opt), hex)
		assert.Greater(t, r.Evaluations, opt.Samples, hex)
	}
}

func TestDistinctStarts(t *testing.T) {
	at := func(invert, loss float64) CandidateResult {
		return CandidateResult{Params: FilterParameters{Invert: invert, Saturate: 1, Brightness: 1, Contrast: 1}, Loss: loss}
	}
	pool := []CandidateResult{
		at(0.9, 7),
		at(0.1, 1),
		at(0.2, 2), // too close to 0.1
		at(0.5, 3), // too close to 0.6
		at(0.6, 0.5),
		at(0.95, 9), // too close to 0.9
	}
	starts := distinctStarts(pool, 4)
	losses := make([]float64, len(starts))
	for i, c := range starts {
		losses[i] = c.Loss
	}
	assert.Equal(t, []float64{0.5, 1, 7}, losses)

	assert.Len(t, distinctStarts(pool, 1), 1)
	assert.Equal(t, 0.5, distinctStarts(pool, 1)[0].Loss)
}

func TestSolveRandomTargets(t *testing.T) {
	if testing.Short() {
		t.Skip("full-budget solves")
	}
	rng := rand.New(rand.NewPCG(2024, 10))
	for range 50 {
		target := RGBColor{float64(rng.IntN(256)), float64(rng.IntN(256)), float64(rng.IntN(256))}
		t.Run(target.Hex(), func(t *testing.T) {
			r := Solve(target, DefaultOptions())
			got := appliedDescriptor(t, r)
			assert.LessOrEqual(t, got.MaxChannelDiff(target), 3.0,
				"descriptor %q gave %s, raw loss %.3f", r.Descriptor, got, r.RawLoss)
		})
	}
}

func TestSolveStaysInBounds(t *testing.T) {
	opt := fastOptions()
	opt.StepScale = 50
	opt.InitialTemperature = 1e9
	opt.FinalTemperature = 1e6
	for seed := range uint64(5) {
		opt.Seed = seed
		r := Solve(RGBColor{12, 240, 7}, opt)
		assert.True(t, r.RawParams.InBounds(), "raw %+v", r.RawParams)
		assert.True(t, r.Params.InBounds(), "quantized %+v", r.Params)
		_, err := ParseDescriptor(r.Descriptor)
		assert.NoError(t, err)
	}
}

func TestSolveQuantizationFidelity(t *testing.T) {
	opt := fastOptions()
	for _, hex := range []string{"#ff0db2", "#3c9", "#abcdef"} {
		r := solveHex(t, hex, opt)
		if r.Precision != PrecisionFull {
			assert.LessOrEqual(t, r.Loss, r.RawLoss+opt.FormatEpsilon, hex)
		}
	}
}

func TestSolveHexInvalid(t *testing.T) {
	_, err := SolveHex("#zzzzzz", DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidColorFormat)
}

func TestSolveZeroOptions(t *testing.T) {
	r := Solve(RGBColor{255, 13, 178}, Options{})
	assert.NotEmpty(t, r.Descriptor)
	assert.Equal(t, 1, r.Evaluations)
	assert.GreaterOrEqual(t, r.Loss, 0.0)
}

func TestTemperature(t *testing.T) {
	const m = 100
	assert.Equal(t, 60.0, Temperature(0, m, 60, 0.01))
	assert.Equal(t, 0.01, Temperature(m-1, m, 60, 0.01))
	prev := Temperature(0, m, 60, 0.01)
	for i := 1; i < m; i++ {
		cur := Temperature(i, m, 60, 0.01)
		assert.Less(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, 5.0, Temperature(3, 1, 5, 1))
}

func TestAccept(t *testing.T) {
	assert.True(t, Accept(-1, 1, 0.999))
	assert.True(t, Accept(0, 0, 0.999))
	assert.False(t, Accept(1, 0, 0))
	// exp(-1) ≈ 0.3679
	assert.True(t, Accept(1, 1, 0.36))
	assert.False(t, Accept(1, 1, 0.37))
	assert.False(t, Accept(1000, 1, 0))
}
