package monofilter

import (
	"cmp"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

type Options struct {
	// Number of uniform random draws in the wide search.
	// Ideal start: 1000-2000. Each draw costs one pipeline evaluation.
	// Too low => the annealing starts in the wrong basin more often.
	Samples int
	// Annealing iterations per round.
	// Ideal start: 1000-3000.
	Iterations int
	// Annealing rounds. Every round reheats to InitialTemperature and starts
	// from the next wide search candidate that differs from the earlier ones
	// by more than a quarter of some stage span; once those run out it starts
	// from the best candidate seen so far. Rounds stop as soon as Epsilon is reached, so
	// most colors use one or two.
	// Ideal start: 12-24. Too low => hard colors stay in the wrong basin.
	Rounds int
	// Starting temperature in loss units.
	// Ideal start: 30-100. Higher => more uphill moves accepted early on.
	InitialTemperature float64
	// Temperature reached on the last iteration of a round (geometric decay).
	// Ideal start: 0.005-0.05.
	FinalTemperature float64
	// Perturbation size as a fraction of each parameter span at
	// InitialTemperature. Shrinks with the temperature.
	// Ideal start: 0.1-0.3.
	StepScale float64
	// Convergence threshold. The search stops once the best loss is at or
	// below Epsilon.
	Epsilon float64
	// Loss slack allowed when quantizing the descriptor.
	FormatEpsilon float64
	// Seed for the search. The target color is mixed in, so one seed is
	// enough for every color.
	Seed uint64
	// Loss weights.
	Weights Weights
	// Progress logger; nil discards.
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Samples:            1500,
		Iterations:         1500,
		Rounds:             20,
		InitialTemperature: 60,
		FinalTemperature:   0.01,
		StepScale:          0.2,
		Epsilon:            0.25,
		FormatEpsilon:      1.0,
		Seed:               1,
		Weights:            DefaultWeights,
	}
}

// normalized fills in unusable values.
func (o Options) normalized() Options {
	def := DefaultOptions()
	o.Samples = max(o.Samples, 1)
	o.Iterations = max(o.Iterations, 0)
	o.Rounds = max(o.Rounds, 1)
	if o.InitialTemperature <= 0 {
		o.InitialTemperature = def.InitialTemperature
	}
	if o.FinalTemperature <= 0 || o.FinalTemperature >= o.InitialTemperature {
		o.FinalTemperature = o.InitialTemperature * 1e-3
	}
	if o.StepScale <= 0 {
		o.StepScale = def.StepScale
	}
	o.Epsilon = max(o.Epsilon, 0)
	o.FormatEpsilon = max(o.FormatEpsilon, 0)
	if o.Weights.RGB <= 0 {
		o.Weights = DefaultWeights
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// SolverResult is the outcome of Solve. Descriptor and Loss are what callers
// normally need; the rest documents how they were reached.
type SolverResult struct {
	// Descriptor is the quantized filter chain.
	Descriptor string
	// Loss of the quantized parameters.
	Loss float64
	// Params are the quantized parameters encoded by Descriptor.
	Params FilterParameters
	// Achieved is Apply(Params, Black).
	Achieved RGBColor
	// Precision the formatter settled on.
	Precision Precision
	// RawParams is the best unquantized candidate.
	RawParams FilterParameters
	// RawAchieved is Apply(RawParams, Black).
	RawAchieved RGBColor
	// RawLoss is the loss of RawParams.
	RawLoss float64
	// Phase1Loss is the best loss of the wide search.
	Phase1Loss float64
	// Evaluations counts pipeline evaluations.
	Evaluations int
	// Converged reports whether RawLoss reached Options.Epsilon.
	Converged bool
}

// SolveHex parses s and solves it. No search runs on a parse error.
func SolveHex(s string, opt Options) (SolverResult, error) {
	target, err := ParseHex(s)
	if err != nil {
		return SolverResult{}, err
	}
	return Solve(target, opt), nil
}

// Solve searches for filter parameters reproducing target from black.
// It never fails; a poor match shows up as a high Loss, and callers decide
// what loss they can live with.
func Solve(target RGBColor, opt Options) SolverResult {
	opt = opt.normalized()
	target = target.Clamped()
	src := rand.NewPCG(opt.Seed, target.pack())
	s := &search{
		target: target,
		opt:    opt,
		src:    src,
		rng:    rand.New(src),
		log:    opt.Logger.With("target", target.Hex()),
	}

	starts := s.wide()
	best := starts[0]
	phase1 := best.Loss
	s.log.Debug("wide search done", "samples", opt.Samples, "loss", phase1, "starts", len(starts))
	if best.Loss > opt.Epsilon {
		best = s.refine(starts)
	}

	f := Format(target, best.Params, opt.FormatEpsilon, opt.Weights)
	s.log.Debug("solved",
		"descriptor", f.Descriptor,
		"loss", f.Loss,
		"rawLoss", best.Loss,
		"precision", f.Precision,
		"evaluations", s.evals)

	return SolverResult{
		Descriptor:  f.Descriptor,
		Loss:        f.Loss,
		Params:      f.Params,
		Achieved:    f.Achieved,
		Precision:   f.Precision,
		RawParams:   best.Params,
		RawAchieved: best.Achieved,
		RawLoss:     best.Loss,
		Phase1Loss:  phase1,
		Evaluations: s.evals,
		Converged:   best.Loss <= opt.Epsilon,
	}
}

// search holds the per-call state of one Solve.
type search struct {
	target RGBColor
	opt    Options
	src    rand.Source
	rng    *rand.Rand
	log    *slog.Logger
	evals  int
}

func (s *search) eval(p FilterParameters) CandidateResult {
	s.evals++
	return Evaluate(s.target, p, s.opt.Weights)
}

// minStartDistance separates annealing starts, as a fraction of the span of
// the stage that differs most.
const minStartDistance = 0.25

// wide draws Samples uniform candidates over the bound table. It returns up
// to Rounds of them, best first, no two closer than minStartDistance.
func (s *search) wide() []CandidateResult {
	var dists [NumStages]distuv.Uniform
	for i, st := range stages {
		b := st.Bound()
		dists[i] = distuv.Uniform{Min: b.Min, Max: b.Max, Src: s.src}
	}
	pool := make([]CandidateResult, 0, s.opt.Samples)
	for range s.opt.Samples {
		var v [NumStages]float64
		for i := range dists {
			v[i] = dists[i].Rand()
		}
		c := s.eval(ParamsFromVector(v).Clamp())
		pool = append(pool, c)
		if c.Loss <= s.opt.Epsilon {
			break
		}
	}
	return distinctStarts(pool, s.opt.Rounds)
}

// distinctStarts sorts pool by loss and greedily keeps up to n candidates
// that are pairwise more than minStartDistance apart. The best candidate is
// always kept first.
func distinctStarts(pool []CandidateResult, n int) []CandidateResult {
	slices.SortStableFunc(pool, func(a, b CandidateResult) int {
		return cmp.Compare(a.Loss, b.Loss)
	})
	starts := make([]CandidateResult, 0, n)
	for _, c := range pool {
		if len(starts) == n {
			break
		}
		near := slices.ContainsFunc(starts, func(o CandidateResult) bool {
			return paramDistance(c.Params, o.Params) <= minStartDistance
		})
		if !near {
			starts = append(starts, c)
		}
	}
	return starts
}

// refine anneals once per round, round r starting from starts[r] or, past
// the end of starts, from the best candidate so far. The returned candidate
// is the best one seen, which is never worse than starts[0].
func (s *search) refine(starts []CandidateResult) CandidateResult {
	t0, t1 := s.opt.InitialTemperature, s.opt.FinalTemperature
	m := s.opt.Iterations
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: s.src}
	best := starts[0]
	for round := range s.opt.Rounds {
		cur := best
		if round < len(starts) {
			cur = starts[round]
		}
		startLoss := cur.Loss
		accepted := 0
		for i := range m {
			t := Temperature(i, m, t0, t1)
			next := s.eval(s.perturb(cur.Params, s.opt.StepScale*t/t0, noise))
			if Accept(next.Loss-cur.Loss, t, s.rng.Float64()) {
				cur = next
				accepted++
			}
			if cur.Loss < best.Loss {
				best = cur
			}
			if best.Loss <= s.opt.Epsilon {
				s.log.Debug("converged", "round", round, "iter", i, "loss", best.Loss)
				return best
			}
			if i%1000 == 0 {
				s.log.Debug("anneal", "round", round, "iter", i, "temp", t, "loss", cur.Loss, "best", best.Loss)
			}
		}
		s.log.Debug("anneal round done", "round", round, "start", startLoss, "accepted", accepted, "best", best.Loss)
	}
	return best
}

// perturb moves every parameter by a gaussian step of scale times its span
// and clamps the result back into the bound table.
func (s *search) perturb(p FilterParameters, scale float64, noise distuv.Normal) FilterParameters {
	v := p.Vector()
	for i, st := range stages {
		v[i] += noise.Rand() * st.Bound().Span() * scale
	}
	return ParamsFromVector(v).Clamp()
}

// Temperature is the geometric cooling schedule: t0 at iteration 0 and t1 at
// iteration m-1.
func Temperature(i, m int, t0, t1 float64) float64 {
	if m <= 1 || i <= 0 {
		return t0
	}
	if i >= m-1 {
		return t1
	}
	return t0 * math.Pow(t1/t0, float64(i)/float64(m-1))
}

// Accept is the Metropolis rule. Improvements are always taken; a worse
// candidate is taken when u < exp(-delta/t). u is uniform in [0,1).
func Accept(delta, t, u float64) bool {
	if delta <= 0 {
		return true
	}
	if t <= 0 || math.IsNaN(delta) {
		return false
	}
	return u < math.Exp(-delta/t)
}
