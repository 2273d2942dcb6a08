package utils

import (
	"image"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/setanarut/monofilter"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts the names returned by String.
func ParsePaletteMethod(s string) (PaletteMethod, bool) {
	switch s {
	case "kmeans":
		return PaletteMethodKMeans, true
	case "dominantcolor", "dominant", "":
		return PaletteMethodDominantColor, true
	}
	return PaletteMethodDominantColor, false
}

// WeightedColor is an accent candidate with its frequency.
type WeightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// AccentColors converts a palette to solver targets with whole channels.
func AccentColors(palette []colorful.Color) []monofilter.RGBColor {
	out := make([]monofilter.RGBColor, len(palette))
	for i, c := range palette {
		out[i] = monofilter.RGBFromColorful(c)
	}
	return out
}

// ExtractPalette picks k accent candidates from a reference image, e.g. a
// skin mockup. Colors are chosen to be far apart in Lab space, favoring
// frequent and chromatic ones.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(img, k)
	default:
		return ExtractDominantPalette(img, k)
	}
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(16, k*6))
	if len(candidates) == 0 {
		return []colorful.Color{{R: 0.5, G: 0.5, B: 0.5}}
	}
	weighted := make([]WeightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, WeightedColor{Col: col.Clamped(), Weight: c.Weight})
	}
	return SelectAccents(weighted, k)
}

func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample large images.
	const maxSamples = 8000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < 128 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*3, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	weighted := make([]WeightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, WeightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return SelectAccents(weighted, k)
}

// SelectAccents greedily picks k colors. The seed is the candidate with the
// best weight*chroma score; every next pick maximizes its Lab distance to the
// picks so far, scaled by weight and chroma.
func SelectAccents(cands []WeightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col    colorful.Color
		l, a   float64
		b      float64
		w      float64
		chroma float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		_, chroma, _ := col.Hcl()
		w := max(c.Weight, 1e-6)
		maxW = max(maxW, w)
		items = append(items, item{col: col, l: l, a: a, b: b, w: w, chroma: chroma})
	}
	k = min(k, len(items))

	// Accents are for tinting; gray candidates rank lower but stay eligible.
	score := func(it item) float64 {
		return (0.5 + 0.5*math.Sqrt(it.w/maxW)) * (0.4 + min(it.chroma, 1))
	}

	picked := make([]int, 0, k)
	used := make([]bool, len(items))
	seed := 0
	for i := range items {
		if score(items[i]) > score(items[seed]) {
			seed = i
		}
	}
	picked = append(picked, seed)
	used[seed] = true

	for len(picked) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range items {
			if used[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				dl := items[i].l - items[s].l
				da := items[i].a - items[s].a
				db := items[i].b - items[s].b
				minD2 = min(minD2, dl*dl+da*da+db*db)
			}
			sc := math.Sqrt(minD2) * score(items[i])
			if sc > bestScore {
				bestScore = sc
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		picked = append(picked, bestIdx)
	}

	out := make([]colorful.Color, 0, len(picked))
	for _, i := range picked {
		out = append(out, items[i].col)
	}
	return out
}
