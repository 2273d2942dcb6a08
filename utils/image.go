package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	// Registered for ReadImage.
	_ "image/jpeg"

	"github.com/setanarut/monofilter"
)

// Recolor renders a monochrome asset through the filter chain, the way a
// compositor applies a descriptor. Alpha is kept as is; fully transparent
// pixels are left untouched.
func Recolor(img image.Image, p monofilter.FilterParameters) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	memo := make(map[[3]uint8]color.NRGBA)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if src.A == 0 {
				continue
			}
			key := [3]uint8{src.R, src.G, src.B}
			dst, ok := memo[key]
			if !ok {
				c := monofilter.Apply(p, monofilter.NewRGB(src.R, src.G, src.B)).Rounded()
				dst = color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B)}
				memo[key] = dst
			}
			dst.A = src.A
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, dst)
		}
	}
	return out
}

func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Swatches draws one column per pair: target on the top half, achieved on
// the bottom half.
func Swatches(targets, achieved []monofilter.RGBColor, tileSize int) (*image.RGBA, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if len(targets) != len(achieved) {
		return nil, fmt.Errorf("swatch count mismatch: %d targets, %d achieved", len(targets), len(achieved))
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(targets), tileSize*2))
	for i := range targets {
		fill(img, i*tileSize, 0, tileSize, targets[i])
		fill(img, i*tileSize, tileSize, tileSize, achieved[i])
	}
	return img, nil
}

// SaveSwatches writes Swatches as a PNG.
func SaveSwatches(targets, achieved []monofilter.RGBColor, tileSize int, filename string) error {
	img, err := Swatches(targets, achieved, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(img, filename)
}

func fill(img *image.RGBA, x0, y0, size int, c monofilter.RGBColor) {
	r := c.Clamped().Rounded()
	rgba := color.RGBA{R: uint8(r.R), G: uint8(r.G), B: uint8(r.B), A: 255}
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetRGBA(x, y, rgba)
		}
	}
}
