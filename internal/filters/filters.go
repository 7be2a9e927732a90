// Package filters performs whole-image color manipulation on rgbbmp images,
// used by the carrier-prep helper (internal/convert) to turn an arbitrary
// photo into a greyscale source before it is quantized into an 8-bit
// indexed carrier bitmap.
package filters

import (
	"errors"
	"math"

	"github.com/elsesec/shadowsplit/internal/rgbbmp"
)

// Invert negates every channel of every pixel in place.
func Invert(img *rgbbmp.Image) {
	for row := range img.Pixels {
		for col := range img.Pixels[row] {
			p := img.Pixels[row][col]
			img.Pixels[row][col] = rgbbmp.Pixel{
				R: 255 - p.R,
				G: 255 - p.G,
				B: 255 - p.B,
			}
		}
	}
}

// Grayscale converts the image to greyscale using a flat channel average.
func Grayscale(img *rgbbmp.Image) {
	for row := range img.Pixels {
		for col := range img.Pixels[row] {
			p := img.Pixels[row][col]
			avg := byte((int(p.R) + int(p.G) + int(p.B)) / 3)
			img.Pixels[row][col] = rgbbmp.Pixel{R: avg, G: avg, B: avg}
		}
	}
}

// GrayscaleLuma converts the image to greyscale using the ITU-R 601-2 luma
// transform, which tracks perceived brightness better than a flat average.
func GrayscaleLuma(img *rgbbmp.Image) {
	for row := range img.Pixels {
		for col := range img.Pixels[row] {
			p := img.Pixels[row][col]
			l := byte(int(p.R)*299/1000 + int(p.G)*587/1000 + int(p.B)*114/1000)
			img.Pixels[row][col] = rgbbmp.Pixel{R: l, G: l, B: l}
		}
	}
}

// Brightness adjusts brightness in place. method is "add" or "multiply";
// channel values are clipped to [0, 255].
func Brightness(img *rgbbmp.Image, factor float64, method string) error {
	var op func(x, y float64) float64
	switch method {
	case "add":
		op = func(x, y float64) float64 { return x + y }
	case "multiply":
		op = func(x, y float64) float64 { return x * y }
	default:
		return errors.New("filters: method must be add or multiply")
	}

	for row := range img.Pixels {
		for col := range img.Pixels[row] {
			p := img.Pixels[row][col]
			img.Pixels[row][col] = rgbbmp.Pixel{
				R: clip(op(float64(p.R), factor)),
				G: clip(op(float64(p.G), factor)),
				B: clip(op(float64(p.B), factor)),
			}
		}
	}
	return nil
}

// Contrast scales each channel away from (factor > 1) or toward (factor < 1)
// the image's per-channel mean.
func Contrast(img *rgbbmp.Image, factor float64) {
	var sumR, sumG, sumB, n int
	for _, row := range img.Pixels {
		for _, p := range row {
			sumR += int(p.R)
			sumG += int(p.G)
			sumB += int(p.B)
			n++
		}
	}
	if n == 0 {
		return
	}
	meanR := float64(sumR / n)
	meanG := float64(sumG / n)
	meanB := float64(sumB / n)

	for row := range img.Pixels {
		for col := range img.Pixels[row] {
			p := img.Pixels[row][col]
			img.Pixels[row][col] = rgbbmp.Pixel{
				R: clip(float64(p.R)*factor + (1-factor)*meanR),
				G: clip(float64(p.G)*factor + (1-factor)*meanG),
				B: clip(float64(p.B)*factor + (1-factor)*meanB),
			}
		}
	}
}

func clip(v float64) byte {
	return byte(math.Min(math.Max(v, 0), 255))
}
