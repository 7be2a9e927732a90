// Package convert is the carrier-prep helper: it quantizes an arbitrary
// 24-bit rgbbmp.Image (after any internal/filters adjustments) into the
// 8-bit indexed greyscale internal/bmp.Bitmap the sharing pipeline actually
// reads and writes. The core engine never touches 24-bit pixels directly;
// this package is the on-ramp.
package convert

import (
	"errors"

	"github.com/elsesec/shadowsplit/internal/bmp"
	"github.com/elsesec/shadowsplit/internal/rgbbmp"
)

// ToGreyscaleBitmap flattens img's BGR pixels to single-byte luma samples
// and lays them out as an 8-bit indexed bmp.Bitmap with the standard
// greyscale palette, ready to use as a carrier or secret.
func ToGreyscaleBitmap(img *rgbbmp.Image) (*bmp.Bitmap, error) {
	height := len(img.Pixels)
	if height == 0 {
		return nil, errors.New("convert: image has no rows")
	}
	width := len(img.Pixels[0])
	if width == 0 {
		return nil, errors.New("convert: image has no columns")
	}

	size := bmp.PixelArraySize(uint32(width), uint32(height))
	out := bmp.NewBitmap(uint32(width), int32(height), 0, 0, int(size))

	stride := int(size) / height
	for row, pixels := range img.Pixels {
		base := row * stride
		for col, p := range pixels {
			out.Pixels[base+col] = luma(p)
		}
	}

	return out, nil
}

// luma reduces a BGR triple to one byte using the ITU-R 601-2 weights,
// matching internal/filters.GrayscaleLuma so pre-filtered and unfiltered
// carriers quantize consistently.
func luma(p rgbbmp.Pixel) byte {
	return byte(int(p.R)*299/1000 + int(p.G)*587/1000 + int(p.B)*114/1000)
}
