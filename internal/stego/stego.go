// Package stego implements the LSB steganographic pairing that hides one
// shadow image inside a carrier's pixel bytes: each shadow byte is spread
// MSB-first across the least-significant bit of 8 consecutive carrier
// pixels.
package stego

import (
	"fmt"

	"github.com/elsesec/shadowsplit/internal/bmp"
)

// Hide returns a copy of carrier with shadow embedded into its pixels' LSBs
// and the shadow's seed/shadow-index copied into carrier's reserved header
// slots. carrier must have at least 8*len(shadow.Pixels) pixel bytes.
func Hide(carrier *bmp.Bitmap, shadow *bmp.Bitmap) (*bmp.Bitmap, error) {
	need := 8 * len(shadow.Pixels)
	if len(carrier.Pixels) < need {
		return nil, fmt.Errorf("stego: carrier has %d pixel bytes, need at least %d to hide this shadow", len(carrier.Pixels), need)
	}

	out := &bmp.Bitmap{
		Width:       carrier.Width,
		Height:      carrier.Height,
		Seed:        shadow.Seed,
		ShadowIndex: shadow.ShadowIndex,
		Palette:     append([]byte(nil), carrier.Palette...),
		Pixels:      append([]byte(nil), carrier.Pixels...),
	}

	for i, b := range shadow.Pixels {
		base := i * 8
		mask := byte(0x80)
		for j := 0; j < 8; j++ {
			if b&mask != 0 {
				out.Pixels[base+j] |= 0x01
			} else {
				out.Pixels[base+j] &^= 0x01
			}
			mask >>= 1
		}
	}

	return out, nil
}

// Reveal extracts a shadow of shadowPixelLen bytes from carrier's LSBs.
// The returned shadow's seed and shadow index come from carrier's reserved
// header slots, which Hide placed there.
func Reveal(carrier *bmp.Bitmap, shadowPixelLen int) (*bmp.Bitmap, error) {
	need := 8 * shadowPixelLen
	if len(carrier.Pixels) < need {
		return nil, fmt.Errorf("stego: carrier has %d pixel bytes, need at least %d to reveal a %d-byte shadow", len(carrier.Pixels), need, shadowPixelLen)
	}

	pixels := make([]byte, shadowPixelLen)
	for i := range pixels {
		base := i * 8
		var b byte
		mask := byte(0x80)
		for j := 0; j < 8; j++ {
			if carrier.Pixels[base+j]&0x01 != 0 {
				b |= mask
			}
			mask >>= 1
		}
		pixels[i] = b
	}

	return &bmp.Bitmap{
		Seed:        carrier.Seed,
		ShadowIndex: carrier.ShadowIndex,
		Pixels:      pixels,
	}, nil
}
