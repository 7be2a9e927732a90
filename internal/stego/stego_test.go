package stego

import (
	"testing"

	"github.com/elsesec/shadowsplit/internal/bmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarrier(n int) *bmp.Bitmap {
	c := bmp.NewBitmap(uint32(n), 1, 0, 0, n)
	for i := range c.Pixels {
		c.Pixels[i] = 0xAA // 10101010, arbitrary high-bit-varied content
	}
	return c
}

func TestHideRevealRoundTrip(t *testing.T) {
	shadow := bmp.NewShadow(4, 4, 691, 3)
	for i := range shadow.Pixels {
		shadow.Pixels[i] = byte(i * 17)
	}

	carrier := newCarrier(8 * len(shadow.Pixels))
	hidden, err := Hide(carrier, shadow)
	require.NoError(t, err)

	assert.Equal(t, shadow.Seed, hidden.Seed)
	assert.Equal(t, shadow.ShadowIndex, hidden.ShadowIndex)

	revealed, err := Reveal(hidden, len(shadow.Pixels))
	require.NoError(t, err)
	assert.Equal(t, shadow.Pixels, revealed.Pixels)
	assert.Equal(t, shadow.Seed, revealed.Seed)
	assert.Equal(t, shadow.ShadowIndex, revealed.ShadowIndex)
}

func TestHidePreservesHighSevenBits(t *testing.T) {
	shadow := bmp.NewShadow(2, 2, 1, 1)
	shadow.Pixels = []byte{0x00, 0xFF, 0x80, 0x01}

	carrier := newCarrier(8 * len(shadow.Pixels))
	hidden, err := Hide(carrier, shadow)
	require.NoError(t, err)

	for i := range carrier.Pixels {
		assert.Equal(t, carrier.Pixels[i]&0xFE, hidden.Pixels[i]&0xFE)
	}
}

func TestHideRejectsUndersizedCarrier(t *testing.T) {
	shadow := bmp.NewShadow(4, 4, 0, 1)
	carrier := newCarrier(8*len(shadow.Pixels) - 1)

	_, err := Hide(carrier, shadow)
	assert.Error(t, err)
}

func TestHideIsMSBFirst(t *testing.T) {
	shadow := bmp.NewShadow(1, 1, 0, 1)
	shadow.Pixels = []byte{0b10110010}

	carrier := newCarrier(8)
	hidden, err := Hide(carrier, shadow)
	require.NoError(t, err)

	expectedLSBs := []byte{1, 0, 1, 1, 0, 0, 1, 0}
	for i, bit := range expectedLSBs {
		assert.Equal(t, bit, hidden.Pixels[i]&0x01, "bit %d", i)
	}
}
