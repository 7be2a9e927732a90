package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elsesec/shadowsplit/internal/rgbbmp"
)

func solidImage(width, height int, p rgbbmp.Pixel) *rgbbmp.Image {
	pixels := make([][]rgbbmp.Pixel, height)
	for row := range pixels {
		pixels[row] = make([]rgbbmp.Pixel, width)
		for col := range pixels[row] {
			pixels[row][col] = p
		}
	}
	img := &rgbbmp.Image{Pixels: pixels}
	img.UpdateMeta()
	return img
}

func TestToGreyscaleBitmapMatchesLumaWeights(t *testing.T) {
	img := solidImage(4, 3, rgbbmp.Pixel{R: 10, G: 20, B: 30})
	want := byte(10*299/1000 + 20*587/1000 + 30*114/1000)

	b, err := ToGreyscaleBitmap(img)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), b.Width)
	assert.Equal(t, int32(3), b.Height)
	for _, px := range b.Pixels {
		assert.Equal(t, want, px)
	}
}

func TestToGreyscaleBitmapRejectsEmptyImage(t *testing.T) {
	img := &rgbbmp.Image{}
	_, err := ToGreyscaleBitmap(img)
	assert.Error(t, err)
}

func TestToGreyscaleBitmapPreservesRowLayout(t *testing.T) {
	img := &rgbbmp.Image{Pixels: [][]rgbbmp.Pixel{
		{{R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 0}},
	}}
	img.UpdateMeta()

	b, err := ToGreyscaleBitmap(img)
	require.NoError(t, err)
	// Each weighted term is truncated on its own: 76 + 149 + 29 = 254.
	assert.Equal(t, byte(254), b.Pixels[0])
	assert.Equal(t, byte(0), b.Pixels[1])
}
