package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elsesec/shadowsplit/internal/rgbbmp"
)

func solid(width, height int, p rgbbmp.Pixel) *rgbbmp.Image {
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

func TestInvert(t *testing.T) {
	img := solid(2, 1, rgbbmp.Pixel{R: 10, G: 20, B: 30})
	Invert(img)
	assert.Equal(t, rgbbmp.Pixel{R: 245, G: 235, B: 225}, img.Pixels[0][0])
}

func TestGrayscaleFlatAverage(t *testing.T) {
	img := solid(1, 1, rgbbmp.Pixel{R: 10, G: 20, B: 30})
	Grayscale(img)
	want := byte((10 + 20 + 30) / 3)
	assert.Equal(t, rgbbmp.Pixel{R: want, G: want, B: want}, img.Pixels[0][0])
}

func TestGrayscaleLumaWeights(t *testing.T) {
	img := solid(1, 1, rgbbmp.Pixel{R: 10, G: 20, B: 30})
	GrayscaleLuma(img)
	want := byte(10*299/1000 + 20*587/1000 + 30*114/1000)
	assert.Equal(t, rgbbmp.Pixel{R: want, G: want, B: want}, img.Pixels[0][0])
}

func TestBrightnessAddClips(t *testing.T) {
	img := solid(1, 1, rgbbmp.Pixel{R: 250, G: 10, B: 0})
	require.NoError(t, Brightness(img, 20, "add"))
	assert.Equal(t, rgbbmp.Pixel{R: 255, G: 30, B: 20}, img.Pixels[0][0])
}

func TestBrightnessRejectsUnknownMethod(t *testing.T) {
	img := solid(1, 1, rgbbmp.Pixel{})
	assert.Error(t, Brightness(img, 1, "bogus"))
}

func TestContrastUsesPerChannelMean(t *testing.T) {
	img := &rgbbmp.Image{Pixels: [][]rgbbmp.Pixel{
		{{R: 0, G: 50, B: 200}, {R: 100, G: 150, B: 200}},
	}}
	img.UpdateMeta()

	Contrast(img, 2.0)

	// meanR=50, meanG=100, meanB=200 (B already uniform, stays put).
	assert.Equal(t, rgbbmp.Pixel{R: 0, G: 0, B: 200}, img.Pixels[0][0])
	assert.Equal(t, rgbbmp.Pixel{R: 150, G: 200, B: 200}, img.Pixels[0][1])
}
