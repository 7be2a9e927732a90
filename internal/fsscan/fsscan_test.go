package fsscan

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elsesec/shadowsplit/internal/bmp"
	"github.com/elsesec/shadowsplit/internal/shaderr"
)

func writeBitmap(t *testing.T, fs afero.Fs, path string, b *bmp.Bitmap) {
	t.Helper()
	require.NoError(t, b.Save(fs, path))
}

func TestListRegularFilesIsSortedAndSkipsDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dir/sub", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/dir/b.bmp", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dir/a.bmp", []byte("x"), 0o644))

	names, err := ListRegularFiles(fs, "/dir")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.bmp", "b.bmp"}, names)
}

func TestCountRegularFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dir/a.bmp", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dir/b.bmp", []byte("x"), 0o644))

	n, err := CountRegularFiles(fs, "/dir")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSelectCarriersPicksQualifyingBMPsInOrder(t *testing.T) {
	fs := afero.NewMemMapFs()

	// 4x4 = 16 pixels, divisible by k=2, and >= 8*(16/2)=64 needed, so
	// enlarge to a carrier big enough: 64 pixels (8x8).
	good1 := bmp.NewBitmap(8, 8, 0, 0, 64)
	good2 := bmp.NewBitmap(8, 8, 0, 0, 64)
	tooSmall := bmp.NewBitmap(2, 2, 0, 0, 4)

	writeBitmap(t, fs, "/dir/a_good.bmp", good1)
	writeBitmap(t, fs, "/dir/b_small.bmp", tooSmall)
	writeBitmap(t, fs, "/dir/c_good.bmp", good2)
	require.NoError(t, afero.WriteFile(fs, "/dir/d_notbmp.txt", []byte("nope"), 0o644))

	selected, err := SelectCarriers(fs, "/dir", 2, 2, 16)
	require.NoError(t, err)
	assert.Equal(t, []string{"/dir/a_good.bmp", "/dir/c_good.bmp"}, selected)
}

func TestSelectCarriersInsufficientCarriers(t *testing.T) {
	fs := afero.NewMemMapFs()
	good := bmp.NewBitmap(8, 8, 0, 0, 64)
	writeBitmap(t, fs, "/dir/only.bmp", good)

	_, err := SelectCarriers(fs, "/dir", 2, 2, 16)
	require.Error(t, err)
	kind, ok := shaderr.As(err)
	require.True(t, ok)
	assert.Equal(t, shaderr.InsufficientCarriers, kind)
}

func TestSelectShadowCarriersRequiresNonzeroIndex(t *testing.T) {
	fs := afero.NewMemMapFs()

	shadowed := bmp.NewBitmap(8, 8, 691, 1, 64)
	plain := bmp.NewBitmap(8, 8, 0, 0, 64)

	writeBitmap(t, fs, "/dir/a_shadowed.bmp", shadowed)
	writeBitmap(t, fs, "/dir/b_plain.bmp", plain)

	selected, err := SelectShadowCarriers(fs, "/dir", 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"/dir/a_shadowed.bmp"}, selected)
}

func TestSelectShadowCarriersInsufficientCarriers(t *testing.T) {
	fs := afero.NewMemMapFs()
	plain := bmp.NewBitmap(8, 8, 0, 0, 64)
	writeBitmap(t, fs, "/dir/plain.bmp", plain)

	_, err := SelectShadowCarriers(fs, "/dir", 2, 4, 4)
	require.Error(t, err)
	kind, ok := shaderr.As(err)
	require.True(t, ok)
	assert.Equal(t, shaderr.InsufficientCarriers, kind)
}
