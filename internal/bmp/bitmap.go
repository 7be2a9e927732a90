// Package bmp implements the bit-exact 8-bit indexed BMP container used by
// the rest of the system: secrets, carriers, and the shadow images hidden
// inside them. It preserves the two reserved header slots as explicit
// seed / shadow-index channels and never relies on a raw struct memory
// dump — every field is serialized by hand in little-endian order so the
// codec produces byte-identical output on little- and big-endian hosts.
package bmp

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/spf13/afero"

	"github.com/elsesec/shadowsplit/internal/shaderr"
)

const (
	// HeaderSize is the 14-byte BMP file header.
	HeaderSize = 14
	// DIBHeaderSize is the 40-byte BITMAPINFOHEADER.
	DIBHeaderSize = 40
	// PaletteSize is the size, in bytes, of a 256-entry BGRA palette.
	PaletteSize = 1024
	// PixelDataOffset is the fixed byte offset of the pixel array in every
	// bitmap this package produces.
	PixelDataOffset = HeaderSize + DIBHeaderSize + PaletteSize

	bitsPerPixel = 8
	compression  = 0
	planes       = 1
)

// Bitmap is the in-memory form of an 8-bit indexed greyscale BMP.
type Bitmap struct {
	Width  uint32
	Height int32 // sign selects on-disk row order; negative means top-down

	// Seed and ShadowIndex ride in the file header's two reserved 16-bit
	// slots. ShadowIndex is 0 for an ordinary image and the share's
	// x-coordinate (1..255) for a shadow.
	Seed        uint16
	ShadowIndex uint16

	Palette []byte // always PaletteSize bytes
	Pixels  []byte
}

// PixelArraySize returns the row-padded pixel array size for an image of
// the given dimensions: each row is padded up to a 4-byte boundary.
func PixelArraySize(width, height uint32) uint32 {
	stride := ((bitsPerPixel*width + 31) / 32) * 4
	return stride * height
}

// GreyscalePalette returns a fresh standard 8-bit greyscale palette: for
// i in 0..255, the BGRA quad (i, i, i, 0).
func GreyscalePalette() []byte {
	p := make([]byte, PaletteSize)
	for i := 0; i < 256; i++ {
		j := i * 4
		p[j] = byte(i)
		p[j+1] = byte(i)
		p[j+2] = byte(i)
		p[j+3] = 0
	}
	return p
}

// NewBitmap constructs an image with the standard greyscale palette and a
// zeroed pixel buffer of pixelLen bytes.
func NewBitmap(width uint32, height int32, seed, shadowIndex uint16, pixelLen int) *Bitmap {
	return &Bitmap{
		Width:       width,
		Height:      height,
		Seed:        seed,
		ShadowIndex: shadowIndex,
		Palette:     GreyscalePalette(),
		Pixels:      make([]byte, pixelLen),
	}
}

// NewShadow constructs a shadow image: width*height pixels with no row
// padding, per the convention that shadow dimensions are chosen so the
// pixel count already divides evenly (see ShadowDimensions).
func NewShadow(width, height uint32, seed, shadowIndex uint16) *Bitmap {
	return NewBitmap(width, int32(height), seed, shadowIndex, int(width*height))
}

// ShadowDimensions picks (width, height) for a shadow holding
// pixelsPerShadow pixels, choosing width as the largest divisor of
// pixelsPerShadow not exceeding floor(sqrt(pixelsPerShadow)), to keep the
// shadow as square as possible. It returns an error if no such divisor
// greater than 2 exists, rather than silently degrading to a zero-width
// image (see bmpsss.c's findclosestpair, which falls through to an
// uninitialized width in that case).
func ShadowDimensions(pixelsPerShadow uint32) (width, height uint32, err error) {
	if pixelsPerShadow == 0 {
		return 0, 0, errors.New("bmp: cannot size a shadow for zero pixels")
	}

	y := uint32(isqrt(pixelsPerShadow))
	for ; y > 2; y-- {
		if pixelsPerShadow%y == 0 {
			return y, pixelsPerShadow / y, nil
		}
	}
	return 0, 0, errors.New("bmp: no suitable (width, height) pair above 2 for this pixel count")
}

func isqrt(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	x := n
	for {
		next := (x + n/x) / 2
		if next >= x {
			return x
		}
		x = next
	}
}

// pixelDataSize reports how many pixel bytes follow the header+palette,
// mirroring bmpsss.c's bmpimagesize: trust the declared file size when
// present, otherwise fall back to width*height row-padded.
func pixelDataSize(fileSize, width, height uint32) uint32 {
	if fileSize > PixelDataOffset {
		return fileSize - PixelDataOffset
	}
	return PixelArraySize(width, height)
}

func absHeight(h int32) uint32 {
	if h < 0 {
		return uint32(-h)
	}
	return uint32(h)
}

// Load reads an 8-bit indexed BMP from fs, validating the fixed layout this
// package requires (uncompressed, 8 bits per pixel, 1 plane).
func Load(fs afero.Fs, path string) (*Bitmap, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an 8-bit indexed BMP from r.
func Decode(r io.Reader) (*Bitmap, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if header[0] != 'B' || header[1] != 'M' {
		return nil, shaderr.New(shaderr.NotABmp, "not a bitmap file")
	}
	fileSize := binary.LittleEndian.Uint32(header[2:6])
	seed := binary.LittleEndian.Uint16(header[6:8])
	shadowIndex := binary.LittleEndian.Uint16(header[8:10])
	offBits := binary.LittleEndian.Uint32(header[10:14])

	var dib [DIBHeaderSize]byte
	if _, err := io.ReadFull(r, dib[:]); err != nil {
		return nil, err
	}
	width := binary.LittleEndian.Uint32(dib[4:8])
	height := int32(binary.LittleEndian.Uint32(dib[8:12]))
	bpp := binary.LittleEndian.Uint16(dib[14:16])
	comp := binary.LittleEndian.Uint32(dib[16:20])

	if bpp != bitsPerPixel || comp != compression {
		return nil, shaderr.New(shaderr.UnsupportedBmp, "unsupported bitmap: only uncompressed 8-bit indexed is supported")
	}
	if offBits != PixelDataOffset {
		return nil, shaderr.New(shaderr.UnsupportedBmp, "unexpected pixel data offset")
	}

	palette := make([]byte, PaletteSize)
	if _, err := io.ReadFull(r, palette); err != nil {
		return nil, err
	}

	size := pixelDataSize(fileSize, width, absHeight(height))
	pixels := make([]byte, size)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, err
	}

	return &Bitmap{
		Width:       width,
		Height:      height,
		Seed:        seed,
		ShadowIndex: shadowIndex,
		Palette:     palette,
		Pixels:      pixels,
	}, nil
}

// Save writes b to fs at path in the fixed wire layout described by this
// package, serializing every header field explicitly in little-endian
// order so output is identical regardless of host endianness.
func (b *Bitmap) Save(fs afero.Fs, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Encode(f)
}

// Encode writes b's wire representation to w.
func (b *Bitmap) Encode(w io.Writer) error {
	fileSize := uint32(PixelDataOffset + len(b.Pixels))

	var header [HeaderSize]byte
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:6], fileSize)
	binary.LittleEndian.PutUint16(header[6:8], b.Seed)
	binary.LittleEndian.PutUint16(header[8:10], b.ShadowIndex)
	binary.LittleEndian.PutUint32(header[10:14], PixelDataOffset)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	var dib [DIBHeaderSize]byte
	binary.LittleEndian.PutUint32(dib[0:4], DIBHeaderSize)
	binary.LittleEndian.PutUint32(dib[4:8], b.Width)
	binary.LittleEndian.PutUint32(dib[8:12], uint32(b.Height))
	binary.LittleEndian.PutUint16(dib[12:14], planes)
	binary.LittleEndian.PutUint16(dib[14:16], bitsPerPixel)
	binary.LittleEndian.PutUint32(dib[16:20], compression)
	binary.LittleEndian.PutUint32(dib[20:24], uint32(len(b.Pixels)))
	// hres, vres, paletteColors, importantColors (dib[24:40]) left zero.
	if _, err := w.Write(dib[:]); err != nil {
		return err
	}

	palette := b.Palette
	if len(palette) != PaletteSize {
		palette = GreyscalePalette()
	}
	if _, err := w.Write(palette); err != nil {
		return err
	}

	_, err := w.Write(b.Pixels)
	return err
}

// IsShadow reports whether b carries a shadow index (i.e. was produced by
// the stego-reveal step rather than loaded as an ordinary carrier/secret).
func (b *Bitmap) IsShadow() bool {
	return b.ShadowIndex != 0
}
