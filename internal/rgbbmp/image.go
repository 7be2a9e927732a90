// Package rgbbmp reads and writes ordinary 24-bit uncompressed BMP files.
//
// It exists as the edge of the system that talks to whatever bitmap a user
// happens to hand in as a carrier image. The core sharing/reconstruction
// engine only ever touches the 8-bit indexed format described by
// internal/bmp; rgbbmp plus internal/convert is how an arbitrary 24-bit
// photo gets turned into something internal/bmp can load as a carrier.
package rgbbmp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/spf13/afero"
)

// Pixel is one BGR triple, the wire order 24-bit BMPs store pixels in.
type Pixel struct {
	B, G, R byte
}

// BytesBGR returns the pixel's on-disk byte order.
func (p Pixel) BytesBGR() []byte {
	return []byte{p.B, p.G, p.R}
}

// Image is an in-memory 24-bit uncompressed bitmap, rows top-to-bottom
// regardless of how the source file stored them.
type Image struct {
	Header FileHeader
	Info   InfoHeader
	Stride int
	Pixels [][]Pixel // Pixels[row][col], row 0 is the top row
}

// Load reads a 24-bit uncompressed BMP from fs.
func Load(fs afero.Fs, filename string) (*Image, error) {
	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var fh FileHeader
	if err := readFileHeader(file, &fh); err != nil {
		return nil, err
	}
	if fh.Type[0] != 'B' || fh.Type[1] != 'M' {
		return nil, errors.New("rgbbmp: not a bitmap file")
	}

	var ih InfoHeader
	if err := readInfoHeader(file, &ih); err != nil {
		return nil, err
	}
	if ih.BitCount != 24 || ih.Compression != 0 {
		return nil, errors.New("rgbbmp: only 24-bit uncompressed bitmaps are supported")
	}

	width := int(ih.Width)
	height := int(ih.Height)
	topDown := height < 0
	if topDown {
		height = -height
	}

	stride := ((width*24 + 31) / 32) * 4
	padding := stride - width*3

	pixels := make([][]Pixel, height)
	for i := range pixels {
		pixels[i] = make([]Pixel, width)
	}

	if _, err := file.Seek(int64(fh.OffBits), io.SeekStart); err != nil {
		return nil, err
	}

	row := make([]byte, stride)
	for i := 0; i < height; i++ {
		if _, err := io.ReadFull(file, row); err != nil {
			return nil, err
		}

		rowIndex := height - i - 1
		if topDown {
			rowIndex = i
		}
		for col := 0; col < width; col++ {
			off := col * 3
			pixels[rowIndex][col] = Pixel{B: row[off], G: row[off+1], R: row[off+2]}
		}
	}
	_ = padding

	return &Image{Header: fh, Info: ih, Stride: stride, Pixels: pixels}, nil
}

// Save writes the image to fs as a bottom-up 24-bit uncompressed BMP.
func (img *Image) Save(fs afero.Fs, filename string) error {
	img.UpdateMeta()

	f, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeFileHeader(w, img.Header); err != nil {
		return err
	}
	if err := writeInfoHeader(w, img.Info); err != nil {
		return err
	}

	height := len(img.Pixels)
	width := 0
	if height > 0 {
		width = len(img.Pixels[0])
	}
	padding := make([]byte, img.Stride-width*3)

	for row := height - 1; row >= 0; row-- {
		for col := 0; col < width; col++ {
			if _, err := w.Write(img.Pixels[row][col].BytesBGR()); err != nil {
				return err
			}
		}
		if _, err := w.Write(padding); err != nil {
			return err
		}
	}

	return w.Flush()
}

// UpdateMeta recomputes the header fields from the current pixel grid.
func (img *Image) UpdateMeta() {
	height := len(img.Pixels)
	width := 0
	if height > 0 {
		width = len(img.Pixels[0])
	}

	stride := ((width*24 + 31) / 32) * 4
	sizeImage := uint32(stride * height)

	img.Header.Type = [2]byte{'B', 'M'}
	img.Header.OffBits = 54
	img.Header.Size = 14 + 40 + sizeImage
	img.Info.Size = 40
	img.Info.Width = int32(width)
	img.Info.Height = int32(height)
	img.Info.Planes = 1
	img.Info.BitCount = 24
	img.Info.Compression = 0
	img.Info.SizeImage = sizeImage
	img.Stride = stride
}

// Crop returns a new Image containing the sub-rectangle starting at (x, y)
// with the given width and height. (0, 0) is the top-left corner.
func (img *Image) Crop(x, y, width, height int) (*Image, error) {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil, errors.New("rgbbmp: crop bounds must be positive")
	}
	if y+height > len(img.Pixels) {
		return nil, errors.New("rgbbmp: crop bounds exceed image height")
	}
	if len(img.Pixels) > 0 && x+width > len(img.Pixels[0]) {
		return nil, errors.New("rgbbmp: crop bounds exceed image width")
	}

	out := &Image{Pixels: make([][]Pixel, height)}
	for row := 0; row < height; row++ {
		out.Pixels[row] = make([]Pixel, width)
		copy(out.Pixels[row], img.Pixels[row+y][x:x+width])
	}
	out.UpdateMeta()
	return out, nil
}

func readFileHeader(r io.Reader, h *FileHeader) error {
	var buf [14]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	h.Type[0], h.Type[1] = buf[0], buf[1]
	h.Size = binary.LittleEndian.Uint32(buf[2:6])
	h.Reserved1 = binary.LittleEndian.Uint16(buf[6:8])
	h.Reserved2 = binary.LittleEndian.Uint16(buf[8:10])
	h.OffBits = binary.LittleEndian.Uint32(buf[10:14])
	return nil
}

func writeFileHeader(w io.Writer, h FileHeader) error {
	var buf [14]byte
	buf[0], buf[1] = h.Type[0], h.Type[1]
	binary.LittleEndian.PutUint32(buf[2:6], h.Size)
	binary.LittleEndian.PutUint16(buf[6:8], h.Reserved1)
	binary.LittleEndian.PutUint16(buf[8:10], h.Reserved2)
	binary.LittleEndian.PutUint32(buf[10:14], h.OffBits)
	_, err := w.Write(buf[:])
	return err
}

func readInfoHeader(r io.Reader, h *InfoHeader) error {
	var buf [40]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	h.Size = binary.LittleEndian.Uint32(buf[0:4])
	h.Width = int32(binary.LittleEndian.Uint32(buf[4:8]))
	h.Height = int32(binary.LittleEndian.Uint32(buf[8:12]))
	h.Planes = binary.LittleEndian.Uint16(buf[12:14])
	h.BitCount = binary.LittleEndian.Uint16(buf[14:16])
	h.Compression = binary.LittleEndian.Uint32(buf[16:20])
	h.SizeImage = binary.LittleEndian.Uint32(buf[20:24])
	h.XPixelsPerM = int32(binary.LittleEndian.Uint32(buf[24:28]))
	h.YPixelsPerM = int32(binary.LittleEndian.Uint32(buf[28:32]))
	h.ColorsUsed = binary.LittleEndian.Uint32(buf[32:36])
	h.ColorsImportant = binary.LittleEndian.Uint32(buf[36:40])
	return nil
}

func writeInfoHeader(w io.Writer, h InfoHeader) error {
	var buf [40]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.Size)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.Width))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.Height))
	binary.LittleEndian.PutUint16(buf[12:14], h.Planes)
	binary.LittleEndian.PutUint16(buf[14:16], h.BitCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.Compression)
	binary.LittleEndian.PutUint32(buf[20:24], h.SizeImage)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(h.XPixelsPerM))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(h.YPixelsPerM))
	binary.LittleEndian.PutUint32(buf[32:36], h.ColorsUsed)
	binary.LittleEndian.PutUint32(buf[36:40], h.ColorsImportant)
	_, err := w.Write(buf[:])
	return err
}
