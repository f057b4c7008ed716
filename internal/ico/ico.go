// Package ico fabricates solid-fill bitmaps and serializes them to the
// Windows ICO container format. It also sniffs PNG/ICO headers to recover
// nominal dimensions without decoding pixel data.
package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// DefaultSize is the fallback icon edge length used when a source image
// cannot be read or recognized.
const DefaultSize = 64

// Layout constants of a single-image ICO file.
const (
	headerSize    = 6  // ICONDIR
	entrySize     = 16 // ICONDIRENTRY
	infoSize      = 40 // BITMAPINFOHEADER
	imageOffset   = headerSize + entrySize
	bytesPerPixel = 4 // 32bpp BGRA
)

var (
	pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	icoSignature = []byte{0x00, 0x00, 0x01, 0x00}
)

// RGB is an 8-bit-per-channel color triple.
type RGB struct {
	R, G, B uint8
}

// DefaultFill is the fill color used when no color is specified.
var DefaultFill = RGB{90, 0, 175}

// Bitmap is an RGB image with a uniform fill color. It stores no per-pixel
// data; every pixel reads as Fill. Values are immutable after creation.
type Bitmap struct {
	Width  int
	Height int
	Fill   RGB
}

// New creates a Bitmap. Non-positive dimensions are rejected.
func New(width, height int, fill RGB) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ico: invalid dimensions %dx%d", width, height)
	}
	return &Bitmap{Width: width, Height: height, Fill: fill}, nil
}

// defaultBitmap returns the 64x64 default-fill fallback bitmap.
func defaultBitmap() *Bitmap {
	return &Bitmap{Width: DefaultSize, Height: DefaultSize, Fill: DefaultFill}
}

// RawBytes returns the pixel data as RGB triples in row-major,
// top-to-bottom order. The result is always 3*Width*Height bytes.
func (b *Bitmap) RawBytes() []byte {
	return bytes.Repeat([]byte{b.Fill.R, b.Fill.G, b.Fill.B}, b.Width*b.Height)
}

// EncodeOptions controls ICO encoding.
type EncodeOptions struct {
	// MaskBitmap appends the 1bpp AND mask required by strict ICO
	// conformance. Modern consumers ignore it for 32bpp images with an
	// alpha channel, so the default is off.
	MaskBitmap bool
}

// EncodeICO serializes the bitmap as a single-image, 32bpp truecolor ICO.
// All multi-byte fields are little-endian. The pixel array is BGRA with
// alpha 255, rows bottom-to-top per the BMP convention.
func (b *Bitmap) EncodeICO(opts EncodeOptions) []byte {
	w, h := b.Width, b.Height
	pixelBytes := w * h * bytesPerPixel

	maskBytes := 0
	if opts.MaskBitmap {
		// 1bpp rows padded to a 32-bit boundary.
		maskBytes = ((w + 31) / 32) * 4 * h
	}

	buf := make([]byte, imageOffset+infoSize+pixelBytes+maskBytes)

	// ICONDIR header
	binary.LittleEndian.PutUint16(buf[0:], 0) // reserved
	binary.LittleEndian.PutUint16(buf[2:], 1) // type: ICO
	binary.LittleEndian.PutUint16(buf[4:], 1) // count: 1 image

	// ICO dimension bytes: 0 means 256 (or larger).
	bw, bh := byte(w), byte(h)
	if w >= 256 {
		bw = 0
	}
	if h >= 256 {
		bh = 0
	}

	// ICONDIRENTRY
	dataSize := uint32(infoSize + pixelBytes + maskBytes)
	buf[headerSize+0] = bw // width
	buf[headerSize+1] = bh // height
	buf[headerSize+2] = 0  // color count (0 for truecolor)
	buf[headerSize+3] = 0  // reserved
	binary.LittleEndian.PutUint16(buf[headerSize+4:], 1)            // planes
	binary.LittleEndian.PutUint16(buf[headerSize+6:], 32)           // bits per pixel
	binary.LittleEndian.PutUint32(buf[headerSize+8:], dataSize)     // image data size
	binary.LittleEndian.PutUint32(buf[headerSize+12:], imageOffset) // data offset

	// BITMAPINFOHEADER. biHeight is doubled: it covers the XOR and AND
	// masks combined, even when no mask is emitted.
	info := buf[imageOffset:]
	binary.LittleEndian.PutUint32(info[0:], infoSize)            // biSize
	binary.LittleEndian.PutUint32(info[4:], uint32(int32(w)))    // biWidth
	binary.LittleEndian.PutUint32(info[8:], uint32(int32(h*2)))  // biHeight
	binary.LittleEndian.PutUint16(info[12:], 1)                  // biPlanes
	binary.LittleEndian.PutUint16(info[14:], 32)                 // biBitCount
	binary.LittleEndian.PutUint32(info[16:], 0)                  // biCompression
	binary.LittleEndian.PutUint32(info[20:], uint32(pixelBytes)) // biSizeImage
	binary.LittleEndian.PutUint32(info[24:], 0)                  // biXPelsPerMeter
	binary.LittleEndian.PutUint32(info[28:], 0)                  // biYPelsPerMeter
	binary.LittleEndian.PutUint32(info[32:], 0)                  // biClrUsed
	binary.LittleEndian.PutUint32(info[36:], 0)                  // biClrImportant

	// Pixel array: BGRA, bottom-to-top. All rows are identical for a
	// uniform fill, so the flip has no visible effect, but the order is
	// part of the format contract.
	pixels := buf[imageOffset+infoSize:]
	for i := 0; i < w*h; i++ {
		pixels[i*4+0] = b.Fill.B
		pixels[i*4+1] = b.Fill.G
		pixels[i*4+2] = b.Fill.R
		pixels[i*4+3] = 255
	}

	// The AND mask, when requested, is all zero: fully opaque. The
	// buffer is already zeroed.
	return buf
}

// WrapPNG wraps a pre-encoded PNG stream in a minimal single-image ICO
// container. PNG-in-ICO is supported by Windows since Vista.
func WrapPNG(pngData []byte, w, h int) []byte {
	bw, bh := byte(w), byte(h)
	if w >= 256 {
		bw = 0
	}
	if h >= 256 {
		bh = 0
	}

	buf := make([]byte, imageOffset+len(pngData))

	binary.LittleEndian.PutUint16(buf[0:], 0)
	binary.LittleEndian.PutUint16(buf[2:], 1)
	binary.LittleEndian.PutUint16(buf[4:], 1)

	buf[headerSize+0] = bw
	buf[headerSize+1] = bh
	buf[headerSize+2] = 0
	buf[headerSize+3] = 0
	binary.LittleEndian.PutUint16(buf[headerSize+4:], 1)
	binary.LittleEndian.PutUint16(buf[headerSize+6:], 32)
	binary.LittleEndian.PutUint32(buf[headerSize+8:], uint32(len(pngData)))
	binary.LittleEndian.PutUint32(buf[headerSize+12:], imageOffset)

	copy(buf[imageOffset:], pngData)
	return buf
}

// Inspect reads up to the first 24 bytes of the file at path and recovers
// the nominal width and height from a PNG or ICO header. Pixel data is
// never decoded; the returned bitmap always carries the default fill.
// Missing, unreadable, or unrecognized files yield the 64x64 default
// bitmap. Inspect never fails.
func Inspect(path string) *Bitmap {
	f, err := os.Open(path)
	if err != nil {
		return defaultBitmap()
	}
	defer f.Close()

	header := make([]byte, 24)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return defaultBitmap()
	}
	// Sniff whatever the file holds; a short ICO header still carries
	// its dimension bytes.
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, pngSignature):
		// IHDR layout: signature(8) + chunk length(4) + "IHDR"(4),
		// so width sits at offset 16 and height at 20, big-endian.
		if len(header) < 24 {
			return defaultBitmap()
		}
		w := int(binary.BigEndian.Uint32(header[16:20]))
		h := int(binary.BigEndian.Uint32(header[20:24]))
		b, err := New(w, h, DefaultFill)
		if err != nil {
			return defaultBitmap()
		}
		return b

	case bytes.HasPrefix(header, icoSignature):
		// Directory entry dimension bytes; 0 encodes 256.
		if len(header) < 8 {
			return defaultBitmap()
		}
		w := int(header[6])
		if w == 0 {
			w = 256
		}
		h := int(header[7])
		if h == 0 {
			h = 256
		}
		b, err := New(w, h, DefaultFill)
		if err != nil {
			return defaultBitmap()
		}
		return b
	}

	return defaultBitmap()
}
