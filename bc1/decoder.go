package bc1

import (
	"encoding/binary"
	"image"
	"image/color"
)

type paletteFunc func(c0, c1 uint16) [4]Color565

type decoder struct {
	width, height int
	palette       paletteFunc
}

func (d *decoder) check(dst []Color565, words int) error {
	if err := checkGeometry(d.width, d.height); err != nil {
		return err
	}
	if words < (d.width/blockWidth)*(d.height/blockHeight)*blockWords {
		return ErrBufferTooSmall
	}
	if len(dst) < d.width*d.height {
		return ErrDestinationTooSmall
	}
	return nil
}

// block writes one decoded 4 by 4 block with its top left pixel at dst[0]
func (d *decoder) block(dst []Color565, c0, c1 uint16, codes uint32) {
	palette := d.palette(c0, c1)
	for y := 0; y < blockHeight; y++ {
		row := dst[y*d.width : y*d.width+blockWidth]
		for x := range row {
			row[x] = palette[codes&3]
			codes >>= 2
		}
	}
}

func (d *decoder) decodeWords(dst []Color565, src []uint16) {
	bx := d.width / blockWidth
	for by := 0; by < d.height/blockHeight; by++ {
		for i := 0; i < bx; i++ {
			w := src[(by*bx+i)*blockWords:]
			d.block(dst[by*blockHeight*d.width+i*blockWidth:], w[0], w[1], uint32(w[3])<<16|uint32(w[2]))
		}
	}
}

func (d *decoder) decodeBytes(dst []Color565, src []byte) {
	bx := d.width / blockWidth
	for by := 0; by < d.height/blockHeight; by++ {
		for i := 0; i < bx; i++ {
			b := src[(by*bx+i)*BlockSize:]
			d.block(dst[by*blockHeight*d.width+i*blockWidth:],
				binary.LittleEndian.Uint16(b[0:]),
				binary.LittleEndian.Uint16(b[2:]),
				binary.LittleEndian.Uint32(b[4:]))
		}
	}
}

// DecodeWords decodes width by height pixels of block data starting at word
// offset of src into dst. Nothing is written to dst unless the whole image
// can be decoded.
func DecodeWords(dst []Color565, src []uint16, offset, width, height int) error {
	if err := checkGeometry(width, height); err != nil {
		return err
	}
	d := decoder{width: width, height: height, palette: Palette}
	if offset < 0 || offset > len(src) {
		return ErrBufferTooSmall
	}
	if err := d.check(dst, len(src)-offset); err != nil {
		return err
	}
	d.decodeWords(dst, src[offset:])
	return nil
}

// DecodeInto decodes width by height pixels of little-endian block data
// from src into dst. Nothing is written to dst unless the whole image can
// be decoded.
func DecodeInto(dst []Color565, src []byte, width, height int) error {
	d := decoder{width: width, height: height, palette: Palette}
	if err := d.check(dst, len(src)>>1); err != nil {
		return err
	}
	d.decodeBytes(dst, src)
	return nil
}

// DecodeReference is DecodeInto using ReferencePalette. It exists to compare
// results against exact interpolation and is not bit identical to
// DecodeInto.
func DecodeReference(dst []Color565, src []byte, width, height int) error {
	d := decoder{width: width, height: height, palette: ReferencePalette}
	if err := d.check(dst, len(src)>>1); err != nil {
		return err
	}
	d.decodeBytes(dst, src)
	return nil
}

// Decode decodes width by height pixels of block data from src and returns
// them as an image.
func Decode(src []byte, width, height int) (*Image, error) {
	if err := checkGeometry(width, height); err != nil {
		return nil, err
	}
	m := NewImage(image.Rect(0, 0, width, height))
	if err := DecodeInto(m.Pix, src, width, height); err != nil {
		return nil, err
	}
	return m, nil
}

// Image is an in-memory image of Color565 pixels. Pix holds the pixels in
// row-major order and can be handed directly to anything expecting a
// packed 5:6:5 buffer.
type Image struct {
	Pix    []Color565
	Stride int
	Rect   image.Rectangle
}

// NewImage returns a new Image with the given bounds
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	return &Image{
		Pix:    make([]Color565, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel implements the image.Image interface
func (m *Image) ColorModel() color.Model { return Model }

// Bounds implements the image.Image interface
func (m *Image) Bounds() image.Rectangle { return m.Rect }

// PixOffset returns the index of the pixel at (x, y) in Pix
func (m *Image) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x - m.Rect.Min.X)
}

// At implements the image.Image interface
func (m *Image) At(x, y int) color.Color {
	return m.Color565At(x, y)
}

// Color565At returns the packed color of the pixel at (x, y)
func (m *Image) Color565At(x, y int) Color565 {
	if !(image.Point{x, y}.In(m.Rect)) {
		return 0
	}
	return m.Pix[m.PixOffset(x, y)]
}

// SubImage returns an image representing the portion of m visible through
// r. The returned image shares pixels with m.
func (m *Image) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(m.Rect)
	if r.Empty() {
		return &Image{}
	}
	return &Image{
		Pix:    m.Pix[m.PixOffset(r.Min.X, r.Min.Y):],
		Stride: m.Stride,
		Rect:   r,
	}
}

// Set sets the pixel at (x, y), converting c to a Color565
func (m *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	m.Pix[m.PixOffset(x, y)] = Model.Convert(c).(Color565)
}
