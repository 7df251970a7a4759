package bc1

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	q    quantize.MedianCutQuantizer
	tile *image.NRGBA
}

// Copied from color.sqDiff
func sqDiff(x, y uint32) uint32 {
	d := x - y
	return (d * d) >> 2
}

func distance(c1, c2 Color565) uint32 {
	r1, g1, b1 := c1.Unpack()
	r2, g2, b2 := c2.Unpack()
	// Scale red and blue up to the same range as green
	return sqDiff(uint32(r1)<<1, uint32(r2)<<1) + sqDiff(uint32(g1), uint32(g2)) + sqDiff(uint32(b1)<<1, uint32(b2)<<1)
}

// anchors picks the two colors that best represent the current tile
func (e *encoder) anchors() (uint16, uint16) {
	p := e.q.Quantize(make(color.Palette, 0, 2), e.tile)

	var c0, c1 uint16
	switch len(p) {
	case 0:
		return 0, 0
	case 1:
		c0 = uint16(Model.Convert(p[0]).(Color565))
		c1 = c0
	default:
		c0 = uint16(Model.Convert(p[0]).(Color565))
		c1 = uint16(Model.Convert(p[1]).(Color565))
	}

	// Keep the conventional four color ordering
	if c0 < c1 {
		c0, c1 = c1, c0
	}
	return c0, c1
}

func (e *encoder) block(b []byte) {
	c0, c1 := e.anchors()
	palette := Palette(c0, c1)

	var codes uint32
	for i := blockPixels - 1; i >= 0; i-- {
		c := Model.Convert(e.tile.At(i%blockWidth, i/blockWidth)).(Color565)

		best, bestSum := 0, uint32(1<<32-1)
		for j, p := range palette {
			if sum := distance(c, p); sum < bestSum {
				best, bestSum = j, sum
			}
		}
		codes = codes<<2 | uint32(best)
	}

	binary.LittleEndian.PutUint16(b[0:], c0)
	binary.LittleEndian.PutUint16(b[2:], c1)
	binary.LittleEndian.PutUint32(b[4:], codes)
}

// Encode compresses m into BC1 block data. The dimensions of m must be
// positive multiples of 4.
func Encode(m image.Image) ([]byte, error) {
	r := m.Bounds()
	n, err := EncodedLen(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}

	e := encoder{
		tile: image.NewNRGBA(image.Rect(0, 0, blockWidth, blockHeight)),
	}
	out := make([]byte, n)

	bx := r.Dx() / blockWidth
	for by := 0; by < r.Dy()/blockHeight; by++ {
		for i := 0; i < bx; i++ {
			sp := r.Min.Add(image.Pt(i*blockWidth, by*blockHeight))
			draw.Draw(e.tile, e.tile.Bounds(), m, sp, draw.Src)
			e.block(out[(by*bx+i)*BlockSize:])
		}
	}

	return out, nil
}
