package bc1

import "image/color"

// Channel masks of a packed color. Each channel stays in its final bit
// position so channels can be weighted and recombined without shifting.
const (
	RedMask   = 0x001f
	GreenMask = 0x07e0
	BlueMask  = 0xf800
)

// Color565 is a packed 16-bit color with red in the low 5 bits, green in
// the middle 6 bits and blue in the high 5 bits
type Color565 uint16

// Unpack returns the channels as plain 5, 6 and 5 bit values
func (c Color565) Unpack() (r, g, b uint8) {
	return uint8(c & RedMask), uint8(c&GreenMask>>5), uint8(c&BlueMask>>11)
}

func pack(r, g, b uint8) Color565 {
	return Color565(uint16(r)&0x1f | (uint16(g)&0x3f)<<5 | (uint16(b)&0x1f)<<11)
}

func (c Color565) rgb24() (r, g, b uint8) {
	r5, g6, b5 := c.Unpack()
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return
}

// RGBA implements the color.Color interface
func (c Color565) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.rgb24()
	return color.RGBA{r8, g8, b8, 0xff}.RGBA()
}

// Model converts any color to a Color565, discarding alpha
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if _, ok := c.(Color565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return pack(uint8(r>>11), uint8(g>>10), uint8(b>>11))
}
