package bc1

// Palette returns the four colors selectable by a block with anchors c0 and
// c1. Entries 2 and 3 lie 3/8 and 5/8 of the way from c0 to c1.
//
// Channels are weighted in place using their masks so no unpacking is
// needed; each channel is truncated and masked on its own so a carry out of
// one channel never reaches the next.
func Palette(c0, c1 uint16) [4]Color565 {
	r0, g0, b0 := uint32(c0)&RedMask, uint32(c0)&GreenMask, uint32(c0)&BlueMask
	r1, g1, b1 := uint32(c1)&RedMask, uint32(c1)&GreenMask, uint32(c1)&BlueMask

	return [4]Color565{
		Color565(c0),
		Color565(c1),
		Color565((5*r0+3*r1)>>3 | (5*g0+3*g1)>>3&GreenMask | (5*b0+3*b1)>>3&BlueMask),
		Color565((3*r0+5*r1)>>3 | (3*g0+5*g1)>>3&GreenMask | (3*b0+5*b1)>>3&BlueMask),
	}
}

// ReferencePalette returns the palette for anchors c0 and c1 using exact
// 2/3 and 1/3 weights on unpacked channels. It is slower than Palette and
// its interpolated entries may differ from it by up to two steps in red and
// blue and up to three steps in green.
func ReferencePalette(c0, c1 uint16) [4]Color565 {
	r0, g0, b0 := Color565(c0).Unpack()
	r1, g1, b1 := Color565(c1).Unpack()

	third := func(a, b uint8) uint8 {
		return uint8((2*uint16(a) + uint16(b)) / 3)
	}

	return [4]Color565{
		Color565(c0),
		Color565(c1),
		pack(third(r0, r1), third(g0, g1), third(b0, b1)),
		pack(third(r1, r0), third(g1, g0), third(b1, b0)),
	}
}
