/*
Package bc1 implements a BC1 (DXT1) block compressed texture decoder and
encoder producing packed 16-bit 5:6:5 pixels.

The format splits an image into 4 by 4 pixel blocks stored in row-major
block order. Each block is 8 bytes; two little-endian 16-bit anchor colors
followed by 32 bits of palette indices, 2 bits per pixel, with pixel i of
the block (left to right, top to bottom) held in bits 2i and 2i+1. The two
remaining palette entries are interpolated from the anchors using 5/8 and
3/8 integer weights, which is what common hardware decoders do rather than
exact thirds.
*/
package bc1

import "errors"

const (
	blockWidth  = 4
	blockHeight = blockWidth
	blockPixels = blockWidth * blockHeight

	// BlockSize is the size in bytes of one compressed 4 by 4 block
	BlockSize  = 8
	blockWords = BlockSize >> 1
)

var (
	// ErrInvalidBlockGeometry is returned when the width or height is not
	// a positive multiple of 4
	ErrInvalidBlockGeometry = errors.New("bc1: invalid block geometry")
	// ErrBufferTooSmall is returned when the source does not hold enough
	// blocks for the requested dimensions
	ErrBufferTooSmall = errors.New("bc1: source buffer too small")
	// ErrDestinationTooSmall is returned when a caller supplied output
	// buffer cannot hold width * height pixels
	ErrDestinationTooSmall = errors.New("bc1: destination buffer too small")
)

func checkGeometry(width, height int) error {
	if width <= 0 || height <= 0 || width%blockWidth != 0 || height%blockHeight != 0 {
		return ErrInvalidBlockGeometry
	}
	return nil
}

// EncodedLen returns the number of bytes of block data needed to hold an
// image of the given dimensions
func EncodedLen(width, height int) (int, error) {
	if err := checkGeometry(width, height); err != nil {
		return 0, err
	}
	return (width / blockWidth) * (height / blockHeight) * BlockSize, nil
}
