/*
Package dds implements a DirectDraw Surface decoder and encoder for BC1
(DXT1) compressed textures. Files using the DXT10 extended header are
decoded when they hold a 2D BC1_UNORM or BC1_UNORM_SRGB surface.

Only the top level surface is decoded; any mipmaps that follow it are
ignored.
*/
package dds

import "errors"

// Header flags
const (
	FlagCaps        = 0x1
	FlagHeight      = 0x2
	FlagWidth       = 0x4
	FlagPitch       = 0x8
	FlagPixelFormat = 0x1000
	FlagMipMapCount = 0x20000
	FlagLinearSize  = 0x80000
	FlagDepth       = 0x800000

	requiredFlags = FlagHeight | FlagWidth
)

// Caps flags
const (
	CapsComplex = 0x8
	CapsTexture = 0x1000
	CapsMipMap  = 0x400000
)

// Pixel format flags
const (
	PixelFormatAlphaPixels = 0x1
	PixelFormatFourCC      = 0x4
	PixelFormatRGB         = 0x40
)

// Four character codes
const (
	FourCCDXT1 = 0x31545844
	// FourCCDX10 signals that a HeaderDXT10 follows the header
	FourCCDX10 = 0x30315844
)

// DXGI formats accepted in a HeaderDXT10
const (
	DXGIFormatBC1UNorm     = 71
	DXGIFormatBC1UNormSRGB = 72
)

// Resource dimensions
const (
	ResourceDimensionTexture1D = 2
	ResourceDimensionTexture2D = 3
	ResourceDimensionTexture3D = 4
)

const (
	magic           = "DDS "
	headerSize      = 124
	pixelFormatSize = 32
	maxDimension    = 1 << 15
)

var (
	// ErrBadMagic is returned when the stream does not start with "DDS "
	ErrBadMagic = errors.New("dds: invalid magic")
	// ErrBadHeader is returned when the header sizes or flags are invalid
	ErrBadHeader = errors.New("dds: invalid header")
	// ErrUnsupportedFormat is returned for any pixel format other than DXT1
	// or a 2D BC1 DXGI format
	ErrUnsupportedFormat = errors.New("dds: unsupported pixel format")
)

// PixelFormat is the DDS_PIXELFORMAT structure
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is the DDS_HEADER structure that follows the magic
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// HeaderDXT10 is the DDS_HEADER_DXT10 structure that follows the header
// when the pixel format FourCC is "DX10"
type HeaderDXT10 struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// SRGB reports whether the BC1 colours are sRGB encoded. The decoded
// values are the same either way.
func (h *HeaderDXT10) SRGB() bool {
	return h.DXGIFormat == DXGIFormatBC1UNormSRGB
}

// FourCC returns the pixel format code as a string such as "DXT1"
func (h *Header) FourCC() string {
	c := h.PixelFormat.FourCC
	return string([]byte{byte(c), byte(c >> 8), byte(c >> 16), byte(c >> 24)})
}

// blocks returns the padded dimensions covering the whole surface
func (h *Header) blocks() (int, int) {
	return (int(h.Width) + 3) &^ 3, (int(h.Height) + 3) &^ 3
}
