package dds

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/dxt/bc1"
	"github.com/pkg/errors"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// ReadHeader reads and validates the magic and header from r, leaving r
// positioned at the start of the surface data. The DXT10 extension is read
// as well when the header announces one, otherwise it is nil.
func ReadHeader(r io.Reader) (*Header, *HeaderDXT10, error) {
	var m [len(magic)]byte
	if err := readFull(r, m[:]); err != nil {
		return nil, nil, errors.Wrap(err, "dds: failed to read magic")
	}
	if string(m[:]) != magic {
		return nil, nil, errors.Wrapf(ErrBadMagic, "%q", m[:])
	}

	h := new(Header)
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, nil, errors.Wrap(err, "dds: failed to read header")
	}

	if h.Size != headerSize {
		return nil, nil, errors.Wrapf(ErrBadHeader, "header size %d", h.Size)
	}
	if h.PixelFormat.Size != pixelFormatSize {
		return nil, nil, errors.Wrapf(ErrBadHeader, "pixel format size %d", h.PixelFormat.Size)
	}
	if h.Flags&requiredFlags != requiredFlags {
		return nil, nil, errors.Wrapf(ErrBadHeader, "missing flags 0x%x", (h.Flags^requiredFlags)&requiredFlags)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > maxDimension || h.Height > maxDimension {
		return nil, nil, errors.Wrapf(ErrBadHeader, "dimensions %dx%d", h.Width, h.Height)
	}

	if h.PixelFormat.Flags&PixelFormatFourCC == 0 || h.PixelFormat.FourCC != FourCCDX10 {
		return h, nil, nil
	}

	ext := new(HeaderDXT10)
	if err := binary.Read(r, binary.LittleEndian, ext); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, nil, errors.Wrap(err, "dds: failed to read DXT10 header")
	}
	if ext.ArraySize == 0 {
		return nil, nil, errors.Wrap(ErrBadHeader, "array size 0")
	}

	return h, ext, nil
}

func checkFormat(h *Header, ext *HeaderDXT10) error {
	if h.PixelFormat.Flags&PixelFormatFourCC == 0 {
		return errors.Wrap(ErrUnsupportedFormat, "uncompressed")
	}
	if ext != nil {
		if ext.ResourceDimension != ResourceDimensionTexture2D {
			return errors.Wrapf(ErrUnsupportedFormat, "resource dimension %d", ext.ResourceDimension)
		}
		switch ext.DXGIFormat {
		case DXGIFormatBC1UNorm, DXGIFormatBC1UNormSRGB:
			return nil
		default:
			return errors.Wrapf(ErrUnsupportedFormat, "DXGI format %d", ext.DXGIFormat)
		}
	}
	if h.PixelFormat.FourCC != FourCCDXT1 {
		return errors.Wrapf(ErrUnsupportedFormat, "fourCC %q", h.FourCC())
	}
	return nil
}

// ReadBlocks reads the BC1 block data of the top level surface, which
// covers the surface size rounded up to whole blocks. Only the first
// element of a DXT10 texture array is read.
func ReadBlocks(r io.Reader) (*Header, []byte, error) {
	h, ext, err := ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if err := checkFormat(h, ext); err != nil {
		return nil, nil, err
	}

	n, err := bc1.EncodedLen(h.blocks())
	if err != nil {
		return nil, nil, err
	}

	b := make([]byte, n)
	if err := readFull(r, b); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, nil, errors.Wrap(bc1.ErrBufferTooSmall, "dds: truncated surface")
		}
		return nil, nil, errors.Wrap(err, "dds: failed to read surface")
	}

	return h, b, nil
}

// Decode reads a BC1 DDS file from r and returns the top level surface as
// a *bc1.Image.
func Decode(r io.Reader) (image.Image, error) {
	h, b, err := ReadBlocks(r)
	if err != nil {
		return nil, err
	}

	w, ht := h.blocks()
	m, err := bc1.Decode(b, w, ht)
	if err != nil {
		return nil, err
	}

	if w != int(h.Width) || ht != int(h.Height) {
		return m.SubImage(image.Rect(0, 0, int(h.Width), int(h.Height))), nil
	}
	return m, nil
}

// DecodeConfig returns the color model and dimensions of a DDS file without
// decoding the surface.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, ext, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	if err := checkFormat(h, ext); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: bc1.Model,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

func init() {
	image.RegisterFormat("dds", magic, Decode, DecodeConfig)
}
