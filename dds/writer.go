package dds

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/dxt/bc1"
	"github.com/pkg/errors"
)

// Encode writes the Image m to w as a single surface DXT1 DDS file. The
// dimensions of m must be multiples of 4.
func Encode(w io.Writer, m image.Image) error {
	b, err := bc1.Encode(m)
	if err != nil {
		return err
	}

	r := m.Bounds()
	h := Header{
		Size:              headerSize,
		Flags:             FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat | FlagLinearSize,
		Height:            uint32(r.Dy()),
		Width:             uint32(r.Dx()),
		PitchOrLinearSize: uint32(len(b)),
		PixelFormat: PixelFormat{
			Size:   pixelFormatSize,
			Flags:  PixelFormatFourCC,
			FourCC: FourCCDXT1,
		},
		Caps: CapsTexture,
	}

	if _, err := io.WriteString(w, magic); err != nil {
		return errors.Wrap(err, "dds: failed to write magic")
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "dds: failed to write header")
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "dds: failed to write surface")
	}

	return nil
}
