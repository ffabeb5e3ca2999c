package frame

import "fmt"

// Converter transforms a frame into a different pixel format. The renderer
// invokes a converter when format negotiation picks a format other than the
// one a frame arrived in. Implementations must leave the source frame
// untouched.
type Converter interface {
	Convert(src *Frame, dst PixelFormat) (*Frame, error)
}

// PackedConverter reorders bytes between the packed RGB formats (rgba32,
// bgra32, rgb24) and expands gray8 into them. It performs no color-space
// arithmetic: planar YUV formats on either side of the conversion return
// ErrConversionUnsupported.
type PackedConverter struct{}

// NewPackedConverter returns a converter for packed byte reordering.
func NewPackedConverter() *PackedConverter {
	return &PackedConverter{}
}

// Convert returns a frame in the dst format. If src already has that format
// it is returned as-is. Timestamps and the pixel aspect ratio carry over.
func (c *PackedConverter) Convert(src *Frame, dst PixelFormat) (*Frame, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source frame", ErrConversionUnsupported)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Format == dst {
		return src, nil
	}
	if !dst.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(dst))
	}
	if src.Format.Planar() || dst.Planar() {
		return nil, fmt.Errorf("%w: %s to %s needs color-space conversion",
			ErrConversionUnsupported, src.Format, dst)
	}
	if dst == FormatGray8 {
		return nil, fmt.Errorf("%w: %s to %s discards color",
			ErrConversionUnsupported, src.Format, dst)
	}

	out, err := New(dst, src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	out.PixelAspectRatio = src.PixelAspectRatio
	out.Timestamp = src.Timestamp

	for y := 0; y < src.Height; y++ {
		srcRow := src.Data[0][y*src.Stride[0]:]
		dstRow := out.Data[0][y*out.Stride[0]:]
		for x := 0; x < src.Width; x++ {
			r, g, b, a := readPacked(src.Format, srcRow, x)
			writePacked(dst, dstRow, x, r, g, b, a)
		}
	}
	return out, nil
}

func readPacked(format PixelFormat, row []byte, x int) (r, g, b, a byte) {
	switch format {
	case FormatRGBA32:
		s := x * 4
		return row[s], row[s+1], row[s+2], row[s+3]
	case FormatBGRA32:
		s := x * 4
		return row[s+2], row[s+1], row[s], row[s+3]
	case FormatRGB24:
		s := x * 3
		return row[s], row[s+1], row[s+2], 0xFF
	case FormatGray8:
		v := row[x]
		return v, v, v, 0xFF
	}
	return 0, 0, 0, 0xFF
}

func writePacked(format PixelFormat, row []byte, x int, r, g, b, a byte) {
	switch format {
	case FormatRGBA32:
		d := x * 4
		row[d], row[d+1], row[d+2], row[d+3] = r, g, b, a
	case FormatBGRA32:
		d := x * 4
		row[d], row[d+1], row[d+2], row[d+3] = b, g, r, a
	case FormatRGB24:
		d := x * 3
		row[d], row[d+1], row[d+2] = r, g, b
	}
}
