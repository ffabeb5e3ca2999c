package frame

import (
	"fmt"
	"image"
	"strings"
)

// PixelFormat identifies the memory layout of frame pixel data.
type PixelFormat int

const (
	// FormatUnknown marks an unrecognized or unset format.
	FormatUnknown PixelFormat = iota
	// FormatRGBA32 is packed 8-bit R, G, B, A.
	FormatRGBA32
	// FormatBGRA32 is packed 8-bit B, G, R, A.
	FormatBGRA32
	// FormatRGB24 is packed 8-bit R, G, B with no alpha.
	FormatRGB24
	// FormatGray8 is a single 8-bit luminance plane.
	FormatGray8
	// FormatYUV420P is planar Y, Cb, Cr with 2x2 chroma subsampling.
	FormatYUV420P
	// FormatNV12 is a Y plane followed by an interleaved CbCr plane.
	FormatNV12
)

// String returns the conventional short name of the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA32:
		return "rgba32"
	case FormatBGRA32:
		return "bgra32"
	case FormatRGB24:
		return "rgb24"
	case FormatGray8:
		return "gray8"
	case FormatYUV420P:
		return "yuv420p"
	case FormatNV12:
		return "nv12"
	default:
		return "unknown"
	}
}

// Valid reports whether f is a recognized concrete format.
func (f PixelFormat) Valid() bool {
	return f > FormatUnknown && f <= FormatNV12
}

// Planar reports whether the format stores components in separate planes.
func (f PixelFormat) Planar() bool {
	return f == FormatYUV420P || f == FormatNV12
}

// PlaneCount returns the number of planes the format uses. Unknown formats
// report zero planes.
func (f PixelFormat) PlaneCount() int {
	switch f {
	case FormatRGBA32, FormatBGRA32, FormatRGB24, FormatGray8:
		return 1
	case FormatNV12:
		return 2
	case FormatYUV420P:
		return 3
	default:
		return 0
	}
}

// BytesPerPixel returns the packed pixel size in bytes, or zero for planar
// and unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA32, FormatBGRA32:
		return 4
	case FormatRGB24:
		return 3
	case FormatGray8:
		return 1
	default:
		return 0
	}
}

// PlaneDimensions returns the sample grid of the given plane for a frame of
// the given size. Chroma planes of subsampled formats round up, so odd
// dimensions stay representable. Out-of-range planes return the zero point.
func (f PixelFormat) PlaneDimensions(plane, width, height int) image.Point {
	if plane < 0 || plane >= f.PlaneCount() {
		return image.Point{}
	}
	if plane == 0 {
		return image.Pt(width, height)
	}
	return image.Pt((width+1)/2, (height+1)/2)
}

// rowBytes returns the minimal number of bytes per row of the given plane.
func (f PixelFormat) rowBytes(plane, width int) int {
	if plane == 0 {
		if bpp := f.BytesPerPixel(); bpp > 0 {
			return width * bpp
		}
		return width
	}
	chroma := (width + 1) / 2
	if f == FormatNV12 {
		return chroma * 2
	}
	return chroma
}

// ParsePixelFormat converts a short format name (as produced by String)
// into a PixelFormat. Matching is case-insensitive.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgba32", "rgba":
		return FormatRGBA32, nil
	case "bgra32", "bgra":
		return FormatBGRA32, nil
	case "rgb24", "rgb":
		return FormatRGB24, nil
	case "gray8", "gray":
		return FormatGray8, nil
	case "yuv420p", "yuv420":
		return FormatYUV420P, nil
	case "nv12":
		return FormatNV12, nil
	}
	return FormatUnknown, fmt.Errorf("frame: unknown pixel format %q", s)
}
