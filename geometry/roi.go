package geometry

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// ROIEncoding selects how ROI components are interpreted when resolving
// against a frame size.
type ROIEncoding int

const (
	// EncodingAuto applies the magnitude convention per component: absolute
	// value strictly below 1 is a fraction of the frame dimension, anything
	// else is a pixel count.
	EncodingAuto ROIEncoding = iota
	// EncodingNormalized treats every component as a fraction of the frame
	// dimension, including values of 1 and above.
	EncodingNormalized
	// EncodingAbsolute treats every component as a pixel count, including
	// fractional values below 1.
	EncodingAbsolute
)

// String returns a human-readable name for the encoding.
func (e ROIEncoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingNormalized:
		return "normalized"
	case EncodingAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// ParseROIEncoding converts a String() name back to an encoding.
// Matching is case-insensitive.
func ParseROIEncoding(s string) (ROIEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return EncodingAuto, nil
	case "normalized":
		return EncodingNormalized, nil
	case "absolute":
		return EncodingAbsolute, nil
	default:
		return EncodingAuto, fmt.Errorf("geometry: unknown roi encoding %q", s)
	}
}

// ROI describes the sub-rectangle of a source frame selected for display.
//
// The zero value selects the entire frame. X and Y locate the top-left
// corner; W and H give the extent. A zero W or H stands for the remainder of
// the frame beyond the resolved X or Y.
type ROI struct {
	X, Y, W, H float64
	Encoding   ROIEncoding
}

// FromNormalized builds a ROI whose components are all fractions of the
// frame dimensions, bypassing the magnitude convention.
func FromNormalized(x, y, w, h float64) ROI {
	return ROI{X: x, Y: y, W: w, H: h, Encoding: EncodingNormalized}
}

// FromAbsolute builds a ROI whose components are all pixel counts, bypassing
// the magnitude convention.
func FromAbsolute(x, y, w, h float64) ROI {
	return ROI{X: x, Y: y, W: w, H: h, Encoding: EncodingAbsolute}
}

// IsNull reports whether the ROI is the zero descriptor that selects the
// whole frame.
func (r ROI) IsNull() bool {
	return r.X == 0 && r.Y == 0 && r.W == 0 && r.H == 0
}

// component converts a single descriptor component to pixels against the
// given frame dimension.
func (r ROI) component(v float64, dim int) float64 {
	switch r.Encoding {
	case EncodingNormalized:
		return v * float64(dim)
	case EncodingAbsolute:
		return v
	default:
		if math.Abs(v) < 1 {
			return v * float64(dim)
		}
		return v
	}
}

// Resolve converts the descriptor to a concrete pixel rectangle inside a
// frame of the given size.
//
// Resolution applies, in order: the component encoding, the zero-extent rule
// (zero W or H becomes the remainder of the frame past X or Y), rounding to
// the nearest pixel, and clamping into the frame bounds. Out-of-range
// descriptors are clamped silently rather than rejected. Resolving a
// rectangle that Resolve itself produced yields the same rectangle.
//
// An empty frame size resolves to the zero rectangle.
func (r ROI) Resolve(frameSize image.Point) image.Rectangle {
	if frameSize.X <= 0 || frameSize.Y <= 0 {
		return image.Rectangle{}
	}

	x := r.component(r.X, frameSize.X)
	y := r.component(r.Y, frameSize.Y)
	w := r.component(r.W, frameSize.X)
	h := r.component(r.H, frameSize.Y)
	if w == 0 {
		w = float64(frameSize.X) - x
	}
	if h == 0 {
		h = float64(frameSize.Y) - y
	}

	ix := int(math.Round(x))
	iy := int(math.Round(y))
	iw := int(math.Round(w))
	ih := int(math.Round(h))

	// image.Rect canonicalizes negative extents by swapping corners.
	rect := image.Rect(ix, iy, ix+iw, iy+ih)
	return rect.Intersect(image.Rect(0, 0, frameSize.X, frameSize.Y))
}

// Normalized expresses the descriptor as fractions of the frame dimensions.
// The descriptor is resolved first, so the zero-extent rule and clamping
// apply before division. An empty frame size yields the whole-frame
// rectangle (0,0,1,1).
func (r ROI) Normalized(frameSize image.Point) RectF {
	if frameSize.X <= 0 || frameSize.Y <= 0 {
		return RectF{X: 0, Y: 0, W: 1, H: 1}
	}
	rect := r.Resolve(frameSize)
	fw := float64(frameSize.X)
	fh := float64(frameSize.Y)
	return RectF{
		X: float64(rect.Min.X) / fw,
		Y: float64(rect.Min.Y) / fh,
		W: float64(rect.Dx()) / fw,
		H: float64(rect.Dy()) / fh,
	}
}
