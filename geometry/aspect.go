package geometry

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// AspectMode controls how the video rectangle is derived from the renderer
// surface and the source aspect ratio.
type AspectMode int

const (
	// RendererAspectRatio stretches content to fill the whole surface,
	// ignoring the source aspect ratio.
	RendererAspectRatio AspectMode = iota
	// VideoAspectRatio preserves the source aspect ratio, letterboxing or
	// pillarboxing as needed.
	VideoAspectRatio
	// CustomAspectRatio fits content to a caller-supplied ratio.
	CustomAspectRatio
)

// String returns a human-readable name for the aspect mode.
func (m AspectMode) String() string {
	switch m {
	case RendererAspectRatio:
		return "renderer"
	case VideoAspectRatio:
		return "video"
	case CustomAspectRatio:
		return "custom"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined aspect modes.
func (m AspectMode) Valid() bool {
	return m >= RendererAspectRatio && m <= CustomAspectRatio
}

// ParseAspectMode converts a string produced by AspectMode.String (or a
// configuration file) back into an AspectMode. Matching is case-insensitive.
func ParseAspectMode(s string) (AspectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "renderer", "rendereraspectratio":
		return RendererAspectRatio, nil
	case "video", "videoaspectratio":
		return VideoAspectRatio, nil
	case "custom", "customaspectratio":
		return CustomAspectRatio, nil
	}
	return RendererAspectRatio, fmt.Errorf("geometry: unknown aspect mode %q", s)
}

// NormalizeOrientation reduces an orientation in degrees to the canonical
// [0, 360) range. Negative inputs wrap: -90 becomes 270.
func NormalizeOrientation(degrees int) int {
	return ((degrees % 360) + 360) % 360
}

// ValidOrientation reports whether the orientation is a supported quarter
// rotation. Only multiples of 90 degrees are accepted.
func ValidOrientation(degrees int) bool {
	return NormalizeOrientation(degrees)%90 == 0
}

// OrientationSwapsAxes reports whether the orientation exchanges the width
// and height of displayed content (90 or 270 degrees).
func OrientationSwapsAxes(degrees int) bool {
	n := NormalizeOrientation(degrees)
	return n == 90 || n == 270
}

// FitRect returns the largest rectangle with the given width/height ratio
// that fits inside bounds, centered within it. Dimensions are rounded to the
// nearest pixel. A non-positive ratio or empty bounds yields the zero
// rectangle.
func FitRect(bounds image.Rectangle, ratio float64) image.Rectangle {
	bw := bounds.Dx()
	bh := bounds.Dy()
	if bw <= 0 || bh <= 0 || ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return image.Rectangle{}
	}

	w := bw
	h := bh
	boundsRatio := float64(bw) / float64(bh)
	if ratio >= boundsRatio {
		// Wider than the bounds: full width, reduced height.
		h = int(math.Round(float64(bw) / ratio))
	} else {
		// Taller than the bounds: full height, reduced width.
		w = int(math.Round(float64(bh) * ratio))
	}

	x := bounds.Min.X + (bw-w)/2
	y := bounds.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// ResolveAspect computes the effective display aspect ratio and the video
// rectangle for a renderer surface.
//
// Parameters:
//   - surface: renderer surface size in pixels
//   - sourceRatio: display aspect ratio of the source frame (0 if unknown)
//   - mode: how to fit content to the surface
//   - customRatio: ratio used when mode is CustomAspectRatio
//   - orientation: content rotation in degrees
//
// Returns the effective ratio after any orientation swap, and the rectangle
// the content should occupy. When the ratio needed by the mode is unknown
// (sourceRatio 0 in VideoAspectRatio mode, or a non-positive customRatio),
// the surface is filled edge to edge as if RendererAspectRatio were active.
func ResolveAspect(surface image.Point, sourceRatio float64, mode AspectMode, customRatio float64, orientation int) (float64, image.Rectangle) {
	full := image.Rect(0, 0, surface.X, surface.Y)
	if surface.X <= 0 || surface.Y <= 0 {
		return 0, image.Rectangle{}
	}
	surfaceRatio := float64(surface.X) / float64(surface.Y)

	ratio := 0.0
	switch mode {
	case VideoAspectRatio:
		ratio = sourceRatio
	case CustomAspectRatio:
		ratio = customRatio
	default:
		return surfaceRatio, full
	}
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return surfaceRatio, full
	}
	if OrientationSwapsAxes(orientation) {
		ratio = 1 / ratio
	}
	return ratio, FitRect(full, ratio)
}
