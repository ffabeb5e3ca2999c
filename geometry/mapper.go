package geometry

import "image"

// PointF is a point with float64 coordinates, used for sub-pixel mapping
// between renderer and frame space.
type PointF struct {
	X, Y float64
}

// RectF is a rectangle with float64 origin and extent.
type RectF struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has no area.
func (r RectF) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Mapper converts points between renderer-surface coordinates and frame
// coordinates. VideoRect is the on-surface rectangle the content occupies
// and ROI is the resolved source rectangle displayed inside it.
//
// Mapping is a pure affine transform: no clamping is performed, so points
// outside the video rectangle map to points outside the ROI and vice versa.
// Orientation is intentionally not part of the transform.
type Mapper struct {
	VideoRect image.Rectangle
	ROI       image.Rectangle
}

// degenerate reports whether either rectangle has no area, making the
// transform non-invertible.
func (m Mapper) degenerate() bool {
	return m.VideoRect.Dx() <= 0 || m.VideoRect.Dy() <= 0 ||
		m.ROI.Dx() <= 0 || m.ROI.Dy() <= 0
}

// ToFrame maps a point in renderer-surface coordinates to the frame pixel
// it displays. If either rectangle is degenerate the point is returned
// unchanged.
func (m Mapper) ToFrame(p PointF) PointF {
	if m.degenerate() {
		return p
	}
	sx := float64(m.ROI.Dx()) / float64(m.VideoRect.Dx())
	sy := float64(m.ROI.Dy()) / float64(m.VideoRect.Dy())
	return PointF{
		X: (p.X-float64(m.VideoRect.Min.X))*sx + float64(m.ROI.Min.X),
		Y: (p.Y-float64(m.VideoRect.Min.Y))*sy + float64(m.ROI.Min.Y),
	}
}

// FromFrame maps a frame pixel position to the renderer-surface point that
// displays it. FromFrame is the exact inverse of ToFrame. If either
// rectangle is degenerate the point is returned unchanged.
func (m Mapper) FromFrame(p PointF) PointF {
	if m.degenerate() {
		return p
	}
	sx := float64(m.VideoRect.Dx()) / float64(m.ROI.Dx())
	sy := float64(m.VideoRect.Dy()) / float64(m.ROI.Dy())
	return PointF{
		X: (p.X-float64(m.ROI.Min.X))*sx + float64(m.VideoRect.Min.X),
		Y: (p.Y-float64(m.ROI.Min.Y))*sy + float64(m.VideoRect.Min.Y),
	}
}
