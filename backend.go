package avrender

import (
	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// Backend is the minimal contract a rendering target must satisfy. The
// Renderer drives exactly one backend for its lifetime.
//
// IsSupported reports whether the backend can ingest frames of the given
// format; it is consulted during negotiation and must be callable from any
// goroutine. ReceiveFrame stages a frame for display and returns false to
// drop it, in which case the Renderer leaves its geometry untouched.
// DrawFrame paints the staged frame using the current Snapshot of the
// owning Renderer.
type Backend interface {
	IsSupported(f frame.PixelFormat) bool
	ReceiveFrame(f *frame.Frame) bool
	DrawFrame()
}

// Attacher is implemented by backends that need a reference to their
// Renderer, typically to read Snapshot at draw time or to seed the surface
// size. Attach is called exactly once, from New, before any other hook.
type Attacher interface {
	Attach(r *Renderer)
}

// OrientationHook lets a backend accept quarter-turn rotation. Without it
// SetOrientation declines: rotation needs backend cooperation.
type OrientationHook interface {
	TrySetOrientation(degrees int) bool
}

// ColorHook lets a backend accept color adjustments, each in [-1, 1] with 0
// meaning unchanged. A backend may accept some channels and decline others.
// Without the hook all four setters decline.
type ColorHook interface {
	TrySetBrightness(v float64) bool
	TrySetContrast(v float64) bool
	TrySetHue(v float64) bool
	TrySetSaturation(v float64) bool
}

// AspectHook lets a backend veto aspect-ratio changes. Absent the hook the
// Renderer commits them itself.
type AspectHook interface {
	TrySetAspectRatioMode(m geometry.AspectMode) bool
	TrySetAspectRatio(ratio float64) bool
}

// ROIHook lets a backend veto region-of-interest changes.
type ROIHook interface {
	TrySetRegionOfInterest(roi geometry.ROI) bool
}

// QualityHook lets a backend veto scaling-quality changes.
type QualityHook interface {
	TrySetQuality(q Quality) bool
}

// FormatHook lets a backend veto pixel-format preference changes.
type FormatHook interface {
	TrySetPreferredPixelFormat(f frame.PixelFormat) bool
	TryForcePreferredPixelFormat(force bool) bool
}

// ResizeHook lets a backend veto or react to surface resizes.
type ResizeHook interface {
	TryResize(width, height int) bool
}

// FrameMapper overrides the Renderer's coordinate mapping. Backends whose
// presentation applies transforms beyond videoRect placement (extra
// scaling, device-pixel ratios) implement this to stay authoritative.
type FrameMapper interface {
	MapToFrame(p geometry.PointF) geometry.PointF
	MapFromFrame(p geometry.PointF) geometry.PointF
}

// BackgroundHandler draws the surface area outside the video rectangle.
// NeedUpdateBackground reports whether the background is stale (first paint,
// geometry change) and DrawBackground clears it.
type BackgroundHandler interface {
	NeedUpdateBackground() bool
	DrawBackground()
}

// FrameGate lets a backend skip frame drawing for a paint cycle, for
// example when no frame has been staged yet.
type FrameGate interface {
	NeedDrawFrame() bool
}

// PaintHandler replaces the Renderer's default paint sequence entirely.
// Backends owning their own event loop or compositor implement this.
type PaintHandler interface {
	HandlePaintEvent()
}

// WindowProvider exposes the native window a windowed backend draws into.
// The concrete type is backend-specific.
type WindowProvider interface {
	Window() any
}

// WidgetProvider exposes the in-memory surface of a widget-style backend.
type WidgetProvider interface {
	Widget() any
}

// SceneItemProvider exposes the composable scene item of a scene-graph
// backend.
type SceneItemProvider interface {
	SceneItem() any
}
