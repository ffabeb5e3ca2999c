// Package soft implements a software rendering backend that paints frames
// into an in-memory RGBA surface.
//
// The surface plays the role of a widget: hosts read it after painting and
// blit or encode it however they like. All packed pixel formats are
// supported; staging converts them to RGBA once per frame. Drawing crops to
// the resolved region of interest, rotates by the committed orientation,
// scales into the video rectangle with a quality-selected interpolator and
// applies brightness, contrast and saturation in place. Hue is declined:
// the color stage works on RGB and has no hue rotation.
//
// The backend is deterministic and device-free, which also makes it the
// reference implementation for pixel-exact tests.
package soft

import (
	"image"
	"image/color"
	"sync"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/frame"
)

// Backend paints into an owned *image.RGBA surface.
type Backend struct {
	renderer *avrender.Renderer
	surface  *image.RGBA
	bg       color.RGBA

	// Staged frame, written by the producer and read by the painter.
	staged   *image.RGBA
	stagedMu sync.Mutex

	// Last video rectangle the background was painted around.
	paintedBg image.Rectangle
	hasBg     bool
	bgMu      sync.Mutex
}

// New creates a software backend with a surface of the given size. The
// background defaults to opaque black.
func New(width, height int) *Backend {
	logrus.WithFields(logrus.Fields{
		"function": "New",
		"width":    width,
		"height":   height,
	}).Debug("Creating software backend")

	return &Backend{
		surface: image.NewRGBA(image.Rect(0, 0, width, height)),
		bg:      color.RGBA{A: 0xFF},
	}
}

// Attach stores the renderer and seeds its surface size, so geometry is
// valid before the first frame.
func (b *Backend) Attach(r *avrender.Renderer) {
	b.renderer = r
	bounds := b.surface.Bounds()
	r.Resize(bounds.Dx(), bounds.Dy())
}

// SetBackgroundColor changes the color painted outside the video rectangle.
func (b *Backend) SetBackgroundColor(c color.RGBA) {
	b.bgMu.Lock()
	b.bg = c
	b.hasBg = false
	b.bgMu.Unlock()
}

// Surface returns the backend's RGBA surface. The painter mutates it in
// HandlePaint cycles; hosts read it between cycles.
func (b *Backend) Surface() *image.RGBA {
	return b.surface
}

// Widget implements avrender.WidgetProvider.
func (b *Backend) Widget() any {
	return b.surface
}

// IsSupported implements avrender.Backend. All packed formats are accepted;
// planar formats need a converter upstream.
func (b *Backend) IsSupported(f frame.PixelFormat) bool {
	switch f {
	case frame.FormatRGBA32, frame.FormatBGRA32, frame.FormatRGB24, frame.FormatGray8:
		return true
	}
	return false
}

// ReceiveFrame implements avrender.Backend. The frame is converted to RGBA
// and staged; the previous staged frame is released.
func (b *Backend) ReceiveFrame(f *frame.Frame) bool {
	img, err := f.ToRGBA()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "ReceiveFrame",
			"format":   f.Format.String(),
			"error":    err,
		}).Warn("Software backend cannot stage frame")
		return false
	}

	b.stagedMu.Lock()
	b.staged = img
	b.stagedMu.Unlock()
	return true
}

// DrawFrame implements avrender.Backend: crop, rotate, scale and color the
// staged frame into the video rectangle.
func (b *Backend) DrawFrame() {
	if b.renderer == nil {
		return
	}
	snap := b.renderer.Snapshot()

	b.stagedMu.Lock()
	staged := b.staged
	b.stagedMu.Unlock()
	if staged == nil || snap.VideoRect.Empty() {
		return
	}

	roi := snap.ROI.Intersect(staged.Bounds())
	if roi.Empty() {
		return
	}

	src := staged.SubImage(roi).(*image.RGBA)
	rotated := rotateRGBA(src, snap.Orientation)
	scalerFor(snap.Quality).Scale(b.surface, snap.VideoRect, rotated, rotated.Bounds(), xdraw.Src, nil)
	applyColor(b.surface, snap.VideoRect, snap.Brightness, snap.Contrast, snap.Saturation)
}

// NeedUpdateBackground implements avrender.BackgroundHandler: the
// background is stale until painted once and again whenever the video
// rectangle moved.
func (b *Backend) NeedUpdateBackground() bool {
	if b.renderer == nil {
		return false
	}
	rect := b.renderer.VideoRect()
	b.bgMu.Lock()
	defer b.bgMu.Unlock()
	return !b.hasBg || rect != b.paintedBg
}

// DrawBackground implements avrender.BackgroundHandler: fills the whole
// surface with the background color. The next DrawFrame repaints the video
// rectangle over it.
func (b *Backend) DrawBackground() {
	if b.renderer == nil {
		return
	}
	rect := b.renderer.VideoRect()

	b.bgMu.Lock()
	bg := b.bg
	b.paintedBg = rect
	b.hasBg = true
	b.bgMu.Unlock()

	fillRGBA(b.surface, b.surface.Bounds(), bg)
}

// TrySetOrientation implements avrender.OrientationHook; all quarter turns
// are drawable.
func (b *Backend) TrySetOrientation(int) bool { return true }

// TrySetBrightness implements part of avrender.ColorHook.
func (b *Backend) TrySetBrightness(float64) bool { return true }

// TrySetContrast implements part of avrender.ColorHook.
func (b *Backend) TrySetContrast(float64) bool { return true }

// TrySetHue implements part of avrender.ColorHook. Declined: the RGB color
// stage has no hue rotation.
func (b *Backend) TrySetHue(float64) bool { return false }

// TrySetSaturation implements part of avrender.ColorHook.
func (b *Backend) TrySetSaturation(float64) bool { return true }
