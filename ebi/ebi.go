// Package ebi presents video frames on an Ebitengine scene item.
//
// The backend owns an offscreen *ebiten.Image canvas that the host game
// composites wherever it likes, which makes the renderer usable as one
// element of a larger scene rather than the whole screen. Frames are
// uploaded with WritePixels and projected into the committed video
// rectangle with a GeoM transform; all four color adjustments run on the
// GPU through ebiten's color matrix.
//
// # Usage
//
//	backend := ebi.New(1280, 720)
//	r, err := avrender.New(backend, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// inside the game's Update: r.Receive(f)
//	// inside the game's Draw:
//	r.HandlePaint()
//	screen.DrawImage(backend.Canvas(), nil)
//
// # Known Limitations
//
// Only rgba32 frames are accepted; attach a frame.Converter to the
// renderer for other formats. Canvas bars outside the video rectangle are
// cleared to transparent, letting the scene background show through.
package ebi

import (
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// Backend draws frames onto an owned offscreen canvas.
type Backend struct {
	canvas *ebiten.Image
	host   *avrender.Renderer

	mu       sync.Mutex
	texture  *ebiten.Image
	scratch  []byte
	hasFrame bool
}

// New creates a backend with a canvas of the given size.
func New(width, height int) *Backend {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Backend{canvas: ebiten.NewImage(width, height)}
}

// Attach stores the host renderer and reports the canvas size.
func (b *Backend) Attach(r *avrender.Renderer) {
	b.host = r
	bounds := b.canvas.Bounds()
	r.Resize(bounds.Dx(), bounds.Dy())
}

// Canvas returns the offscreen image the backend draws into.
func (b *Backend) Canvas() *ebiten.Image {
	return b.canvas
}

// SceneItem exposes the canvas as a composable scene element.
func (b *Backend) SceneItem() any {
	return b.canvas
}

// IsSupported accepts only rgba32; everything else goes through the
// host's converter or is dropped.
func (b *Backend) IsSupported(f frame.PixelFormat) bool {
	return f == frame.FormatRGBA32
}

// ReceiveFrame uploads the frame into the staging texture, recreating it
// when the frame size changes.
func (b *Backend) ReceiveFrame(f *frame.Frame) bool {
	if f.Format != frame.FormatRGBA32 {
		logrus.WithFields(logrus.Fields{
			"function": "ReceiveFrame",
			"format":   f.Format.String(),
		}).Warn("Unsupported pixel format reached the ebiten backend")
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.texture == nil || b.texture.Bounds().Dx() != f.Width || b.texture.Bounds().Dy() != f.Height {
		b.texture = ebiten.NewImage(f.Width, f.Height)
		b.hasFrame = false
	}
	b.texture.WritePixels(b.packedPixels(f))
	b.hasFrame = true
	return true
}

// packedPixels returns the frame's pixels with a tight stride, reusing a
// scratch buffer when the source rows are padded.
func (b *Backend) packedPixels(f *frame.Frame) []byte {
	row := f.Width * 4
	if f.Stride[0] == row {
		return f.Data[0][:row*f.Height]
	}
	need := row * f.Height
	if cap(b.scratch) < need {
		b.scratch = make([]byte, need)
	}
	b.scratch = b.scratch[:need]
	for y := 0; y < f.Height; y++ {
		copy(b.scratch[y*row:(y+1)*row], f.Data[0][y*f.Stride[0]:y*f.Stride[0]+row])
	}
	return b.scratch
}

// NeedDrawFrame gates painting until a frame has been staged.
func (b *Backend) NeedDrawFrame() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasFrame
}

// DrawFrame clears the canvas and projects the staged frame's resolved
// ROI into the video rectangle with the committed orientation, filter and
// color adjustments.
func (b *Backend) DrawFrame() {
	if b.host == nil {
		return
	}
	snap := b.host.Snapshot()

	b.mu.Lock()
	texture := b.texture
	ready := b.hasFrame
	b.mu.Unlock()

	b.canvas.Clear()
	if texture == nil || !ready || snap.VideoRect.Empty() {
		return
	}

	roi := snap.ROI.Intersect(texture.Bounds())
	if roi.Empty() {
		return
	}
	sub := texture.SubImage(roi).(*ebiten.Image)

	op := &colorm.DrawImageOptions{}
	op.GeoM = projection(roi, snap.VideoRect, snap.Orientation)
	op.Filter = filterFor(snap.Quality)
	colorm.DrawImage(b.canvas, sub, colorMatrix(snap.Brightness, snap.Contrast, snap.Hue, snap.Saturation), op)
}

// TrySetOrientation accepts quarter turns; the projection rotates at draw
// time.
func (b *Backend) TrySetOrientation(int) bool { return true }

// TrySetBrightness accepts; applied through the color matrix.
func (b *Backend) TrySetBrightness(float64) bool { return true }

// TrySetContrast accepts; applied through the color matrix.
func (b *Backend) TrySetContrast(float64) bool { return true }

// TrySetHue accepts; applied through the color matrix.
func (b *Backend) TrySetHue(float64) bool { return true }

// TrySetSaturation accepts; applied through the color matrix.
func (b *Backend) TrySetSaturation(float64) bool { return true }

// projection builds the transform that maps a roi-sized box at the origin
// onto the video rectangle, rotated by the given orientation.
func projection(roi, vr image.Rectangle, orientation int) ebiten.GeoM {
	var geom ebiten.GeoM
	rw := float64(roi.Dx())
	rh := float64(roi.Dy())

	switch geometry.NormalizeOrientation(orientation) {
	case 90:
		geom.Rotate(math.Pi / 2)
		geom.Translate(rh, 0)
		rw, rh = rh, rw
	case 180:
		geom.Rotate(math.Pi)
		geom.Translate(rw, rh)
	case 270:
		geom.Rotate(3 * math.Pi / 2)
		geom.Translate(0, rw)
		rw, rh = rh, rw
	}

	geom.Scale(float64(vr.Dx())/rw, float64(vr.Dy())/rh)
	geom.Translate(float64(vr.Min.X), float64(vr.Min.Y))
	return geom
}

// filterFor maps the committed quality to an ebiten filter.
func filterFor(q avrender.Quality) ebiten.Filter {
	if q == avrender.QualityFastest {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// colorMatrix converts the renderer's [-1,1] adjustments into a color
// matrix: hue rotates by up to a half turn, saturation scales in HSV,
// contrast scales about the mid level and brightness translates.
func colorMatrix(brightness, contrast, hue, saturation float64) colorm.ColorM {
	var cm colorm.ColorM
	if hue != 0 || saturation != 0 {
		cm.ChangeHSV(hue*math.Pi, 1+saturation, 1)
	}
	if contrast != 0 {
		f := 1 + contrast
		cm.Scale(f, f, f, 1)
		ofs := 0.5 * (1 - f)
		cm.Translate(ofs, ofs, ofs, 0)
	}
	if brightness != 0 {
		cm.Translate(brightness, brightness, brightness, 0)
	}
	return cm
}
