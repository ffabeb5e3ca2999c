// Package sdl2 presents video frames in an SDL2 window.
//
// The backend owns an sdl.Window, an sdl.Renderer and one streaming
// sdl.Texture that is recreated whenever the incoming frame size or format
// changes. Planar YUV uploads go straight to the GPU texture, so no pixel
// conversion happens in this package.
//
// # Usage
//
//	backend, err := sdl2.New("player", 1280, 720)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer backend.Close()
//
//	r, err := avrender.New(backend, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for running {
//		// poll sdl events, feed frames
//		r.Receive(f)
//		r.HandlePaint()
//	}
//
// # Known Limitations
//
// SDL rendering is bound to the OS thread that created the renderer; call
// runtime.LockOSThread in main and keep Receive/HandlePaint there, or feed
// frames from another goroutine and paint from the main loop. Color
// adjustments are not implemented, so SetBrightness and friends decline.
package sdl2

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// Backend renders into an SDL2 window through a streaming texture.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	host *avrender.Renderer

	mu        sync.Mutex
	texture   *sdl.Texture
	texFormat frame.PixelFormat
	texW      int32
	texH      int32
	hasFrame  bool
	bg        [4]uint8

	closeOnce sync.Once
}

// New initializes SDL video on first use and creates a resizable window
// with an accelerated renderer, falling back to the software renderer when
// acceleration is unavailable.
func New(title string, width, height int) (*Backend, error) {
	if sdl.WasInit(sdl.INIT_VIDEO) == 0 {
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			return nil, fmt.Errorf("sdl2: video init failed: %w", err)
		}
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("sdl2: window creation failed: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "New",
			"error":    err,
		}).Warn("Hardware acceleration unavailable, using software renderer")
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			_ = window.Destroy()
			return nil, fmt.Errorf("sdl2: renderer creation failed: %w", err)
		}
	}

	b := &Backend{
		window:   window,
		renderer: renderer,
		bg:       [4]uint8{0, 0, 0, 255},
	}
	logrus.WithFields(logrus.Fields{
		"function": "New",
		"width":    width,
		"height":   height,
	}).Info("SDL2 backend created")
	return b, nil
}

// Close destroys the texture, renderer and window. Safe to call more than
// once.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		if b.texture != nil {
			_ = b.texture.Destroy()
			b.texture = nil
		}
		b.mu.Unlock()
		if b.renderer != nil {
			_ = b.renderer.Destroy()
		}
		if b.window != nil {
			_ = b.window.Destroy()
		}
	})
}

// Attach stores the driving renderer and reports the window's current
// drawable size.
func (b *Backend) Attach(r *avrender.Renderer) {
	b.host = r
	w, h := b.window.GetSize()
	r.Resize(int(w), int(h))
}

// SetBackgroundColor sets the clear color for the bars around the video.
func (b *Backend) SetBackgroundColor(r, g, bl uint8) {
	b.mu.Lock()
	b.bg = [4]uint8{r, g, bl, 255}
	b.mu.Unlock()
}

// Window exposes the native *sdl.Window for event wiring.
func (b *Backend) Window() any {
	return b.window
}

// SyncWindowSize re-reads the window size and reports it to the host.
// Call after a size-changed window event.
func (b *Backend) SyncWindowSize() {
	if b.host == nil {
		return
	}
	w, h := b.window.GetSize()
	b.host.Resize(int(w), int(h))
}

// textureFormatFor maps a frame format to the matching SDL texture format.
func textureFormatFor(f frame.PixelFormat) (uint32, bool) {
	switch f {
	case frame.FormatYUV420P:
		return uint32(sdl.PIXELFORMAT_IYUV), true
	case frame.FormatNV12:
		return uint32(sdl.PIXELFORMAT_NV12), true
	case frame.FormatRGBA32:
		return uint32(sdl.PIXELFORMAT_RGBA32), true
	case frame.FormatBGRA32:
		return uint32(sdl.PIXELFORMAT_BGRA32), true
	case frame.FormatRGB24:
		return uint32(sdl.PIXELFORMAT_RGB24), true
	default:
		return 0, false
	}
}

// IsSupported reports the formats with a native SDL texture equivalent.
func (b *Backend) IsSupported(f frame.PixelFormat) bool {
	_, ok := textureFormatFor(f)
	return ok
}

// ReceiveFrame uploads the frame into the streaming texture, recreating it
// when the size or format changed. Returns false when the upload fails so
// the host keeps its previous geometry.
func (b *Backend) ReceiveFrame(f *frame.Frame) bool {
	sdlFormat, ok := textureFormatFor(f.Format)
	if !ok {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureTextureLocked(sdlFormat, f); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "ReceiveFrame",
			"format":   f.Format.String(),
			"error":    err,
		}).Warn("Texture allocation failed")
		return false
	}
	if err := b.uploadLocked(f); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "ReceiveFrame",
			"format":   f.Format.String(),
			"error":    err,
		}).Warn("Texture upload failed")
		return false
	}
	b.hasFrame = true
	return true
}

func (b *Backend) ensureTextureLocked(sdlFormat uint32, f *frame.Frame) error {
	w, h := int32(f.Width), int32(f.Height)
	if b.texture != nil && b.texFormat == f.Format && b.texW == w && b.texH == h {
		return nil
	}
	if b.texture != nil {
		_ = b.texture.Destroy()
		b.texture = nil
		b.hasFrame = false
	}
	tex, err := b.renderer.CreateTexture(sdlFormat, sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		return err
	}
	b.texture = tex
	b.texFormat = f.Format
	b.texW = w
	b.texH = h
	return nil
}

func (b *Backend) uploadLocked(f *frame.Frame) error {
	switch f.Format {
	case frame.FormatYUV420P:
		return b.texture.UpdateYUV(nil,
			f.Data[0], f.Stride[0],
			f.Data[1], f.Stride[1],
			f.Data[2], f.Stride[2])
	case frame.FormatNV12:
		return b.texture.UpdateNV(nil,
			f.Data[0], f.Stride[0],
			f.Data[1], f.Stride[1])
	default:
		pixels, pitch, err := b.texture.Lock(nil)
		if err != nil {
			return err
		}
		defer b.texture.Unlock()
		row := f.Width * f.Format.BytesPerPixel()
		for y := 0; y < f.Height; y++ {
			copy(pixels[y*pitch:y*pitch+row], f.Data[0][y*f.Stride[0]:y*f.Stride[0]+row])
		}
		return nil
	}
}

// DrawFrame copies the resolved ROI of the texture into the
// orientation-compensated video rectangle.
func (b *Backend) DrawFrame() {
	if b.host == nil {
		return
	}
	snap := b.host.Snapshot()

	b.mu.Lock()
	texture := b.texture
	ready := b.hasFrame
	b.mu.Unlock()
	if texture == nil || !ready || snap.VideoRect.Empty() {
		return
	}

	src := sdlRect(snap.ROI)
	dst := rotatedDst(snap.VideoRect, snap.Orientation)
	if err := b.renderer.CopyEx(texture, &src, &dst, float64(snap.Orientation), nil, sdl.FLIP_NONE); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "DrawFrame",
			"error":    err,
		}).Debug("Texture copy failed")
	}
}

// NeedUpdateBackground always reports true: the renderer backbuffer is
// undefined after Present, so the bars must be cleared for every frame.
func (b *Backend) NeedUpdateBackground() bool {
	return true
}

// DrawBackground clears the whole target with the background color.
func (b *Backend) DrawBackground() {
	b.mu.Lock()
	bg := b.bg
	b.mu.Unlock()
	_ = b.renderer.SetDrawColor(bg[0], bg[1], bg[2], bg[3])
	_ = b.renderer.Clear()
}

// HandlePaintEvent runs one full present cycle: clear, draw, flip.
func (b *Backend) HandlePaintEvent() {
	b.DrawBackground()
	b.DrawFrame()
	b.renderer.Present()
}

// TrySetOrientation accepts any committed quarter turn; CopyEx applies the
// rotation at draw time.
func (b *Backend) TrySetOrientation(int) bool { return true }

// sdlRect converts an image.Rectangle to SDL's origin-and-extent form.
func sdlRect(r image.Rectangle) sdl.Rect {
	return sdl.Rect{
		X: int32(r.Min.X),
		Y: int32(r.Min.Y),
		W: int32(r.Dx()),
		H: int32(r.Dy()),
	}
}

// rotatedDst returns the rectangle to hand CopyEx so that after rotating by
// the given orientation the texture covers exactly vr. CopyEx rotates about
// the destination center, so quarter turns need the extents swapped around
// the same center point.
func rotatedDst(vr image.Rectangle, orientation int) sdl.Rect {
	if !geometry.OrientationSwapsAxes(orientation) {
		return sdlRect(vr)
	}
	cx := vr.Min.X + vr.Dx()/2
	cy := vr.Min.Y + vr.Dy()/2
	w := vr.Dy()
	h := vr.Dx()
	return sdl.Rect{
		X: int32(cx - w/2),
		Y: int32(cy - h/2),
		W: int32(w),
		H: int32(h),
	}
}
