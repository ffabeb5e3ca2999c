package avrender

import (
	"image"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// Renderer owns the presentation state for one rendering backend: where
// frame content lands on the surface, which part of the source is shown,
// and how producers and the backend agree on a pixel format.
//
// All exported methods are safe for concurrent use. Getters take a read
// lock; mutators follow a validate / no-op / hook / commit protocol with
// backend hooks and observer callbacks invoked outside the lock.
type Renderer struct {
	// Backend under control. Immutable after New.
	backend Backend

	// Aspect policy
	aspectMode  geometry.AspectMode
	customRatio float64
	outRatio    float64
	sourceRatio float64
	orientation int

	// Surface and derived placement
	rendererSize image.Point
	frameSize    image.Point
	videoRect    image.Rectangle

	// Source selection and scaling
	roi     geometry.ROI
	quality Quality

	// Color adjustments in [-1, 1]
	brightness float64
	contrast   float64
	hue        float64
	saturation float64

	// Format negotiation
	preferredFormat frame.PixelFormat
	forcePreferred  bool
	converter       frame.Converter

	// Frame accounting
	framesReceived uint64
	framesDropped  uint64

	// Observers
	sourceRatioCallback SourceAspectRatioCallback
	videoRectCallback   VideoRectCallback
	orientationCallback OrientationCallback
	updateCallback      UpdateRequestedCallback

	// Thread safety
	mu sync.RWMutex
}

// Geometry is a consistent copy of the Renderer's presentation state, taken
// under the lock by Snapshot. Backends read one per draw so a concurrent
// mutation cannot tear a frame's placement. ROI is resolved against the
// current frame size and is empty until a frame has been accepted.
type Geometry struct {
	RendererSize      image.Point
	FrameSize         image.Point
	VideoRect         image.Rectangle
	ROI               image.Rectangle
	SourceAspectRatio float64
	OutAspectRatio    float64
	AspectMode        geometry.AspectMode
	Orientation       int
	Quality           Quality
	Brightness        float64
	Contrast          float64
	Hue               float64
	Saturation        float64
}

// New creates a Renderer driving the given backend, seeded from opts. A nil
// opts uses NewOptions defaults. Invalid option values are rejected with an
// error rather than silently adjusted. If the backend implements Attacher
// it is attached before New returns.
func New(backend Backend, opts *Options) (*Renderer, error) {
	if backend == nil {
		logrus.WithFields(logrus.Fields{
			"function": "New",
		}).Error("Renderer creation failed: nil backend")
		return nil, ErrNilBackend
	}
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "New",
			"error":    err,
		}).Error("Renderer creation failed: bad options")
		return nil, err
	}

	r := &Renderer{
		backend:         backend,
		aspectMode:      opts.AspectMode,
		customRatio:     opts.CustomAspectRatio,
		orientation:     geometry.NormalizeOrientation(opts.Orientation),
		quality:         opts.Quality,
		roi:             opts.RegionOfInterest,
		brightness:      opts.Brightness,
		contrast:        opts.Contrast,
		hue:             opts.Hue,
		saturation:      opts.Saturation,
		preferredFormat: opts.PreferredFormat,
		forcePreferred:  opts.ForcePreferredFormat,
		converter:       opts.Converter,
	}

	if a, ok := backend.(Attacher); ok {
		a.Attach(r)
	}

	logrus.WithFields(logrus.Fields{
		"function":         "New",
		"aspect_mode":      r.aspectMode.String(),
		"quality":          r.quality.String(),
		"orientation":      r.orientation,
		"preferred_format": r.preferredFormat.String(),
		"force_preferred":  r.forcePreferred,
	}).Info("Renderer created")

	return r, nil
}

// recomputeLocked rederives the effective output ratio and video rectangle
// from the current state. Callers hold the write lock. The returned signals
// carry a video-rect notification when the rectangle changed.
func (r *Renderer) recomputeLocked() signals {
	prev := r.videoRect
	ratio, rect := geometry.ResolveAspect(
		r.rendererSize, r.sourceRatio, r.aspectMode, r.customRatio, r.orientation)
	r.outRatio = ratio
	r.videoRect = rect

	sig := r.collectLocked()
	if rect != prev {
		sig.videoRect = &rect
	}
	return sig
}

// collectLocked snapshots the observer callbacks for firing after unlock.
func (r *Renderer) collectLocked() signals {
	return signals{
		sourceRatioCB: r.sourceRatioCallback,
		videoRectCB:   r.videoRectCallback,
		orientationCB: r.orientationCallback,
		updateCB:      r.updateCallback,
	}
}

// Snapshot returns a consistent copy of the presentation state for
// draw-time use.
func (r *Renderer) Snapshot() Geometry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Geometry{
		RendererSize:      r.rendererSize,
		FrameSize:         r.frameSize,
		VideoRect:         r.videoRect,
		ROI:               r.roi.Resolve(r.frameSize),
		SourceAspectRatio: r.sourceRatio,
		OutAspectRatio:    r.outRatio,
		AspectMode:        r.aspectMode,
		Orientation:       r.orientation,
		Quality:           r.quality,
		Brightness:        r.brightness,
		Contrast:          r.contrast,
		Hue:               r.hue,
		Saturation:        r.saturation,
	}
}

// OutAspectRatioMode returns the active aspect mode.
func (r *Renderer) OutAspectRatioMode() geometry.AspectMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aspectMode
}

// OutAspectRatio returns the effective output aspect ratio: the surface
// ratio in renderer mode, the source ratio in video mode, or the custom
// ratio, after any orientation swap.
func (r *Renderer) OutAspectRatio() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outRatio
}

// SourceAspectRatio returns the display aspect ratio of the last accepted
// frame, or 0 before any frame arrived.
func (r *Renderer) SourceAspectRatio() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sourceRatio
}

// Orientation returns the committed orientation in degrees: 0, 90, 180 or
// 270.
func (r *Renderer) Orientation() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orientation
}

// Quality returns the active scaling quality.
func (r *Renderer) Quality() Quality {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.quality
}

// RegionOfInterest returns the ROI descriptor as set, unresolved.
func (r *Renderer) RegionOfInterest() geometry.ROI {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roi
}

// RealROI returns the ROI resolved against the current frame size. Empty
// until a frame has been accepted.
func (r *Renderer) RealROI() image.Rectangle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roi.Resolve(r.frameSize)
}

// NormalizedROI returns the ROI as fractions of the current frame size, or
// the unit rectangle before any frame arrived.
func (r *Renderer) NormalizedROI() geometry.RectF {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roi.Normalized(r.frameSize)
}

// VideoRect returns the rectangle frame content currently occupies on the
// surface.
func (r *Renderer) VideoRect() image.Rectangle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.videoRect
}

// RendererSize returns the current surface size.
func (r *Renderer) RendererSize() image.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rendererSize
}

// FrameSize returns the dimensions of the last accepted frame.
func (r *Renderer) FrameSize() image.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frameSize
}

// Brightness returns the committed brightness adjustment.
func (r *Renderer) Brightness() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.brightness
}

// Contrast returns the committed contrast adjustment.
func (r *Renderer) Contrast() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contrast
}

// Hue returns the committed hue adjustment.
func (r *Renderer) Hue() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hue
}

// Saturation returns the committed saturation adjustment.
func (r *Renderer) Saturation() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saturation
}

// PreferredPixelFormat returns the format producers are asked to deliver.
func (r *Renderer) PreferredPixelFormat() frame.PixelFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.preferredFormat
}

// IsPreferredPixelFormatForced reports whether negotiation overrides
// supported native formats with the preferred one.
func (r *Renderer) IsPreferredPixelFormatForced() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forcePreferred
}

// Stats reports how many frames have been accepted and dropped since
// creation.
func (r *Renderer) Stats() (received, dropped uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.framesReceived, r.framesDropped
}

// SetConverter installs the frame converter used when negotiation picks a
// format other than a frame's native one. Passing nil removes it; frames
// needing conversion are then dropped.
func (r *Renderer) SetConverter(c frame.Converter) {
	r.mu.Lock()
	r.converter = c
	r.mu.Unlock()
}

// MapToFrame maps a surface point to the frame pixel it displays. The
// backend's FrameMapper takes precedence when implemented; otherwise the
// current video rectangle and resolved ROI define the transform. Points
// outside the video rectangle extrapolate rather than clamp.
func (r *Renderer) MapToFrame(p geometry.PointF) geometry.PointF {
	if m, ok := r.backend.(FrameMapper); ok {
		return m.MapToFrame(p)
	}
	return r.mapper().ToFrame(p)
}

// MapFromFrame maps a frame pixel position to the surface point displaying
// it. Exact inverse of MapToFrame.
func (r *Renderer) MapFromFrame(p geometry.PointF) geometry.PointF {
	if m, ok := r.backend.(FrameMapper); ok {
		return m.MapFromFrame(p)
	}
	return r.mapper().FromFrame(p)
}

func (r *Renderer) mapper() geometry.Mapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return geometry.Mapper{
		VideoRect: r.videoRect,
		ROI:       r.roi.Resolve(r.frameSize),
	}
}

// HandlePaint runs one paint cycle on the calling goroutine. A backend
// implementing PaintHandler owns the whole cycle; otherwise the background
// is refreshed when stale and the frame drawn unless the backend's
// FrameGate declines.
func (r *Renderer) HandlePaint() {
	if h, ok := r.backend.(PaintHandler); ok {
		h.HandlePaintEvent()
		return
	}
	if bg, ok := r.backend.(BackgroundHandler); ok && bg.NeedUpdateBackground() {
		bg.DrawBackground()
	}
	if g, ok := r.backend.(FrameGate); ok && !g.NeedDrawFrame() {
		return
	}
	r.backend.DrawFrame()
}

// Window returns the backend's native window, or nil for backends without
// one.
func (r *Renderer) Window() any {
	if p, ok := r.backend.(WindowProvider); ok {
		return p.Window()
	}
	return nil
}

// Widget returns the backend's in-memory surface, or nil for backends
// without one.
func (r *Renderer) Widget() any {
	if p, ok := r.backend.(WidgetProvider); ok {
		return p.Widget()
	}
	return nil
}

// SceneItem returns the backend's composable scene item, or nil for
// backends without one.
func (r *Renderer) SceneItem() any {
	if p, ok := r.backend.(SceneItemProvider); ok {
		return p.SceneItem()
	}
	return nil
}
