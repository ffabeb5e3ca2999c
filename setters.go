package avrender

import (
	"image"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// Every mutator follows the same protocol: validate the input (invalid
// returns false without consulting the backend), short-circuit no-op sets
// (returns true without consulting the backend), dispatch the backend hook,
// and only then commit, recompute derived geometry and notify observers.
// Hooks fall into two classes. Veto hooks default to success when the
// backend does not implement them: aspect mode, aspect ratio, resize,
// quality, region of interest and the format preferences. Opt-in hooks
// default to failure: orientation and the four color adjustments need
// backend support to mean anything.

func (r *Renderer) hookAspectMode(m geometry.AspectMode) bool {
	if h, ok := r.backend.(AspectHook); ok {
		return h.TrySetAspectRatioMode(m)
	}
	return true
}

func (r *Renderer) hookAspectRatio(ratio float64) bool {
	if h, ok := r.backend.(AspectHook); ok {
		return h.TrySetAspectRatio(ratio)
	}
	return true
}

func (r *Renderer) hookROI(roi geometry.ROI) bool {
	if h, ok := r.backend.(ROIHook); ok {
		return h.TrySetRegionOfInterest(roi)
	}
	return true
}

func (r *Renderer) hookQuality(q Quality) bool {
	if h, ok := r.backend.(QualityHook); ok {
		return h.TrySetQuality(q)
	}
	return true
}

func (r *Renderer) hookResize(width, height int) bool {
	if h, ok := r.backend.(ResizeHook); ok {
		return h.TryResize(width, height)
	}
	return true
}

func (r *Renderer) hookPreferredFormat(f frame.PixelFormat) bool {
	if h, ok := r.backend.(FormatHook); ok {
		return h.TrySetPreferredPixelFormat(f)
	}
	return true
}

func (r *Renderer) hookForcePreferred(force bool) bool {
	if h, ok := r.backend.(FormatHook); ok {
		return h.TryForcePreferredPixelFormat(force)
	}
	return true
}

func (r *Renderer) hookOrientation(degrees int) bool {
	if h, ok := r.backend.(OrientationHook); ok {
		return h.TrySetOrientation(degrees)
	}
	return false
}

// SetOutAspectRatioMode selects how frame content is fitted to the surface.
// Returns false for an undefined mode or when the backend vetoes the
// change.
func (r *Renderer) SetOutAspectRatioMode(mode geometry.AspectMode) bool {
	if !mode.Valid() {
		logrus.WithFields(logrus.Fields{
			"function": "SetOutAspectRatioMode",
			"mode":     int(mode),
		}).Warn("Rejected undefined aspect mode")
		return false
	}

	r.mu.RLock()
	cur := r.aspectMode
	r.mu.RUnlock()
	if mode == cur {
		return true
	}
	if !r.hookAspectMode(mode) {
		return false
	}

	r.mu.Lock()
	r.aspectMode = mode
	sig := r.recomputeLocked()
	sig.update = true
	r.mu.Unlock()
	sig.fire()

	logrus.WithFields(logrus.Fields{
		"function": "SetOutAspectRatioMode",
		"mode":     mode.String(),
	}).Debug("Aspect mode committed")
	return true
}

// SetOutAspectRatio sets a custom output aspect ratio and switches the
// aspect mode to CustomAspectRatio. Returns false for a non-positive or
// non-finite ratio, or when the backend vetoes.
func (r *Renderer) SetOutAspectRatio(ratio float64) bool {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		logrus.WithFields(logrus.Fields{
			"function": "SetOutAspectRatio",
			"ratio":    ratio,
		}).Warn("Rejected invalid aspect ratio")
		return false
	}

	r.mu.RLock()
	noop := r.customRatio == ratio && r.aspectMode == geometry.CustomAspectRatio
	r.mu.RUnlock()
	if noop {
		return true
	}
	if !r.hookAspectRatio(ratio) {
		return false
	}

	r.mu.Lock()
	r.customRatio = ratio
	r.aspectMode = geometry.CustomAspectRatio
	sig := r.recomputeLocked()
	sig.update = true
	r.mu.Unlock()
	sig.fire()
	return true
}

// SetOrientation rotates displayed content by a quarter-turn multiple in
// degrees. Any multiple of 90 is accepted and normalized into [0, 360), so
// -90 commits as 270. Returns false for other angles or when the backend
// lacks rotation support.
func (r *Renderer) SetOrientation(degrees int) bool {
	if !geometry.ValidOrientation(degrees) {
		logrus.WithFields(logrus.Fields{
			"function": "SetOrientation",
			"degrees":  degrees,
		}).Warn("Rejected orientation: not a quarter turn")
		return false
	}
	n := geometry.NormalizeOrientation(degrees)

	r.mu.RLock()
	cur := r.orientation
	r.mu.RUnlock()
	if n == cur {
		return true
	}
	if !r.hookOrientation(n) {
		logrus.WithFields(logrus.Fields{
			"function": "SetOrientation",
			"degrees":  n,
		}).Debug("Backend declined orientation")
		return false
	}

	r.mu.Lock()
	r.orientation = n
	sig := r.recomputeLocked()
	sig.orientation = &n
	sig.update = true
	r.mu.Unlock()
	sig.fire()
	return true
}

// SetQuality selects the scaling quality. Returns false for an undefined
// level or when the backend vetoes.
func (r *Renderer) SetQuality(q Quality) bool {
	if !q.Valid() {
		logrus.WithFields(logrus.Fields{
			"function": "SetQuality",
			"quality":  int(q),
		}).Warn("Rejected undefined quality level")
		return false
	}

	r.mu.RLock()
	cur := r.quality
	r.mu.RUnlock()
	if q == cur {
		return true
	}
	if !r.hookQuality(q) {
		return false
	}

	r.mu.Lock()
	r.quality = q
	sig := r.collectLocked()
	sig.update = true
	r.mu.Unlock()
	sig.fire()
	return true
}

// SetRegionOfInterest selects the sub-rectangle of the source to display.
// The descriptor is stored as given and resolved against each frame;
// out-of-range values clamp at resolution rather than failing here. Returns
// false for non-finite components, an undefined encoding, or a backend
// veto.
func (r *Renderer) SetRegionOfInterest(roi geometry.ROI) bool {
	for _, v := range [...]float64{roi.X, roi.Y, roi.W, roi.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logrus.WithFields(logrus.Fields{
				"function": "SetRegionOfInterest",
			}).Warn("Rejected ROI with non-finite component")
			return false
		}
	}
	if roi.Encoding < geometry.EncodingAuto || roi.Encoding > geometry.EncodingAbsolute {
		return false
	}

	r.mu.RLock()
	cur := r.roi
	r.mu.RUnlock()
	if roi == cur {
		return true
	}
	if !r.hookROI(roi) {
		return false
	}

	r.mu.Lock()
	r.roi = roi
	sig := r.collectLocked()
	sig.update = true
	r.mu.Unlock()
	sig.fire()
	return true
}

// Resize tells the Renderer its presentation surface changed size. Returns
// false for non-positive dimensions or a backend veto. On commit the video
// rectangle is recomputed and observers notified.
func (r *Renderer) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Resize",
			"width":    width,
			"height":   height,
		}).Warn("Rejected non-positive surface size")
		return false
	}

	r.mu.RLock()
	cur := r.rendererSize
	r.mu.RUnlock()
	if cur.X == width && cur.Y == height {
		return true
	}
	if !r.hookResize(width, height) {
		return false
	}

	r.mu.Lock()
	r.rendererSize = image.Pt(width, height)
	sig := r.recomputeLocked()
	sig.update = true
	r.mu.Unlock()
	sig.fire()

	logrus.WithFields(logrus.Fields{
		"function": "Resize",
		"width":    width,
		"height":   height,
	}).Debug("Surface resized")
	return true
}

// SetPreferredPixelFormat asks producers for the given format during
// negotiation. Any recognized format is stored, whether or not the backend
// supports it: backend support is evaluated per frame at negotiation time.
// Returns false only for unrecognized formats or a backend veto.
func (r *Renderer) SetPreferredPixelFormat(f frame.PixelFormat) bool {
	if !f.Valid() {
		logrus.WithFields(logrus.Fields{
			"function": "SetPreferredPixelFormat",
			"format":   int(f),
		}).Warn("Rejected unrecognized pixel format")
		return false
	}

	r.mu.RLock()
	cur := r.preferredFormat
	r.mu.RUnlock()
	if f == cur {
		return true
	}
	if !r.hookPreferredFormat(f) {
		return false
	}

	r.mu.Lock()
	r.preferredFormat = f
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SetPreferredPixelFormat",
		"format":   f.String(),
	}).Debug("Preferred pixel format committed")
	return true
}

// ForcePreferredPixelFormat makes negotiation pick the preferred format
// over a supported native one whenever the backend supports it. Returns
// false only on a backend veto.
func (r *Renderer) ForcePreferredPixelFormat(force bool) bool {
	r.mu.RLock()
	cur := r.forcePreferred
	r.mu.RUnlock()
	if force == cur {
		return true
	}
	if !r.hookForcePreferred(force) {
		return false
	}

	r.mu.Lock()
	r.forcePreferred = force
	r.mu.Unlock()
	return true
}

// setAdjust runs the mutator protocol for one color channel. The channel is
// an opt-in capability: without a ColorHook the set declines.
func (r *Renderer) setAdjust(channel string, v float64, field *float64, try func(ColorHook) bool) bool {
	if v < -1 || v > 1 || math.IsNaN(v) {
		logrus.WithFields(logrus.Fields{
			"function": "setAdjust",
			"channel":  channel,
			"value":    v,
		}).Warn("Rejected color adjustment out of [-1,1]")
		return false
	}

	r.mu.RLock()
	cur := *field
	r.mu.RUnlock()
	if v == cur {
		return true
	}

	h, ok := r.backend.(ColorHook)
	if !ok || !try(h) {
		logrus.WithFields(logrus.Fields{
			"function": "setAdjust",
			"channel":  channel,
			"value":    v,
		}).Debug("Backend declined color adjustment")
		return false
	}

	r.mu.Lock()
	*field = v
	sig := r.collectLocked()
	sig.update = true
	r.mu.Unlock()
	sig.fire()
	return true
}

// SetBrightness adjusts brightness in [-1, 1], 0 meaning unchanged.
// Declines when the backend has no color support.
func (r *Renderer) SetBrightness(v float64) bool {
	return r.setAdjust("brightness", v, &r.brightness, func(h ColorHook) bool {
		return h.TrySetBrightness(v)
	})
}

// SetContrast adjusts contrast in [-1, 1], 0 meaning unchanged. Declines
// when the backend has no color support.
func (r *Renderer) SetContrast(v float64) bool {
	return r.setAdjust("contrast", v, &r.contrast, func(h ColorHook) bool {
		return h.TrySetContrast(v)
	})
}

// SetHue adjusts hue in [-1, 1], 0 meaning unchanged. Declines when the
// backend has no color support.
func (r *Renderer) SetHue(v float64) bool {
	return r.setAdjust("hue", v, &r.hue, func(h ColorHook) bool {
		return h.TrySetHue(v)
	})
}

// SetSaturation adjusts saturation in [-1, 1], 0 meaning unchanged.
// Declines when the backend has no color support.
func (r *Renderer) SetSaturation(v float64) bool {
	return r.setAdjust("saturation", v, &r.saturation, func(h ColorHook) bool {
		return h.TrySetSaturation(v)
	})
}
