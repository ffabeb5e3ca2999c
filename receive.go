package avrender

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/avrender/frame"
)

// NegotiatePixelFormat returns the format a frame arriving in the given
// native format will be delivered in. When forcing is on and the backend
// supports the preferred format, the preferred format wins even over a
// supported native format. Otherwise a supported native format is kept,
// with the preferred format as fallback. If nothing matches the native
// format is returned; Receive drops such frames before they reach the
// backend.
func (r *Renderer) NegotiatePixelFormat(native frame.PixelFormat) frame.PixelFormat {
	r.mu.RLock()
	preferred := r.preferredFormat
	force := r.forcePreferred
	r.mu.RUnlock()
	return negotiateFormat(native, preferred, force, r.backend.IsSupported)
}

// negotiateFormat is the pure negotiation ladder, factored out so it can be
// exercised without a Renderer.
func negotiateFormat(native, preferred frame.PixelFormat, force bool, supported func(frame.PixelFormat) bool) frame.PixelFormat {
	if force && preferred.Valid() && supported(preferred) {
		return preferred
	}
	if supported(native) {
		return native
	}
	if preferred.Valid() && supported(preferred) {
		return preferred
	}
	return native
}

// Receive ingests one decoded frame from the producer. It validates the
// frame, negotiates its delivery format (converting when a converter is
// installed), and stages it in the backend. Frames in a format the backend
// cannot take and negotiation cannot redirect are dropped without reaching
// the backend. Only when the backend accepts does the Renderer commit the
// frame's size and display aspect ratio and recompute the video rectangle;
// a dropped frame leaves all geometry untouched.
//
// Receive never blocks on painting and is safe to call concurrently with
// mutators and HandlePaint. Returns true when the frame was accepted.
func (r *Renderer) Receive(f *frame.Frame) bool {
	if f == nil {
		return r.dropFrame(logrus.Fields{
			"function": "Receive",
			"reason":   "nil frame",
		})
	}
	if err := f.Validate(); err != nil {
		return r.dropFrame(logrus.Fields{
			"function": "Receive",
			"reason":   "invalid frame",
			"error":    err,
		})
	}

	target := r.NegotiatePixelFormat(f.Format)
	deliver := f
	if target != f.Format {
		r.mu.RLock()
		conv := r.converter
		r.mu.RUnlock()
		if conv == nil {
			return r.dropFrame(logrus.Fields{
				"function": "Receive",
				"reason":   "no converter installed",
				"native":   f.Format.String(),
				"target":   target.String(),
			})
		}
		out, err := conv.Convert(f, target)
		if err != nil {
			return r.dropFrame(logrus.Fields{
				"function": "Receive",
				"reason":   "conversion failed",
				"native":   f.Format.String(),
				"target":   target.String(),
				"error":    err,
			})
		}
		deliver = out
	} else if !r.backend.IsSupported(target) {
		return r.dropFrame(logrus.Fields{
			"function": "Receive",
			"reason":   "unsupported native format",
			"format":   f.Format.String(),
		})
	}

	if !r.backend.ReceiveFrame(deliver) {
		return r.dropFrame(logrus.Fields{
			"function": "Receive",
			"reason":   "backend declined",
			"format":   deliver.Format.String(),
		})
	}

	dar := deliver.DisplayAspectRatio()
	r.mu.Lock()
	r.framesReceived++
	ratioChanged := dar != r.sourceRatio
	r.frameSize = deliver.Size()
	r.sourceRatio = dar
	sig := r.recomputeLocked()
	if ratioChanged {
		sig.sourceRatio = &dar
	}
	sig.update = true
	r.mu.Unlock()
	sig.fire()

	return true
}

// dropFrame records a dropped frame and logs why. Always returns false.
func (r *Renderer) dropFrame(fields logrus.Fields) bool {
	r.mu.Lock()
	r.framesDropped++
	dropped := r.framesDropped
	r.mu.Unlock()

	fields["dropped_total"] = dropped
	logrus.WithFields(fields).Debug("Frame dropped")
	return false
}
