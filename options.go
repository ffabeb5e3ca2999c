package avrender

import (
	"fmt"

	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// Options contains the initial presentation state for a Renderer. Zero or
// missing fields fall back to the NewOptions defaults during New.
type Options struct {
	// AspectMode selects how content is fitted to the surface.
	AspectMode geometry.AspectMode
	// CustomAspectRatio is the width/height ratio used when AspectMode is
	// CustomAspectRatio. Ignored otherwise; must be positive when used.
	CustomAspectRatio float64
	// Orientation is the initial content rotation in degrees. Must be a
	// multiple of 90. Unlike SetOrientation this does not consult the
	// backend: it is initial state, not a mutation.
	Orientation int
	// Quality is the initial scaling quality.
	Quality Quality
	// RegionOfInterest selects the initial source sub-rectangle. The zero
	// value shows the whole frame.
	RegionOfInterest geometry.ROI
	// Brightness, Contrast, Hue and Saturation are initial color
	// adjustments in [-1, 1], 0 meaning unchanged.
	Brightness float64
	Contrast   float64
	Hue        float64
	Saturation float64
	// PreferredFormat is the pixel format requested from producers during
	// negotiation. FormatUnknown disables the preference.
	PreferredFormat frame.PixelFormat
	// ForcePreferredFormat makes negotiation pick PreferredFormat whenever
	// the backend supports it, even for frames arriving in a different
	// supported format.
	ForcePreferredFormat bool
	// Converter transforms frames when negotiation picks a format other
	// than the native one. Nil means such frames are dropped.
	Converter frame.Converter
}

// NewOptions returns the default presentation options: video aspect mode,
// no rotation, default quality, whole-frame region of interest, neutral
// color, and no format preference.
func NewOptions() *Options {
	return &Options{
		AspectMode:      geometry.VideoAspectRatio,
		Quality:         QualityDefault,
		PreferredFormat: frame.FormatUnknown,
	}
}

// validate reports the first invalid field, using the same rules the
// corresponding setters apply.
func (o *Options) validate() error {
	if !o.AspectMode.Valid() {
		return fmt.Errorf("%w: aspect mode %d", ErrBadOption, int(o.AspectMode))
	}
	if o.AspectMode == geometry.CustomAspectRatio && o.CustomAspectRatio <= 0 {
		return fmt.Errorf("%w: custom aspect ratio %v", ErrBadOption, o.CustomAspectRatio)
	}
	if o.CustomAspectRatio < 0 {
		return fmt.Errorf("%w: custom aspect ratio %v", ErrBadOption, o.CustomAspectRatio)
	}
	if !geometry.ValidOrientation(o.Orientation) {
		return fmt.Errorf("%w: orientation %d", ErrBadOption, o.Orientation)
	}
	if !o.Quality.Valid() {
		return fmt.Errorf("%w: quality %d", ErrBadOption, int(o.Quality))
	}
	for _, a := range []struct {
		name  string
		value float64
	}{
		{"brightness", o.Brightness},
		{"contrast", o.Contrast},
		{"hue", o.Hue},
		{"saturation", o.Saturation},
	} {
		if a.value < -1 || a.value > 1 {
			return fmt.Errorf("%w: %s %v out of [-1,1]", ErrBadOption, a.name, a.value)
		}
	}
	if o.PreferredFormat != frame.FormatUnknown && !o.PreferredFormat.Valid() {
		return fmt.Errorf("%w: pixel format %d", ErrBadOption, int(o.PreferredFormat))
	}
	return nil
}
