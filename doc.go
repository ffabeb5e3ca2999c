// Package avrender presents decoded video frames through pluggable
// rendering backends.
//
// The package owns the presentation state a video sink needs regardless of
// how pixels reach the screen: aspect-ratio policy, the derived on-surface
// video rectangle, a region of interest into the source frame, orientation,
// scaling quality, color adjustments, and pixel-format negotiation. Backends
// supply the actual drawing; the Renderer decides where and what.
//
// # Getting Started
//
// Create a backend, hand it to New, then push frames from your decoder:
//
//	backend := soft.New(800, 600)
//	r, err := avrender.New(backend, avrender.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r.OnVideoRectChanged(func(rect image.Rectangle) {
//	    fmt.Println("content now occupies", rect)
//	})
//
//	for f := range decoded {
//	    if !r.Receive(f) {
//	        // frame dropped; geometry unchanged
//	    }
//	    r.HandlePaint()
//	}
//
// # State Mutators
//
// Every setter returns a bool: true means the value was committed, false
// means it was rejected (invalid input, or the backend declined). Backends
// participate through small optional hook interfaces; a mutator whose hook
// the backend does not implement either commits directly (aspect mode,
// aspect ratio, resize, quality, region of interest, pixel-format
// preferences) or declines (orientation, brightness, contrast, hue, and
// saturation are capabilities a backend must opt into).
//
//	if !r.SetOrientation(90) {
//	    // backend cannot rotate
//	}
//
// # Threading
//
// Receive is safe to call from a producer goroutine while another goroutine
// mutates state and a third paints. Getters take a read lock; Snapshot
// returns a consistent copy of the full geometry for draw-time use. Hooks
// and registered callbacks run without the state lock held, so they may call
// back into the Renderer.
//
// # Known Limitations
//
// The package performs no color-space conversion. When format negotiation
// picks a format other than a frame's native one, an installed
// frame.Converter does the work; the stock frame.PackedConverter only
// reorders packed RGB bytes. Orientation is limited to quarter turns.
package avrender
