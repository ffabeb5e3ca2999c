// Package geometry implements the placement math for video presentation.
//
// This package provides the pure computational core used by the avrender
// renderer: aspect-ratio resolution, region-of-interest (ROI) handling, and
// bidirectional point mapping between renderer-surface coordinates and frame
// coordinates. All functions are deterministic and allocation-free; none of
// them touch renderer state, which makes them directly testable.
//
// # Aspect Resolution
//
// ResolveAspect computes the sub-rectangle of a presentation surface that
// frame content should occupy (the "video rectangle") for a given aspect
// mode:
//
//	ratio, rect := geometry.ResolveAspect(
//	    image.Pt(800, 600),          // renderer surface size
//	    16.0/9.0,                    // source display aspect ratio
//	    geometry.VideoAspectRatio,   // mode
//	    0,                           // custom ratio (unused here)
//	    0,                           // orientation in degrees
//	)
//	// rect == (0,75)-(800,525): centered, letterboxed
//
// Orientations of 90 or 270 degrees rotate the content, which swaps the
// effective aspect ratio before fitting.
//
// # Regions of Interest
//
// A ROI selects the sub-rectangle of the source frame to display. Components
// follow a magnitude convention: a component with absolute value strictly
// below 1 is a fraction of the source dimension, anything else is a pixel
// count. Zero width or height means "the remainder of the frame":
//
//	roi := geometry.ROI{X: 20, Y: 30}
//	roi.Resolve(image.Pt(640, 480)) // (20,30)-(640,480)
//
// The magnitude convention is ambiguous at exactly 1.0, so the explicit
// constructors FromNormalized and FromAbsolute are preferred for new code.
//
// # Point Mapping
//
// Mapper converts points between renderer space and frame space using the
// resolved video rectangle and ROI. Mapping does not clamp: points outside
// the video rectangle map outside the ROI, which lets callers detect
// out-of-bounds interaction.
package geometry
