package avrender

import "image"

// SourceAspectRatioCallback observes changes of the source display aspect
// ratio, which tracks the frames flowing through Receive.
type SourceAspectRatioCallback func(ratio float64)

// VideoRectCallback observes changes of the on-surface video rectangle.
type VideoRectCallback func(rect image.Rectangle)

// OrientationCallback observes committed orientation changes, in degrees.
type OrientationCallback func(degrees int)

// UpdateRequestedCallback asks the host to schedule a repaint. It is invoked
// after every committed mutation and every accepted frame, and must not
// block: delivery to an event loop is the host's job.
type UpdateRequestedCallback func()

// OnSourceAspectRatioChanged registers the source-aspect-ratio observer.
// Passing nil removes it.
func (r *Renderer) OnSourceAspectRatioChanged(cb SourceAspectRatioCallback) {
	r.mu.Lock()
	r.sourceRatioCallback = cb
	r.mu.Unlock()
}

// OnVideoRectChanged registers the video-rectangle observer. Passing nil
// removes it.
func (r *Renderer) OnVideoRectChanged(cb VideoRectCallback) {
	r.mu.Lock()
	r.videoRectCallback = cb
	r.mu.Unlock()
}

// OnOrientationChanged registers the orientation observer. Passing nil
// removes it.
func (r *Renderer) OnOrientationChanged(cb OrientationCallback) {
	r.mu.Lock()
	r.orientationCallback = cb
	r.mu.Unlock()
}

// OnUpdateRequested registers the repaint scheduler. Passing nil removes it.
func (r *Renderer) OnUpdateRequested(cb UpdateRequestedCallback) {
	r.mu.Lock()
	r.updateCallback = cb
	r.mu.Unlock()
}

// signals collects the observer invocations a mutation produced while the
// lock was held, so they can run outside it.
type signals struct {
	sourceRatio   *float64
	videoRect     *image.Rectangle
	orientation   *int
	update        bool
	sourceRatioCB SourceAspectRatioCallback
	videoRectCB   VideoRectCallback
	orientationCB OrientationCallback
	updateCB      UpdateRequestedCallback
}

// fire delivers the collected signals. Runs without the state lock.
func (s *signals) fire() {
	if s.sourceRatio != nil && s.sourceRatioCB != nil {
		s.sourceRatioCB(*s.sourceRatio)
	}
	if s.videoRect != nil && s.videoRectCB != nil {
		s.videoRectCB(*s.videoRect)
	}
	if s.orientation != nil && s.orientationCB != nil {
		s.orientationCB(*s.orientation)
	}
	if s.update && s.updateCB != nil {
		s.updateCB()
	}
}
