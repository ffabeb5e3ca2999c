package avrender

import (
	"sync"

	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// MockBackend implements the minimal Backend contract for testing. It
// records every call, keeps the frames it was handed, and lets tests
// customize format support and the receive behavior. It implements none of
// the optional hooks, which makes it the vehicle for exercising default
// hook behavior; MockHookBackend adds the full hook surface.
type MockBackend struct {
	calls       []string
	frames      []*frame.Frame
	supported   map[frame.PixelFormat]bool
	receiveFunc func(f *frame.Frame) bool
	drawCount   int
	mu          sync.Mutex
}

// NewMockBackend creates a mock backend supporting the given formats.
func NewMockBackend(formats ...frame.PixelFormat) *MockBackend {
	supported := make(map[frame.PixelFormat]bool)
	for _, f := range formats {
		supported[f] = true
	}
	return &MockBackend{
		calls:       make([]string, 0),
		frames:      make([]*frame.Frame, 0),
		supported:   supported,
		receiveFunc: func(*frame.Frame) bool { return true },
	}
}

func (m *MockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// IsSupported implements Backend.IsSupported.
func (m *MockBackend) IsSupported(f frame.PixelFormat) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supported[f]
}

// ReceiveFrame implements Backend.ReceiveFrame.
func (m *MockBackend) ReceiveFrame(f *frame.Frame) bool {
	m.mu.Lock()
	m.calls = append(m.calls, "ReceiveFrame")
	m.frames = append(m.frames, f)
	fn := m.receiveFunc
	m.mu.Unlock()
	return fn(f)
}

// DrawFrame implements Backend.DrawFrame.
func (m *MockBackend) DrawFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "DrawFrame")
	m.drawCount++
}

// SetSupported changes format support at runtime.
func (m *MockBackend) SetSupported(f frame.PixelFormat, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supported[f] = ok
}

// SetReceiveFunc customizes what ReceiveFrame returns.
func (m *MockBackend) SetReceiveFunc(fn func(f *frame.Frame) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiveFunc = fn
}

// Calls returns a copy of the recorded call names in order.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Frames returns a copy of the frames handed to ReceiveFrame.
func (m *MockBackend) Frames() []*frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*frame.Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

// DrawCount returns how many times DrawFrame ran.
func (m *MockBackend) DrawCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drawCount
}

// MockHookBackend is a MockBackend that also implements every optional
// hook. Each hook records its invocation and answers true unless a result
// was overridden with SetHookResult.
type MockHookBackend struct {
	MockBackend
	results  map[string]bool
	attached *Renderer
}

// NewMockHookBackend creates a hook-complete mock backend supporting the
// given formats.
func NewMockHookBackend(formats ...frame.PixelFormat) *MockHookBackend {
	return &MockHookBackend{
		MockBackend: *NewMockBackend(formats...),
		results:     make(map[string]bool),
	}
}

// SetHookResult overrides the answer of the named hook, e.g.
// "TrySetOrientation".
func (m *MockHookBackend) SetHookResult(name string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[name] = ok
}

func (m *MockHookBackend) hook(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if ok, overridden := m.results[name]; overridden {
		return ok
	}
	return true
}

// Attach implements Attacher.
func (m *MockHookBackend) Attach(r *Renderer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Attach")
	m.attached = r
}

// Attached returns the Renderer passed to Attach, if any.
func (m *MockHookBackend) Attached() *Renderer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attached
}

// TrySetOrientation implements OrientationHook.
func (m *MockHookBackend) TrySetOrientation(int) bool { return m.hook("TrySetOrientation") }

// TrySetBrightness implements part of ColorHook.
func (m *MockHookBackend) TrySetBrightness(float64) bool { return m.hook("TrySetBrightness") }

// TrySetContrast implements part of ColorHook.
func (m *MockHookBackend) TrySetContrast(float64) bool { return m.hook("TrySetContrast") }

// TrySetHue implements part of ColorHook.
func (m *MockHookBackend) TrySetHue(float64) bool { return m.hook("TrySetHue") }

// TrySetSaturation implements part of ColorHook.
func (m *MockHookBackend) TrySetSaturation(float64) bool { return m.hook("TrySetSaturation") }

// TrySetAspectRatioMode implements part of AspectHook.
func (m *MockHookBackend) TrySetAspectRatioMode(geometry.AspectMode) bool {
	return m.hook("TrySetAspectRatioMode")
}

// TrySetAspectRatio implements part of AspectHook.
func (m *MockHookBackend) TrySetAspectRatio(float64) bool { return m.hook("TrySetAspectRatio") }

// TrySetRegionOfInterest implements ROIHook.
func (m *MockHookBackend) TrySetRegionOfInterest(geometry.ROI) bool {
	return m.hook("TrySetRegionOfInterest")
}

// TrySetQuality implements QualityHook.
func (m *MockHookBackend) TrySetQuality(Quality) bool { return m.hook("TrySetQuality") }

// TrySetPreferredPixelFormat implements part of FormatHook.
func (m *MockHookBackend) TrySetPreferredPixelFormat(frame.PixelFormat) bool {
	return m.hook("TrySetPreferredPixelFormat")
}

// TryForcePreferredPixelFormat implements part of FormatHook.
func (m *MockHookBackend) TryForcePreferredPixelFormat(bool) bool {
	return m.hook("TryForcePreferredPixelFormat")
}

// TryResize implements ResizeHook.
func (m *MockHookBackend) TryResize(int, int) bool { return m.hook("TryResize") }
