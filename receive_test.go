package avrender

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/avrender/frame"
)

func TestNegotiateFormat(t *testing.T) {
	supports := func(formats ...frame.PixelFormat) func(frame.PixelFormat) bool {
		set := make(map[frame.PixelFormat]bool)
		for _, f := range formats {
			set[f] = true
		}
		return func(f frame.PixelFormat) bool { return set[f] }
	}

	tests := []struct {
		name      string
		native    frame.PixelFormat
		preferred frame.PixelFormat
		force     bool
		supported func(frame.PixelFormat) bool
		want      frame.PixelFormat
	}{
		{
			name:      "supported native wins without force",
			native:    frame.FormatYUV420P,
			preferred: frame.FormatRGBA32,
			supported: supports(frame.FormatYUV420P, frame.FormatRGBA32),
			want:      frame.FormatYUV420P,
		},
		{
			name:      "force overrides supported native",
			native:    frame.FormatYUV420P,
			preferred: frame.FormatRGBA32,
			force:     true,
			supported: supports(frame.FormatYUV420P, frame.FormatRGBA32),
			want:      frame.FormatRGBA32,
		},
		{
			name:      "unsupported native falls back to preferred",
			native:    frame.FormatNV12,
			preferred: frame.FormatRGBA32,
			supported: supports(frame.FormatRGBA32),
			want:      frame.FormatRGBA32,
		},
		{
			name:      "force with unsupported preferred keeps native",
			native:    frame.FormatYUV420P,
			preferred: frame.FormatRGB24,
			force:     true,
			supported: supports(frame.FormatYUV420P),
			want:      frame.FormatYUV420P,
		},
		{
			name:      "nothing supported returns native for backend rejection",
			native:    frame.FormatNV12,
			preferred: frame.FormatRGBA32,
			supported: supports(),
			want:      frame.FormatNV12,
		},
		{
			name:      "no preference keeps native",
			native:    frame.FormatRGB24,
			preferred: frame.FormatUnknown,
			force:     true,
			supported: supports(frame.FormatRGB24),
			want:      frame.FormatRGB24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := negotiateFormat(tt.native, tt.preferred, tt.force, tt.supported)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReceiveRejectsBadInput(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32)
	r, err := New(b, nil)
	require.NoError(t, err)

	assert.False(t, r.Receive(nil))

	broken := testFrame(t, frame.FormatRGBA32, 8, 8)
	broken.Data[0] = broken.Data[0][:3]
	assert.False(t, r.Receive(broken))

	assert.Empty(t, b.Frames(), "bad input must not reach the backend")
	assert.Equal(t, image.Point{}, r.FrameSize())
}

func TestReceiveCommitsGeometry(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32)
	r, err := New(b, nil)
	require.NoError(t, err)
	require.True(t, r.Resize(800, 600))

	f := testFrame(t, frame.FormatRGBA32, 1920, 1080)
	require.True(t, r.Receive(f))

	require.Len(t, b.Frames(), 1)
	assert.Same(t, f, b.Frames()[0], "supported native frames pass through unconverted")
	assert.Equal(t, image.Pt(1920, 1080), r.FrameSize())
	assert.Equal(t, image.Rect(0, 75, 800, 525), r.VideoRect())
}

func TestReceiveBackendDeclineLeavesGeometry(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32)
	r, err := New(b, nil)
	require.NoError(t, err)
	require.True(t, r.Resize(800, 600))
	require.True(t, r.Receive(testFrame(t, frame.FormatRGBA32, 1920, 1080)))
	wantRect := r.VideoRect()

	b.SetReceiveFunc(func(*frame.Frame) bool { return false })
	assert.False(t, r.Receive(testFrame(t, frame.FormatRGBA32, 640, 480)))

	assert.Equal(t, image.Pt(1920, 1080), r.FrameSize(), "dropped frame must not commit size")
	assert.Equal(t, wantRect, r.VideoRect())
	_, dropped := r.Stats()
	assert.EqualValues(t, 1, dropped)
}

func TestReceiveConvertsWhenNegotiated(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32)
	opts := NewOptions()
	opts.PreferredFormat = frame.FormatRGBA32
	opts.Converter = frame.NewPackedConverter()
	r, err := New(b, opts)
	require.NoError(t, err)

	src := testFrame(t, frame.FormatBGRA32, 2, 2)
	require.True(t, r.Receive(src))

	require.Len(t, b.Frames(), 1)
	assert.Equal(t, frame.FormatRGBA32, b.Frames()[0].Format)
	assert.NotSame(t, src, b.Frames()[0])
}

func TestReceiveWithoutConverterDropsForeignFormats(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32)
	r, err := New(b, nil)
	require.NoError(t, err)

	assert.False(t, r.Receive(testFrame(t, frame.FormatBGRA32, 2, 2)))
	assert.Empty(t, b.Frames())
	_, dropped := r.Stats()
	assert.EqualValues(t, 1, dropped)
}

func TestReceiveNoPreferenceDropsForeignFormats(t *testing.T) {
	// A converter alone does not rescue an unsupported native format: the
	// conversion target comes from negotiation, which needs a preference.
	b := NewMockBackend(frame.FormatRGBA32)
	opts := NewOptions()
	opts.Converter = frame.NewPackedConverter()
	r, err := New(b, opts)
	require.NoError(t, err)

	assert.False(t, r.Receive(testFrame(t, frame.FormatBGRA32, 2, 2)))
	assert.Empty(t, b.Frames())
}

func TestReceiveConversionFailureDrops(t *testing.T) {
	// YUV source with an RGBA-only backend: negotiation picks rgba32 but the
	// packed converter cannot produce it from planar input.
	b := NewMockBackend(frame.FormatRGBA32)
	opts := NewOptions()
	opts.PreferredFormat = frame.FormatRGBA32
	opts.Converter = frame.NewPackedConverter()
	r, err := New(b, opts)
	require.NoError(t, err)

	assert.False(t, r.Receive(testFrame(t, frame.FormatYUV420P, 4, 4)))
	assert.Empty(t, b.Frames())
}

func TestReceiveForcedPreferredFormat(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32, frame.FormatBGRA32)
	opts := NewOptions()
	opts.PreferredFormat = frame.FormatRGBA32
	opts.ForcePreferredFormat = true
	opts.Converter = frame.NewPackedConverter()
	r, err := New(b, opts)
	require.NoError(t, err)

	// Native bgra32 is supported, but force redirects it to rgba32.
	require.True(t, r.Receive(testFrame(t, frame.FormatBGRA32, 2, 2)))
	require.Len(t, b.Frames(), 1)
	assert.Equal(t, frame.FormatRGBA32, b.Frames()[0].Format)
}

func TestReceiveAnamorphicRatio(t *testing.T) {
	r, err := New(NewMockBackend(frame.FormatRGBA32), nil)
	require.NoError(t, err)

	f := testFrame(t, frame.FormatRGBA32, 720, 576)
	f.PixelAspectRatio = 64.0 / 45.0
	require.True(t, r.Receive(f))
	assert.InDelta(t, 16.0/9.0, r.SourceAspectRatio(), 1e-9)
}

func TestNegotiatePixelFormatMethod(t *testing.T) {
	b := NewMockBackend(frame.FormatRGBA32)
	r, err := New(b, nil)
	require.NoError(t, err)

	assert.Equal(t, frame.FormatRGBA32, r.NegotiatePixelFormat(frame.FormatRGBA32))
	assert.Equal(t, frame.FormatNV12, r.NegotiatePixelFormat(frame.FormatNV12),
		"unsupported native with no preference stays native")

	require.True(t, r.SetPreferredPixelFormat(frame.FormatRGBA32))
	assert.Equal(t, frame.FormatRGBA32, r.NegotiatePixelFormat(frame.FormatNV12))
}
