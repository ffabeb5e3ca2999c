package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestROIResolve(t *testing.T) {
	tests := []struct {
		name  string
		roi   ROI
		frame image.Point
		want  image.Rectangle
	}{
		{
			name:  "null selects whole frame",
			roi:   ROI{},
			frame: image.Pt(640, 480),
			want:  image.Rect(0, 0, 640, 480),
		},
		{
			name:  "normalized components scale by frame size",
			roi:   ROI{X: 0.1, Y: 0.1, W: 0.5, H: 0.5},
			frame: image.Pt(1000, 500),
			want:  image.Rect(100, 50, 600, 300),
		},
		{
			name:  "zero extent means remainder of frame",
			roi:   ROI{X: 20, Y: 30},
			frame: image.Pt(640, 480),
			want:  image.Rect(20, 30, 640, 480),
		},
		{
			name:  "mixed normalized origin with absolute extent",
			roi:   ROI{X: 0.5, Y: 0.5, W: 100, H: 50},
			frame: image.Pt(640, 480),
			want:  image.Rect(320, 240, 420, 290),
		},
		{
			name:  "oversized extent clamps to frame",
			roi:   ROI{X: 0.5, Y: 0.5, W: 600, H: 600},
			frame: image.Pt(640, 480),
			want:  image.Rect(320, 240, 640, 480),
		},
		{
			name:  "negative origin clamps to frame",
			roi:   FromNormalized(-0.25, 0, 0.5, 0.5),
			frame: image.Pt(640, 480),
			want:  image.Rect(0, 0, 160, 240),
		},
		{
			name:  "auto treats exactly one as a pixel count",
			roi:   ROI{W: 1, H: 1},
			frame: image.Pt(640, 480),
			want:  image.Rect(0, 0, 1, 1),
		},
		{
			name:  "normalized encoding treats one as full extent",
			roi:   FromNormalized(0, 0, 1, 1),
			frame: image.Pt(640, 480),
			want:  image.Rect(0, 0, 640, 480),
		},
		{
			name:  "absolute encoding keeps fractional pixels",
			roi:   FromAbsolute(0, 0, 0.6, 0.6),
			frame: image.Pt(640, 480),
			want:  image.Rect(0, 0, 1, 1),
		},
		{
			name:  "fully outside frame resolves empty",
			roi:   ROI{X: 700, Y: 500, W: 10, H: 10},
			frame: image.Pt(640, 480),
			want:  image.Rectangle{},
		},
		{
			name:  "empty frame resolves empty",
			roi:   ROI{X: 0.1, Y: 0.1, W: 0.5, H: 0.5},
			frame: image.Point{},
			want:  image.Rectangle{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.roi.Resolve(tt.frame)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Resolving the rectangle produced by Resolve must give the same rectangle
// back, so stored descriptors can be round-tripped through pixel space.
func TestROIResolveIdempotent(t *testing.T) {
	frame := image.Pt(1920, 1080)
	descriptors := []ROI{
		{X: 0.1, Y: 0.1, W: 0.5, H: 0.5},
		{X: 20, Y: 30},
		{X: 0.25, Y: 0.25, W: 0.5, H: 0.5},
		{},
	}

	for _, roi := range descriptors {
		first := roi.Resolve(frame)
		again := FromAbsolute(
			float64(first.Min.X), float64(first.Min.Y),
			float64(first.Dx()), float64(first.Dy()),
		).Resolve(frame)
		require.Equal(t, first, again)
	}
}

func TestROINormalized(t *testing.T) {
	tests := []struct {
		name  string
		roi   ROI
		frame image.Point
		want  RectF
	}{
		{
			name:  "null is unit rectangle",
			roi:   ROI{},
			frame: image.Pt(640, 480),
			want:  RectF{X: 0, Y: 0, W: 1, H: 1},
		},
		{
			name:  "absolute descriptor divides by frame size",
			roi:   ROI{X: 20, Y: 30},
			frame: image.Pt(640, 480),
			want:  RectF{X: 0.03125, Y: 0.0625, W: 0.96875, H: 0.9375},
		},
		{
			name:  "already normalized round-trips",
			roi:   FromNormalized(0.25, 0.25, 0.5, 0.5),
			frame: image.Pt(640, 480),
			want:  RectF{X: 0.25, Y: 0.25, W: 0.5, H: 0.5},
		},
		{
			name:  "empty frame defaults to unit rectangle",
			roi:   ROI{X: 20, Y: 30},
			frame: image.Point{},
			want:  RectF{X: 0, Y: 0, W: 1, H: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.roi.Normalized(tt.frame)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.W, got.W, 1e-9)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
		})
	}
}

func TestROIIsNull(t *testing.T) {
	assert.True(t, ROI{}.IsNull())
	assert.True(t, FromNormalized(0, 0, 0, 0).IsNull())
	assert.False(t, ROI{X: 20}.IsNull())
	assert.False(t, ROI{W: 0.5}.IsNull())
}

func TestROIEncodingString(t *testing.T) {
	assert.Equal(t, "auto", EncodingAuto.String())
	assert.Equal(t, "normalized", EncodingNormalized.String())
	assert.Equal(t, "absolute", EncodingAbsolute.String())
	assert.Equal(t, "unknown", ROIEncoding(42).String())
}
