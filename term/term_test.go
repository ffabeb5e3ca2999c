package term

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

func rgbFrame(t *testing.T, w, h int, pick func(x, y int) (r, g, b uint8)) *frame.Frame {
	t.Helper()
	f, err := frame.New(frame.FormatRGB24, w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := pick(x, y)
			off := y*f.Stride[0] + x*3
			f.Data[0][off+0] = r
			f.Data[0][off+1] = g
			f.Data[0][off+2] = b
		}
	}
	return f
}

func solid(r, g, b uint8) func(int, int) (uint8, uint8, uint8) {
	return func(int, int) (uint8, uint8, uint8) { return r, g, b }
}

func TestNewFallbackDimensions(t *testing.T) {
	b := New(&bytes.Buffer{}, 0, -3)
	cols, rows := b.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)
}

func TestAttachReportsVirtualGrid(t *testing.T) {
	b := New(&bytes.Buffer{}, 10, 5)
	r, err := avrender.New(b, nil)
	require.NoError(t, err)

	// Half blocks pack two pixel rows per cell row.
	assert.Equal(t, image.Pt(10, 10), r.RendererSize())
}

func TestIsSupported(t *testing.T) {
	b := New(&bytes.Buffer{}, 4, 2)
	assert.True(t, b.IsSupported(frame.FormatRGB24))
	assert.True(t, b.IsSupported(frame.FormatRGBA32))
	assert.False(t, b.IsSupported(frame.FormatBGRA32))
	assert.False(t, b.IsSupported(frame.FormatGray8))
	assert.False(t, b.IsSupported(frame.FormatYUV420P))
}

func TestReceiveFrameRejectsUnsupported(t *testing.T) {
	b := New(&bytes.Buffer{}, 4, 2)
	f, err := frame.New(frame.FormatYUV420P, 4, 4)
	require.NoError(t, err)
	assert.False(t, b.ReceiveFrame(f))
}

func TestDrawSolidGrid(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 4, 2)
	r, err := avrender.New(b, nil)
	require.NoError(t, err)

	require.True(t, r.Receive(rgbFrame(t, 4, 4, solid(255, 0, 0))))
	require.Equal(t, image.Rect(0, 0, 4, 4), r.VideoRect())
	b.DrawFrame()

	out := buf.String()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2, "one line per cell row, no trailing newline")
	assert.Equal(t, 8, strings.Count(out, halfBlock))
	// Runs of identical color collapse to one escape per row.
	assert.Equal(t, 2, strings.Count(out, "\x1b[38;2;255;0;0m"))
	assert.Equal(t, 2, strings.Count(out, "\x1b[48;2;255;0;0m"))
	assert.True(t, strings.HasSuffix(out, ansiReset))
	assert.False(t, strings.HasPrefix(out, ansiHome))
}

func TestDrawLetterboxBars(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 4, 4) // virtual surface 4x8

	r, err := avrender.New(b, nil)
	require.NoError(t, err)

	// Square content on a tall surface centers into virtual rows 2..5.
	require.True(t, r.Receive(rgbFrame(t, 4, 4, solid(255, 0, 0))))
	require.Equal(t, image.Rect(0, 2, 4, 6), r.VideoRect())
	b.DrawFrame()

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.NotContains(t, lines[0], "38;2;255;0;0", "top bar stays black")
	assert.Contains(t, lines[0], "38;2;0;0;0")
	assert.Contains(t, lines[1], "38;2;255;0;0")
	assert.Contains(t, lines[2], "48;2;255;0;0")
	assert.NotContains(t, lines[3], "255;0;0", "bottom bar stays black")
}

func TestDrawSamplesROI(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 2, 1)

	r, err := avrender.New(b, nil)
	require.NoError(t, err)

	// Left column red, right column blue; confine the view to the right.
	f := rgbFrame(t, 2, 2, func(x, _ int) (uint8, uint8, uint8) {
		if x == 0 {
			return 255, 0, 0
		}
		return 0, 0, 255
	})
	require.True(t, r.Receive(f))
	require.True(t, r.SetRegionOfInterest(geometry.FromNormalized(0.5, 0, 0.5, 1)))
	b.DrawFrame()

	out := buf.String()
	assert.Contains(t, out, "38;2;0;0;255")
	assert.NotContains(t, out, "255;0;0")
}

func TestDrawHonorsSeededOrientation(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 2, 1) // virtual surface 2x2

	opts := avrender.NewOptions()
	opts.Orientation = 90
	r, err := avrender.New(b, opts)
	require.NoError(t, err)

	// A red|blue strip turned a quarter clockwise shows red above blue in
	// the left column; the right column stays background.
	f := rgbFrame(t, 2, 1, func(x, _ int) (uint8, uint8, uint8) {
		if x == 0 {
			return 255, 0, 0
		}
		return 0, 0, 255
	})
	require.True(t, r.Receive(f))
	require.Equal(t, image.Rect(0, 0, 1, 2), r.VideoRect())
	b.DrawFrame()

	out := buf.String()
	assert.Contains(t, out, "\x1b[38;2;255;0;0m")
	assert.Contains(t, out, "\x1b[48;2;0;0;255m")
}

func TestCursorHome(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 2, 1)
	b.SetCursorHome(true)

	r, err := avrender.New(b, nil)
	require.NoError(t, err)
	require.True(t, r.Receive(rgbFrame(t, 2, 2, solid(0, 255, 0))))
	b.DrawFrame()

	assert.True(t, strings.HasPrefix(buf.String(), ansiHome))
}

func TestDrawWithoutFrameWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 2, 2)
	r, err := avrender.New(b, nil)
	require.NoError(t, err)
	_ = r

	b.DrawFrame()
	assert.Zero(t, buf.Len())
}

func TestMutationHooksDecline(t *testing.T) {
	b := New(&bytes.Buffer{}, 4, 2)
	r, err := avrender.New(b, nil)
	require.NoError(t, err)

	assert.False(t, r.SetOrientation(90))
	assert.False(t, r.SetBrightness(0.5))
	assert.Zero(t, r.Orientation())
	assert.Zero(t, r.Brightness())
}

func TestCounterRotate(t *testing.T) {
	rect := image.Rect(0, 0, 1, 2)

	tests := []struct {
		name    string
		degrees int
		in      geometry.PointF
		want    geometry.PointF
	}{
		{"identity", 0, geometry.PointF{X: 0.5, Y: 0.5}, geometry.PointF{X: 0.5, Y: 0.5}},
		{"quarter turn", 90, geometry.PointF{X: 0.5, Y: 0.5}, geometry.PointF{X: 0.25, Y: 1.0}},
		{"half turn", 180, geometry.PointF{X: 0.5, Y: 0.5}, geometry.PointF{X: 0.5, Y: 1.5}},
		{"three quarters", 270, geometry.PointF{X: 0.5, Y: 1.5}, geometry.PointF{X: 0.25, Y: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := counterRotate(tt.in, rect, tt.degrees)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}
