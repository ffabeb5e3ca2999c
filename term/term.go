// Package term renders video frames as ANSI half-block art for terminal
// preview.
//
// Each terminal cell shows two vertically stacked pixels using the upper
// half block rune with 24-bit foreground and background colors, so a grid
// of cols x rows cells presents a virtual surface of cols x rows*2 pixels.
// Aspect modes, custom ratios and regions of interest all work exactly as
// on the graphical backends because the cell sampler reads the committed
// video rectangle through a geometry.Mapper.
//
// # Usage
//
//	backend, err := term.NewAuto()
//	if err != nil {
//		log.Fatal(err)
//	}
//	r, err := avrender.New(backend, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for f := range frames {
//		if r.Receive(f) {
//			r.HandlePaint()
//		}
//	}
//
// # Known Limitations
//
// Only packed RGB frames (rgb24, rgba32) are accepted; pair the renderer
// with a frame.Converter for anything else. The backend offers no optional
// mutation hooks, so orientation and color adjustments decline. Output
// assumes a terminal with 24-bit color support.
package term

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	xterm "golang.org/x/term"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

const (
	halfBlock = "▀"
	ansiReset = "\x1b[0m"
	ansiHome  = "\x1b[H"

	fallbackCols = 80
	fallbackRows = 24
)

// Backend writes half-block cells into an io.Writer.
type Backend struct {
	renderer *avrender.Renderer
	out      io.Writer
	cols     int
	rows     int

	mu     sync.Mutex
	staged *frame.Frame
	home   bool

	sb strings.Builder
}

// New creates a backend emitting a cols x rows cell grid into out.
// Dimensions below 1 fall back to a standard 80x24 grid.
func New(out io.Writer, cols, rows int) *Backend {
	if cols < 1 {
		cols = fallbackCols
	}
	if rows < 1 {
		rows = fallbackRows
	}
	return &Backend{out: out, cols: cols, rows: rows}
}

// NewAuto creates a backend writing to stdout, sized from the controlling
// terminal. The cursor is re-homed before every frame so successive draws
// overwrite each other in place.
func NewAuto() (*Backend, error) {
	fd := int(os.Stdout.Fd())
	cols, rows, err := xterm.GetSize(fd)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewAuto",
			"error":    err,
		}).Error("stdout is not a terminal")
		return nil, fmt.Errorf("term: size detection failed: %w", err)
	}
	b := New(os.Stdout, cols, rows)
	b.home = true
	return b, nil
}

// Attach stores the renderer and reports the virtual pixel surface,
// two pixel rows per cell row.
func (b *Backend) Attach(r *avrender.Renderer) {
	b.renderer = r
	r.Resize(b.cols, b.rows*2)
}

// SetCursorHome controls whether each frame starts by moving the cursor to
// the top-left corner. On for NewAuto, off for New.
func (b *Backend) SetCursorHome(on bool) {
	b.mu.Lock()
	b.home = on
	b.mu.Unlock()
}

// Size returns the cell grid dimensions.
func (b *Backend) Size() (cols, rows int) {
	return b.cols, b.rows
}

// IsSupported reports whether the backend can sample the given format.
func (b *Backend) IsSupported(f frame.PixelFormat) bool {
	return f == frame.FormatRGB24 || f == frame.FormatRGBA32
}

// ReceiveFrame retains the frame for the next draw. The frame is held until
// the following ReceiveFrame, so producers that recycle buffers should pass
// a Clone.
func (b *Backend) ReceiveFrame(f *frame.Frame) bool {
	if !b.IsSupported(f.Format) {
		logrus.WithFields(logrus.Fields{
			"function": "ReceiveFrame",
			"format":   f.Format.String(),
		}).Warn("Unsupported pixel format reached the terminal backend")
		return false
	}
	b.mu.Lock()
	b.staged = f
	b.mu.Unlock()
	return true
}

// DrawFrame samples the staged frame through the committed geometry and
// writes one full cell grid to the output writer.
func (b *Backend) DrawFrame() {
	if b.renderer == nil {
		return
	}
	snap := b.renderer.Snapshot()

	b.mu.Lock()
	staged := b.staged
	home := b.home
	b.mu.Unlock()
	if staged == nil || snap.VideoRect.Empty() {
		return
	}

	mapper := geometry.Mapper{VideoRect: snap.VideoRect, ROI: snap.ROI}

	b.sb.Reset()
	b.sb.Grow(b.cols*b.rows*24 + len(ansiHome))
	if home {
		b.sb.WriteString(ansiHome)
	}

	for row := 0; row < b.rows; row++ {
		var lastFg, lastBg cellColor
		fgSet, bgSet := false, false
		for col := 0; col < b.cols; col++ {
			top := b.samplePoint(staged, snap, mapper, col, row*2)
			bot := b.samplePoint(staged, snap, mapper, col, row*2+1)

			if !fgSet || top != lastFg {
				writeColorSeq(&b.sb, 38, top)
				lastFg = top
				fgSet = true
			}
			if !bgSet || bot != lastBg {
				writeColorSeq(&b.sb, 48, bot)
				lastBg = bot
				bgSet = true
			}
			b.sb.WriteString(halfBlock)
		}
		b.sb.WriteString(ansiReset)
		if row < b.rows-1 {
			b.sb.WriteByte('\n')
		}
	}

	if _, err := io.WriteString(b.out, b.sb.String()); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "DrawFrame",
			"error":    err,
		}).Debug("Terminal write failed")
	}
}

type cellColor struct {
	r, g, b uint8
}

// samplePoint resolves one virtual pixel to a frame sample. Points outside
// the video rectangle are background black.
func (b *Backend) samplePoint(f *frame.Frame, snap avrender.Geometry, mapper geometry.Mapper, x, y int) cellColor {
	if !image.Pt(x, y).In(snap.VideoRect) {
		return cellColor{}
	}

	center := geometry.PointF{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	if snap.Orientation != 0 {
		center = counterRotate(center, snap.VideoRect, snap.Orientation)
	}
	fp := mapper.ToFrame(center)

	fx := clampInt(int(fp.X), 0, f.Width-1)
	fy := clampInt(int(fp.Y), 0, f.Height-1)
	return readPixel(f, fx, fy)
}

// counterRotate maps a display point inside rect back to where the same
// content sits before rotation, so the linear video-rect mapper can sample
// an unrotated frame.
func counterRotate(p geometry.PointF, rect image.Rectangle, degrees int) geometry.PointF {
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	u := (p.X - float64(rect.Min.X)) / w
	v := (p.Y - float64(rect.Min.Y)) / h

	switch geometry.NormalizeOrientation(degrees) {
	case 90:
		u, v = v, 1-u
	case 180:
		u, v = 1-u, 1-v
	case 270:
		u, v = 1-v, u
	}
	return geometry.PointF{
		X: float64(rect.Min.X) + u*w,
		Y: float64(rect.Min.Y) + v*h,
	}
}

func readPixel(f *frame.Frame, x, y int) cellColor {
	switch f.Format {
	case frame.FormatRGB24:
		off := y*f.Stride[0] + x*3
		if off+2 >= len(f.Data[0]) {
			return cellColor{}
		}
		p := f.Data[0]
		return cellColor{r: p[off], g: p[off+1], b: p[off+2]}
	case frame.FormatRGBA32:
		off := y*f.Stride[0] + x*4
		if off+3 >= len(f.Data[0]) {
			return cellColor{}
		}
		p := f.Data[0]
		return cellColor{r: p[off], g: p[off+1], b: p[off+2]}
	default:
		return cellColor{}
	}
}

// writeColorSeq appends a 24-bit SGR color sequence. Plane 38 selects the
// foreground, 48 the background.
func writeColorSeq(sb *strings.Builder, plane int, c cellColor) {
	fmt.Fprintf(sb, "\x1b[%d;2;%d;%d;%dm", plane, c.r, c.g, c.b)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
