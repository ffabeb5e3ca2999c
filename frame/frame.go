// Package frame defines the video frame container handed to presentation
// backends.
//
// A Frame couples pixel data with the metadata a renderer needs to place it:
// pixel format, dimensions, per-plane strides, and the pixel aspect ratio
// used to derive the display aspect ratio. Frames are plain data; the
// package performs no color-space conversion beyond packed byte reordering
// (see Converter).
package frame

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Dimension bounds accepted by Validate. The ceiling matches what common
// codecs can emit and guards stride arithmetic against overflow.
const (
	MinDimension = 1
	MaxDimension = 16383
)

// Sentinel errors returned by Validate and the converters. They are wrapped
// with detail, so test with errors.Is.
var (
	ErrUnknownFormat         = errors.New("unknown pixel format")
	ErrInvalidDimensions     = errors.New("invalid frame dimensions")
	ErrPlaneCount            = errors.New("wrong plane count")
	ErrPlaneTooSmall         = errors.New("plane buffer too small")
	ErrConversionUnsupported = errors.New("conversion unsupported")
)

// Frame is a single video picture.
//
// Data holds one byte slice per plane and Stride the matching bytes-per-row.
// PixelAspectRatio describes non-square pixels; zero means square. Timestamp
// is the presentation time relative to stream start and is carried through
// untouched.
type Frame struct {
	Format           PixelFormat
	Width            int
	Height           int
	Data             [][]byte
	Stride           []int
	PixelAspectRatio float64
	Timestamp        time.Duration
}

// New allocates a frame with tightly packed planes for the given format and
// size. It returns an error if the format is unknown or the dimensions are
// out of range.
func New(format PixelFormat, width, height int) (*Frame, error) {
	f := &Frame{Format: format, Width: width, Height: height}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	if err := f.validateDimensions(); err != nil {
		return nil, err
	}

	planes := format.PlaneCount()
	f.Data = make([][]byte, planes)
	f.Stride = make([]int, planes)
	for i := 0; i < planes; i++ {
		stride := format.rowBytes(i, width)
		dims := format.PlaneDimensions(i, width, height)
		f.Stride[i] = stride
		f.Data[i] = make([]byte, stride*dims.Y)
	}
	return f, nil
}

// FromRGBA wraps a stdlib RGBA image as a frame without copying pixels.
// Sub-images are respected: the frame covers exactly img.Bounds().
func FromRGBA(img *image.RGBA) *Frame {
	b := img.Bounds()
	return &Frame{
		Format: FormatRGBA32,
		Width:  b.Dx(),
		Height: b.Dy(),
		Data:   [][]byte{img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]},
		Stride: []int{img.Stride},
	}
}

// Size returns the frame dimensions as a point.
func (f *Frame) Size() image.Point {
	return image.Pt(f.Width, f.Height)
}

func (f *Frame) validateDimensions() error {
	if f.Width < MinDimension || f.Height < MinDimension ||
		f.Width > MaxDimension || f.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, f.Width, f.Height)
	}
	return nil
}

// Validate checks that the frame is well-formed: recognized format, sane
// dimensions, the right number of planes, and per-plane buffers large
// enough for the declared strides.
func (f *Frame) Validate() error {
	if !f.Format.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f.Format))
	}
	if err := f.validateDimensions(); err != nil {
		return err
	}

	planes := f.Format.PlaneCount()
	if len(f.Data) != planes || len(f.Stride) != planes {
		return fmt.Errorf("%w: got %d data / %d stride, expected %d",
			ErrPlaneCount, len(f.Data), len(f.Stride), planes)
	}

	for i := 0; i < planes; i++ {
		row := f.Format.rowBytes(i, f.Width)
		stride := f.Stride[i]
		if stride < row {
			return fmt.Errorf("%w: plane %d stride %d below row size %d",
				ErrPlaneTooSmall, i, stride, row)
		}
		dims := f.Format.PlaneDimensions(i, f.Width, f.Height)
		need := stride*(dims.Y-1) + row
		if len(f.Data[i]) < need {
			return fmt.Errorf("%w: plane %d has %d bytes, expected %d",
				ErrPlaneTooSmall, i, len(f.Data[i]), need)
		}
	}
	return nil
}

// DisplayAspectRatio returns the width/height ratio the frame should be
// shown at, folding in the pixel aspect ratio. A non-positive pixel aspect
// ratio counts as square. Returns zero for degenerate dimensions.
func (f *Frame) DisplayAspectRatio() float64 {
	if f.Width <= 0 || f.Height <= 0 {
		return 0
	}
	par := f.PixelAspectRatio
	if par <= 0 {
		par = 1
	}
	return float64(f.Width) / float64(f.Height) * par
}

// Clone returns a deep copy of the frame. Plane buffers are copied at their
// declared length.
func (f *Frame) Clone() *Frame {
	dup := &Frame{
		Format:           f.Format,
		Width:            f.Width,
		Height:           f.Height,
		PixelAspectRatio: f.PixelAspectRatio,
		Timestamp:        f.Timestamp,
		Data:             make([][]byte, len(f.Data)),
		Stride:           append([]int(nil), f.Stride...),
	}
	for i, plane := range f.Data {
		dup.Data[i] = append([]byte(nil), plane...)
	}
	return dup
}

// ToRGBA renders a packed-format frame into a stdlib RGBA image. Planar
// formats return ErrConversionUnsupported; converting those needs a
// full Converter implementation.
func (f *Frame) ToRGBA() (*image.RGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Format.Planar() {
		return nil, fmt.Errorf("%w: %s to rgba32", ErrConversionUnsupported, f.Format)
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	src := f.Data[0]
	stride := f.Stride[0]
	for y := 0; y < f.Height; y++ {
		srcRow := src[y*stride:]
		dstRow := img.Pix[y*img.Stride:]
		for x := 0; x < f.Width; x++ {
			d := x * 4
			switch f.Format {
			case FormatRGBA32:
				s := x * 4
				dstRow[d+0] = srcRow[s+0]
				dstRow[d+1] = srcRow[s+1]
				dstRow[d+2] = srcRow[s+2]
				dstRow[d+3] = srcRow[s+3]
			case FormatBGRA32:
				s := x * 4
				dstRow[d+0] = srcRow[s+2]
				dstRow[d+1] = srcRow[s+1]
				dstRow[d+2] = srcRow[s+0]
				dstRow[d+3] = srcRow[s+3]
			case FormatRGB24:
				s := x * 3
				dstRow[d+0] = srcRow[s+0]
				dstRow[d+1] = srcRow[s+1]
				dstRow[d+2] = srcRow[s+2]
				dstRow[d+3] = 0xFF
			case FormatGray8:
				v := srcRow[x]
				dstRow[d+0] = v
				dstRow[d+1] = v
				dstRow[d+2] = v
				dstRow[d+3] = 0xFF
			}
		}
	}
	return img, nil
}
