package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedConverter(t *testing.T) {
	conv := NewPackedConverter()

	t.Run("rgba32 to bgra32 swaps red and blue", func(t *testing.T) {
		src, err := New(FormatRGBA32, 2, 1)
		require.NoError(t, err)
		copy(src.Data[0], []byte{1, 2, 3, 4, 5, 6, 7, 8})

		out, err := conv.Convert(src, FormatBGRA32)
		require.NoError(t, err)
		assert.Equal(t, FormatBGRA32, out.Format)
		assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, out.Data[0])
	})

	t.Run("rgb24 to rgba32 gains opaque alpha", func(t *testing.T) {
		src, err := New(FormatRGB24, 1, 1)
		require.NoError(t, err)
		copy(src.Data[0], []byte{9, 8, 7})

		out, err := conv.Convert(src, FormatRGBA32)
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 8, 7, 0xFF}, out.Data[0])
	})

	t.Run("rgba32 to rgb24 drops alpha", func(t *testing.T) {
		src, err := New(FormatRGBA32, 1, 1)
		require.NoError(t, err)
		copy(src.Data[0], []byte{9, 8, 7, 6})

		out, err := conv.Convert(src, FormatRGB24)
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 8, 7}, out.Data[0])
	})

	t.Run("gray8 expands to color", func(t *testing.T) {
		src, err := New(FormatGray8, 1, 1)
		require.NoError(t, err)
		src.Data[0][0] = 0x42

		out, err := conv.Convert(src, FormatBGRA32)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x42, 0x42, 0x42, 0xFF}, out.Data[0])
	})

	t.Run("same format returns source untouched", func(t *testing.T) {
		src, err := New(FormatRGBA32, 2, 2)
		require.NoError(t, err)

		out, err := conv.Convert(src, FormatRGBA32)
		require.NoError(t, err)
		assert.Same(t, src, out)
	})

	t.Run("metadata carries over", func(t *testing.T) {
		src, err := New(FormatRGB24, 1, 1)
		require.NoError(t, err)
		src.PixelAspectRatio = 64.0 / 45.0
		src.Timestamp = 1234

		out, err := conv.Convert(src, FormatBGRA32)
		require.NoError(t, err)
		assert.Equal(t, src.PixelAspectRatio, out.PixelAspectRatio)
		assert.Equal(t, src.Timestamp, out.Timestamp)
	})

	t.Run("planar source declines", func(t *testing.T) {
		src, err := New(FormatYUV420P, 2, 2)
		require.NoError(t, err)

		_, err = conv.Convert(src, FormatRGBA32)
		assert.ErrorIs(t, err, ErrConversionUnsupported)
	})

	t.Run("planar destination declines", func(t *testing.T) {
		src, err := New(FormatRGBA32, 2, 2)
		require.NoError(t, err)

		_, err = conv.Convert(src, FormatNV12)
		assert.ErrorIs(t, err, ErrConversionUnsupported)
	})

	t.Run("gray8 destination declines", func(t *testing.T) {
		src, err := New(FormatRGBA32, 2, 2)
		require.NoError(t, err)

		_, err = conv.Convert(src, FormatGray8)
		assert.ErrorIs(t, err, ErrConversionUnsupported)
	})

	t.Run("nil source declines", func(t *testing.T) {
		_, err := conv.Convert(nil, FormatRGBA32)
		assert.ErrorIs(t, err, ErrConversionUnsupported)
	})
}

func TestPixelFormatProperties(t *testing.T) {
	tests := []struct {
		format PixelFormat
		name   string
		planes int
		bpp    int
		planar bool
	}{
		{FormatRGBA32, "rgba32", 1, 4, false},
		{FormatBGRA32, "bgra32", 1, 4, false},
		{FormatRGB24, "rgb24", 1, 3, false},
		{FormatGray8, "gray8", 1, 1, false},
		{FormatYUV420P, "yuv420p", 3, 0, true},
		{FormatNV12, "nv12", 2, 0, true},
		{FormatUnknown, "unknown", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.planes, tt.format.PlaneCount())
			assert.Equal(t, tt.bpp, tt.format.BytesPerPixel())
			assert.Equal(t, tt.planar, tt.format.Planar())
			assert.Equal(t, tt.format != FormatUnknown, tt.format.Valid())
		})
	}
}

func TestParsePixelFormat(t *testing.T) {
	got, err := ParsePixelFormat("RGBA32")
	require.NoError(t, err)
	assert.Equal(t, FormatRGBA32, got)

	got, err = ParsePixelFormat(" yuv420p ")
	require.NoError(t, err)
	assert.Equal(t, FormatYUV420P, got)

	_, err = ParsePixelFormat("cmyk")
	assert.Error(t, err)
}
