package soft

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/geometry"
)

// scalerFor maps the renderer quality to an interpolator.
func scalerFor(q avrender.Quality) xdraw.Interpolator {
	switch q {
	case avrender.QualityFastest:
		return xdraw.NearestNeighbor
	case avrender.QualityBest:
		return xdraw.CatmullRom
	default:
		return xdraw.ApproxBiLinear
	}
}

// rotateRGBA returns the image rotated clockwise by the given quarter-turn
// orientation. Orientation 0 returns the input unchanged. The result's
// bounds start at the origin.
func rotateRGBA(src *image.RGBA, degrees int) *image.RGBA {
	if geometry.NormalizeOrientation(degrees) == 0 {
		return src
	}
	sb := src.Bounds()
	sw := sb.Dx()
	sh := sb.Dy()

	var dst *image.RGBA
	if geometry.OrientationSwapsAxes(degrees) {
		dst = image.NewRGBA(image.Rect(0, 0, sh, sw))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, sw, sh))
	}

	db := dst.Bounds()
	for y := 0; y < db.Dy(); y++ {
		for x := 0; x < db.Dx(); x++ {
			var sx, sy int
			switch geometry.NormalizeOrientation(degrees) {
			case 90:
				sx, sy = y, sh-1-x
			case 180:
				sx, sy = sw-1-x, sh-1-y
			case 270:
				sx, sy = sw-1-y, x
			}
			di := dst.PixOffset(x, y)
			si := src.PixOffset(sb.Min.X+sx, sb.Min.Y+sy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// fillRGBA paints the rectangle with a solid color.
func fillRGBA(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
			i += 4
		}
	}
}

// applyColor adjusts brightness, contrast and saturation in place over the
// rectangle. Adjustments are in [-1, 1] with 0 meaning unchanged.
// Brightness adds an offset, contrast scales around the 128 midpoint, and
// saturation blends each channel against the pixel's luminance.
func applyColor(img *image.RGBA, rect image.Rectangle, brightness, contrast, saturation float64) {
	if brightness == 0 && contrast == 0 && saturation == 0 {
		return
	}
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	// Brightness and contrast collapse into one lookup table.
	var lut [256]uint8
	offset := brightness * 255
	factor := 1 + contrast
	for i := range lut {
		lut[i] = clampByte((float64(i)-128)*factor + 128 + offset)
	}

	satFactor := 1 + saturation
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r := float64(lut[img.Pix[i+0]])
			g := float64(lut[img.Pix[i+1]])
			b := float64(lut[img.Pix[i+2]])

			if saturation != 0 {
				gray := 0.299*r + 0.587*g + 0.114*b
				r = gray + (r-gray)*satFactor
				g = gray + (g-gray)*satFactor
				b = gray + (b-gray)*satFactor
			}

			img.Pix[i+0] = clampByte(r)
			img.Pix[i+1] = clampByte(g)
			img.Pix[i+2] = clampByte(b)
			i += 4
		}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
