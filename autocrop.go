package flashcards

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/flashcards/utils"
)

// ErrUnsupportedImage is returned by Autocrop for images it cannot trim.
var ErrUnsupportedImage = errors.New("unsupported image")

// maxImageSide bounds the accepted image dimensions; it rejects unbounded
// images such as *image.Uniform.
const maxImageSide = 1 << 16

// CropOptions controls the background trimming of the illustrations.
type CropOptions struct {
	// Background is the color considered as empty canvas.
	Background color.Color
	// Tolerance is the largest luminance difference from the background
	// still counted as background.
	Tolerance uint8
	// PadRatio is the padding added back on every side, relative to the
	// shorter side of the trimmed image.
	PadRatio float64
}

// DefaultCropOptions trims white backgrounds and keeps a 2% border.
func DefaultCropOptions() CropOptions {
	return CropOptions{
		Background: color.White,
		Tolerance:  10,
		PadRatio:   0.02,
	}
}

// Autocrop removes the uniform border of an image and re-pads it.
//
// The transparent border is removed first, then the border whose color is
// within opts.Tolerance of opts.Background. Finally a pad of
// max(1, round(PadRatio × min(w, h))) pixels is added on each side, filled with
// transparency when the image has transparent pixels, with the background otherwise.
// An image without foreground is returned unchanged apart from the padding.
func Autocrop(img image.Image, opts CropOptions) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrUnsupportedImage)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrUnsupportedImage, b)
	}
	if b.Dx() > maxImageSide || b.Dy() > maxImageSide {
		return nil, fmt.Errorf("%w: bounds %v too large", ErrUnsupportedImage, b)
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	src := imgToNRGBA(img)
	transparent := !src.Opaque()

	if transparent {
		if r := AlphaBounds(src); !r.Empty() && r != src.Bounds() {
			src = imaging.Crop(src, r)
		}
	}
	if r := ForegroundBounds(src, opts.Background, opts.Tolerance); !r.Empty() && r != src.Bounds() {
		src = imaging.Crop(src, r)
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	pad := utils.Max(1, int(math.Round(utils.Max(opts.PadRatio, 0)*float64(utils.Min(w, h)))))

	fill := color.NRGBAModel.Convert(opts.Background).(color.NRGBA)
	fill.A = 0xff
	if transparent {
		fill = color.NRGBA{}
	}
	dst := imaging.New(w+2*pad, h+2*pad, fill)
	return imaging.Paste(dst, src, image.Pt(pad, pad)), nil
}

// AlphaBounds returns the bounding box of the pixels which are not fully transparent.
// The result is empty when every pixel is transparent.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[i+3] > 0 {
				minX, maxX = utils.Min(minX, x), utils.Max(maxX, x)
				minY, maxY = utils.Min(minY, y), utils.Max(maxY, y)
			}
			i += 4
		}
	}
	return boundsOf(minX, minY, maxX, maxY)
}

// boundsOf turns inclusive pixel extremes into a rectangle, empty if none was found.
func boundsOf(minX, minY, maxX, maxY int) image.Rectangle {
	if maxX < minX || maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// ForegroundBounds returns the bounding box of the pixels differing from bg by more
// than tolerance. Every pixel is first composited over bg, then the per-channel
// absolute difference is reduced to a luminance value. The result is empty when
// the whole image is background.
func ForegroundBounds(img *image.NRGBA, bg color.Color, tolerance uint8) image.Rectangle {
	c := color.NRGBAModel.Convert(bg).(color.NRGBA)
	bgR, bgG, bgB := int(c.R), int(c.G), int(c.B)

	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			a := int(img.Pix[i+3])
			dr := utils.Abs(int(img.Pix[i+0])-bgR) * a / 255
			dg := utils.Abs(int(img.Pix[i+1])-bgG) * a / 255
			db := utils.Abs(int(img.Pix[i+2])-bgB) * a / 255
			i += 4

			if lum := (dr*299 + dg*587 + db*114) / 1000; lum > int(tolerance) {
				minX, maxX = utils.Min(minX, x), utils.Max(maxX, x)
				minY, maxY = utils.Min(minY, y), utils.Max(maxY, y)
			}
		}
	}
	return boundsOf(minX, minY, maxX, maxY)
}
