package flashcards

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func filledImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), c)
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func TestAutocrop_TransparentBorder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	fillRect(img, image.Rect(5, 7, 10, 12), red)

	got, err := Autocrop(img, DefaultCropOptions())
	require.NoError(t, err)

	// 5x5 foreground plus a 1px pad on every side.
	assert.Equal(t, image.Rect(0, 0, 7, 7), got.Bounds())
	assert.Equal(t, color.NRGBA{}, got.NRGBAAt(0, 0))
	assert.Equal(t, red, got.NRGBAAt(3, 3))
}

func TestAutocrop_WhiteBackground(t *testing.T) {
	img := filledImage(30, 30, white)
	fillRect(img, image.Rect(10, 12, 15, 20), black)

	got, err := Autocrop(img, DefaultCropOptions())
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 7, 10), got.Bounds())
	assert.Equal(t, white, got.NRGBAAt(0, 0))
	assert.Equal(t, black, got.NRGBAAt(1, 1))
}

func TestAutocrop_PadRatio(t *testing.T) {
	img := filledImage(200, 200, white)
	fillRect(img, image.Rect(50, 50, 150, 150), black)

	got, err := Autocrop(img, CropOptions{Background: color.White, Tolerance: 10, PadRatio: 0.1})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 120), got.Bounds())
}

func TestAutocrop_SolidImageIsOnlyPadded(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	testCases := []struct {
		name string
		src  *image.NRGBA
	}{
		{"background colored", filledImage(10, 10, white)},
		{"foreground colored", filledImage(10, 10, blue)},
		{"fully transparent", image.NewNRGBA(image.Rect(0, 0, 10, 10))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Autocrop(tc.src, DefaultCropOptions())
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 12, 12), got.Bounds())

			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					require.Equal(t, tc.src.NRGBAAt(x, y), got.NRGBAAt(x+1, y+1), "pixel %d,%d", x, y)
				}
			}
		})
	}
}

func TestAutocrop_Idempotent(t *testing.T) {
	img := filledImage(64, 48, white)
	fillRect(img, image.Rect(10, 8, 30, 40), black)

	once, err := Autocrop(img, DefaultCropOptions())
	require.NoError(t, err)
	twice, err := Autocrop(once, DefaultCropOptions())
	require.NoError(t, err)
	assert.Equal(t, once.Bounds(), twice.Bounds())
	assert.Equal(t, once.Pix, twice.Pix)
}

func TestAutocrop_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(-10, -10, 10, 10))
	fillRect(img, img.Bounds(), white)
	fillRect(img, image.Rect(-2, -2, 3, 3), black)

	got, err := Autocrop(img, DefaultCropOptions())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 7, 7), got.Bounds())
}

func TestAutocrop_Unsupported(t *testing.T) {
	for name, img := range map[string]image.Image{
		"nil":     nil,
		"empty":   image.NewNRGBA(image.Rectangle{}),
		"uniform": image.NewUniform(color.White),
	} {
		_, err := Autocrop(img, DefaultCropOptions())
		assert.True(t, errors.Is(err, ErrUnsupportedImage), name)
	}
}

func TestForegroundBounds_ToleranceIsMonotonic(t *testing.T) {
	img := filledImage(20, 20, white)
	img.SetNRGBA(2, 3, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	img.SetNRGBA(12, 15, black)

	prev := image.Rectangle{}
	for _, tol := range []uint8{200, 100, 10, 4, 0} {
		r := ForegroundBounds(img, color.White, tol)
		assert.True(t, prev.In(r), "tolerance %d shrank %v to %v", tol, prev, r)
		prev = r
	}

	assert.Equal(t, image.Rect(12, 15, 13, 16), ForegroundBounds(img, color.White, 10))
	assert.Equal(t, image.Rect(2, 3, 13, 16), ForegroundBounds(img, color.White, 4))
}

func TestForegroundBounds_TransparentPixelsAreBackground(t *testing.T) {
	img := filledImage(10, 10, white)
	img.SetNRGBA(1, 1, color.NRGBA{})
	img.SetNRGBA(6, 7, black)

	assert.Equal(t, image.Rect(6, 7, 7, 8), ForegroundBounds(img, color.White, 10))
}

func TestAlphaBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.True(t, AlphaBounds(img).Empty())

	img.SetNRGBA(3, 4, color.NRGBA{A: 1})
	img.SetNRGBA(7, 2, color.NRGBA{A: 1})
	assert.Equal(t, image.Rect(3, 2, 8, 5), AlphaBounds(img))
}
