package flashcards

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/flashcards/imop"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Default card colors.
var (
	DefaultLetterColor = color.NRGBA{R: 0xff, A: 0xff}
	DefaultWordColor   = color.NRGBA{A: 0xff}
)

// DefaultFontFamily is the first font-family entry of the SVG text nodes.
const DefaultFontFamily = "Andika"

// Composer renders the cards of a deck.
type Composer struct {
	Layout   Layout
	Typeface *Typeface

	LetterColor color.Color
	WordColor   color.Color
	// FontFamily is the preferred font family written in the SVG output.
	FontFamily string
	// Crop enables the illustration background trimming when not nil.
	Crop *CropOptions
}

// Card is a rendered flashcard in both output formats.
type Card struct {
	Pair   Pair
	Raster *image.NRGBA
	SVG    []byte
	Sizes  DeckSizes
}

// textRun is a piece of text placed on the card. Dot is the baseline origin
// used when drawing the raster; AnchorX and Anchor are the SVG equivalents.
type textRun struct {
	Text    string
	Size    int
	Color   color.NRGBA
	Dot     image.Point
	AnchorX int
	Anchor  string
}

// Compose renders the card of p with the illustration ill, using the deck sizes.
//
// The raster is drawn in this order: white canvas, letter pair, illustration
// composited source-over, word. The SVG document uses the same coordinates.
func (c *Composer) Compose(p Pair, ill image.Image, sizes DeckSizes) (*Card, error) {
	if ill == nil {
		return nil, errors.New("compose: nil illustration")
	}
	if sizes.Letters <= 0 || sizes.Word <= 0 {
		return nil, fmt.Errorf("compose: invalid font sizes %+v", sizes)
	}
	l := c.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("compose: invalid layout %dx%d", l.Width, l.Height)
	}

	if c.Crop != nil {
		cropped, err := Autocrop(ill, *c.Crop)
		if err != nil {
			return nil, fmt.Errorf("trim illustration: %w", err)
		}
		ill = cropped
	} else if b := ill.Bounds(); b.Empty() || b.Dx() > maxImageSide || b.Dy() > maxImageSide {
		return nil, fmt.Errorf("%w: bounds %v", ErrUnsupportedImage, b)
	}

	letters, err := c.placeLetters(p.LettersText(), sizes.Letters)
	if err != nil {
		return nil, err
	}
	word, err := c.placeWord(p.Word, sizes.Word)
	if err != nil {
		return nil, err
	}

	area := l.Illustration
	pic := fitImage(ill, area.W, area.H)
	pos := image.Pt(
		area.X+(area.W-pic.Bounds().Dx())/2,
		area.Y+(area.H-pic.Bounds().Dy())/2,
	)

	canvas := imaging.New(l.Width, l.Height, color.White)
	if err := c.drawText(canvas, letters); err != nil {
		return nil, err
	}
	op := imop.InitOp()
	op.Set(imop.SrcOver)
	op.Draw(canvas, pic, pos)
	if err := c.drawText(canvas, word); err != nil {
		return nil, err
	}

	href, err := dataURI(pic)
	if err != nil {
		return nil, err
	}
	doc := svgCard{
		Width:      l.Width,
		Height:     l.Height,
		FontFamily: c.fontFamily(),
		Image:      Box{X: pos.X, Y: pos.Y, W: pic.Bounds().Dx(), H: pic.Bounds().Dy()},
		ImageHref:  href,
		Texts:      []textRun{letters, word},
	}

	return &Card{
		Pair:   p,
		Raster: canvas,
		SVG:    doc.Bytes(),
		Sizes:  sizes,
	}, nil
}

// placeLetters places the letter pair left aligned in the letters box,
// with the glyph tops on the box top plus padding.
func (c *Composer) placeLetters(text string, size int) (textRun, error) {
	b, err := c.bounds(text, size)
	if err != nil {
		return textRun{}, err
	}
	box := c.Layout.Letters
	x := box.X
	y := box.Y + c.Layout.TextPadding - b.Min.Y.Floor()
	return textRun{
		Text:    text,
		Size:    size,
		Color:   toNRGBA(c.LetterColor, DefaultLetterColor),
		Dot:     image.Pt(x, y),
		AnchorX: x,
		Anchor:  "start",
	}, nil
}

// placeWord centres the word ink horizontally on the canvas, with the glyph tops
// on the word box top plus padding.
func (c *Composer) placeWord(text string, size int) (textRun, error) {
	b, err := c.bounds(text, size)
	if err != nil {
		return textRun{}, err
	}
	inkW, _ := inkSize(b)
	box := c.Layout.Word
	x := c.Layout.Width/2 - inkW/2 - b.Min.X.Floor()
	y := box.Y + c.Layout.TextPadding - b.Min.Y.Floor()
	return textRun{
		Text:    text,
		Size:    size,
		Color:   toNRGBA(c.WordColor, DefaultWordColor),
		Dot:     image.Pt(x, y),
		AnchorX: c.Layout.Width / 2,
		Anchor:  "middle",
	}, nil
}

func (c *Composer) bounds(text string, size int) (fixed.Rectangle26_6, error) {
	face, err := c.Typeface.Face(size)
	if err != nil {
		return fixed.Rectangle26_6{}, err
	}
	defer face.Close()
	return inkBounds(face, text), nil
}

// drawText draws the run on dst, from the baseline origin.
func (c *Composer) drawText(dst *image.NRGBA, run textRun) error {
	face, err := c.Typeface.Face(run.Size)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(run.Color),
		Face: face,
		Dot:  fixed.P(run.Dot.X, run.Dot.Y),
	}
	d.DrawString(run.Text)
	return nil
}

func (c *Composer) fontFamily() string {
	if c.FontFamily != "" {
		return c.FontFamily
	}
	return DefaultFontFamily
}

// toNRGBA converts c to an opaque color, def being used for nil.
func toNRGBA(c color.Color, def color.NRGBA) color.NRGBA {
	if c == nil {
		return def
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}
