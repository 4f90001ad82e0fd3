package flashcards

import (
	"fmt"
	"image"
)

// Box is an axis-aligned rectangle in canvas pixels.
type Box struct {
	X, Y, W, H int
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Layout holds the card geometry derived from the canvas size.
// All the boxes are fixed fractions of the canvas width and height.
type Layout struct {
	Width  int
	Height int
	Margin int
	// TextPadding is the distance between a text box top and the top of its glyphs.
	TextPadding int
	// Letters is the top left box holding the letter pair.
	Letters Box
	// Word is the bottom box holding the word, centred horizontally.
	Word Box
	// Illustration is the area between the two text boxes available for the picture.
	Illustration Box
}

// NewLayout computes the card layout for a width × height canvas.
func NewLayout(width, height int) (Layout, error) {
	if width <= 0 || height <= 0 {
		return Layout{}, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	frac := func(f float64, v int) int {
		return int(f * float64(v))
	}

	l := Layout{
		Width:       width,
		Height:      height,
		Margin:      frac(0.05, width),
		TextPadding: frac(0.006, height),
		Letters: Box{
			X: frac(0.05, width),
			Y: frac(0.06, height),
			W: frac(0.42, width),
			H: frac(0.16, height),
		},
	}
	wordW := frac(0.90, width)
	l.Word = Box{
		X: (width - wordW) / 2,
		Y: frac(0.80, height),
		W: wordW,
		H: frac(0.12, height),
	}

	top := l.Letters.Y + l.Letters.H + l.Margin
	bottom := l.Word.Y - l.Margin
	l.Illustration = Box{
		X: l.Margin,
		Y: top,
		W: width - 2*l.Margin,
		H: bottom - top,
	}
	if l.Illustration.W <= 0 || l.Illustration.H <= 0 {
		return Layout{}, fmt.Errorf("canvas %dx%d leaves no room for the illustration", width, height)
	}
	return l, nil
}
