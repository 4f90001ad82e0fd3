package flashcards

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// fallbackFamilies are appended to the preferred font family of the SVG text.
var fallbackFamilies = []string{"Andika", "DejaVu Sans", "Arial", "sans-serif"}

// attrEscaper escapes the characters not allowed inside a double quoted attribute.
var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// svgCard is the vector rendition of a card.
type svgCard struct {
	Width, Height int
	FontFamily    string
	Image         Box
	ImageHref     string
	Texts         []textRun
}

// Bytes writes the SVG document.
func (s svgCard) Bytes() []byte {
	var buf bytes.Buffer

	canvas := svg.New(&buf)
	canvas.Startview(s.Width, s.Height, 0, 0, s.Width, s.Height)
	canvas.Rect(0, 0, s.Width, s.Height, `fill="#FFFFFF"`)
	canvas.Image(s.Image.X, s.Image.Y, s.Image.W, s.Image.H, s.ImageHref)
	for _, t := range s.Texts {
		canvas.Text(t.AnchorX, t.Dot.Y, t.Text,
			fmt.Sprintf(`fill="%s"`, HexColor(t.Color)),
			fmt.Sprintf(`font-family="%s"`, attrEscaper.Replace(fontFamilyList(s.FontFamily))),
			fmt.Sprintf(`font-size="%d"`, t.Size),
			fmt.Sprintf(`text-anchor="%s"`, t.Anchor),
		)
	}
	canvas.End()

	return buf.Bytes()
}

// fontFamilyList returns the CSS font-family list starting with family.
func fontFamilyList(family string) string {
	list := make([]string, 0, len(fallbackFamilies)+1)
	f := strings.TrimSpace(family)
	if f != "" {
		list = append(list, f)
	}
	for _, fb := range fallbackFamilies {
		if !strings.EqualFold(fb, f) {
			list = append(list, fb)
		}
	}
	return strings.Join(list, ", ")
}
