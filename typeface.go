package flashcards

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/esimov/flashcards/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFonts is the ordered list of font candidates tried when none is configured.
var DefaultFonts = []string{
	"../fonts/Andika-Regular.ttf",
	"fonts/Andika-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/Library/Fonts/Arial Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// builtinFonts are the font candidates resolved from the embedded Go fonts.
var builtinFonts = map[string][]byte{
	"gofont:regular": goregular.TTF,
	"gofont:bold":    gobold.TTF,
}

// Measurer measures the ink bounding box of a text rendered at an integer point size.
type Measurer interface {
	Measure(text string, size int) (width, height int, err error)
	IsFallback() bool
}

// Typeface is the font used for the card text. It is either a parsed
// TrueType/OpenType font or, when no font could be loaded, the fixed size
// basicfont stand-in. Both variants measure and draw text the same way.
type Typeface struct {
	// Source is the path, URL or builtin name the font was loaded from.
	// It is empty for the fallback typeface.
	Source string
	font   *opentype.Font
}

var _ Measurer = (*Typeface)(nil)

// FallbackTypeface returns the stand-in used when no font resource is available.
func FallbackTypeface() *Typeface {
	return &Typeface{}
}

// ParseTypeface parses TrueType or OpenType font data.
func ParseTypeface(source string, data []byte) (*Typeface, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", source, err)
	}
	return &Typeface{Source: source, font: f}, nil
}

// ResolveTypeface returns the first candidate which can be loaded, trying them in order.
// A candidate is either a builtin name ("gofont:regular", "gofont:bold"), an http(s)
// URL, downloaded into cacheDir, or a local file path. Candidates failing to load are
// reported as warnings. If none succeeds the fallback typeface is returned.
func ResolveTypeface(candidates []string, cacheDir string) (*Typeface, []string) {
	var warnings []string

	for _, c := range candidates {
		if data, ok := builtinFonts[c]; ok {
			tf, err := ParseTypeface(c, data)
			if err != nil {
				warnings = append(warnings, err.Error())
				continue
			}
			return tf, warnings
		}

		path := c
		if utils.IsValidUrl(c) {
			if cacheDir == "" {
				cacheDir = filepath.Join(os.TempDir(), "flashcards-fonts")
			}
			p, err := utils.DownloadFont(c, cacheDir, nil)
			if err != nil {
				warnings = append(warnings, err.Error())
				continue
			}
			path = p
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				warnings = append(warnings, fmt.Sprintf("read font %s: %v", c, err))
			}
			continue
		}
		tf, err := ParseTypeface(c, data)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		return tf, warnings
	}
	return FallbackTypeface(), warnings
}

// IsFallback reports whether t is the basicfont stand-in.
func (t *Typeface) IsFallback() bool {
	return t == nil || t.font == nil
}

// Family returns the font family name stored in the font, if any.
func (t *Typeface) Family() string {
	if t.IsFallback() {
		return "basicfont"
	}
	var buf sfnt.Buffer
	name, err := t.font.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return filepath.Base(t.Source)
	}
	return name
}

// Face returns a font face at the given size in points, at 72 DPI so that points equal pixels.
// The fallback typeface ignores the size.
func (t *Typeface) Face(size int) (font.Face, error) {
	if t.IsFallback() {
		return basicfont.Face7x13, nil
	}
	face, err := opentype.NewFace(t.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face at %dpt: %w", size, err)
	}
	return face, nil
}

// Measure returns the width and height of the ink box of text rendered at size.
func (t *Typeface) Measure(text string, size int) (int, int, error) {
	face, err := t.Face(size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()

	w, h := inkSize(inkBounds(face, text))
	return w, h, nil
}

// inkBounds returns the bounding box of the glyphs' ink, relative to the dot
// placed on the baseline at the origin.
func inkBounds(face font.Face, text string) fixed.Rectangle26_6 {
	bounds, _ := font.BoundString(face, text)
	return bounds
}

// inkSize returns the pixel extent of an ink bounding box.
func inkSize(b fixed.Rectangle26_6) (int, int) {
	return (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
}
