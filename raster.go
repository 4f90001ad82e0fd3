package flashcards

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/flashcards/imop"
	"github.com/esimov/flashcards/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrUnsupportedSVG is returned for documents outside of the rasterizer's SVG subset.
var ErrUnsupportedSVG = errors.New("unsupported svg")

// Rasterizer converts an SVG document to a w × h image flattened onto bg.
// A zero w or h keeps the aspect ratio of the document; both zero keep its size.
type Rasterizer interface {
	Rasterize(svg []byte, w, h int, bg color.Color) (image.Image, error)
}

// NativeRasterizer renders the SVG subset written by the card composer:
// the root size, rect, image elements with a base64 data URI and text elements
// with fill, font-size and text-anchor, given as attributes or inline style.
// Other elements are ignored.
type NativeRasterizer struct {
	Typeface *Typeface
}

var _ Rasterizer = (*NativeRasterizer)(nil)

type svgNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []svgNode  `xml:",any"`
}

// Rasterize implements Rasterizer.
func (r *NativeRasterizer) Rasterize(data []byte, w, h int, bg color.Color) (image.Image, error) {
	var root svgNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSVG, err)
	}
	if root.XMLName.Local != "svg" {
		return nil, fmt.Errorf("%w: root element %q", ErrUnsupportedSVG, root.XMLName.Local)
	}

	attrs := nodeAttrs(root)
	sw, sh := parseLength(attrs["width"]), parseLength(attrs["height"])
	if sw <= 0 || sh <= 0 {
		if vb := strings.Fields(strings.ReplaceAll(attrs["viewBox"], ",", " ")); len(vb) == 4 {
			sw, sh = parseLength(vb[2]), parseLength(vb[3])
		}
	}
	if sw <= 0 || sh <= 0 || sw > maxImageSide || sh > maxImageSide {
		return nil, fmt.Errorf("%w: invalid document size %dx%d", ErrUnsupportedSVG, sw, sh)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	op := imop.InitOp()
	if err := r.render(canvas, op, root.Children); err != nil {
		return nil, err
	}

	if bg != nil {
		op.Set(imop.DstOver)
		op.Draw(canvas, imaging.New(sw, sh, bg), image.Point{})
	}

	if (w <= 0 && h <= 0) || (w == sw && h == sh) {
		return canvas, nil
	}
	return imaging.Resize(canvas, utils.Max(w, 0), utils.Max(h, 0), imaging.Lanczos), nil
}

func (r *NativeRasterizer) render(canvas *image.NRGBA, op *imop.Composite, nodes []svgNode) error {
	for _, n := range nodes {
		attrs := nodeAttrs(n)
		switch n.XMLName.Local {
		case "g":
			if err := r.render(canvas, op, n.Children); err != nil {
				return err
			}
		case "rect":
			fill, ok := parseFill(attrs["fill"])
			if !ok {
				continue
			}
			rw, rh := parseLength(attrs["width"]), parseLength(attrs["height"])
			if rw <= 0 || rh <= 0 {
				continue
			}
			op.Set(imop.SrcOver)
			op.Draw(canvas, imaging.New(rw, rh, fill), image.Pt(parseLength(attrs["x"]), parseLength(attrs["y"])))
		case "image":
			img, err := decodeDataURI(attrs["href"])
			if err != nil {
				return err
			}
			iw, ih := parseLength(attrs["width"]), parseLength(attrs["height"])
			if iw > 0 && ih > 0 && (iw != img.Bounds().Dx() || ih != img.Bounds().Dy()) {
				img = imaging.Resize(img, iw, ih, imaging.Lanczos)
			}
			op.Set(imop.SrcOver)
			op.Draw(canvas, img, image.Pt(parseLength(attrs["x"]), parseLength(attrs["y"])))
		case "text":
			if err := r.drawText(canvas, attrs, strings.TrimSpace(n.Text)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *NativeRasterizer) drawText(canvas *image.NRGBA, attrs map[string]string, text string) error {
	if text == "" {
		return nil
	}
	fill, ok := parseFill(attrs["fill"])
	if !ok {
		if _, set := attrs["fill"]; set {
			return nil
		}
		fill = color.NRGBA{A: 0xff}
	}
	size := parseLength(attrs["font-size"])
	if size <= 0 {
		size = 16
	}

	face, err := r.Typeface.Face(size)
	if err != nil {
		return err
	}
	defer face.Close()

	x := parseLength(attrs["x"])
	adv := font.MeasureString(face, text)
	switch attrs["text-anchor"] {
	case "middle":
		x -= adv.Round() / 2
	case "end":
		x -= adv.Round()
	}

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(fill),
		Face: face,
		Dot:  fixed.P(x, parseLength(attrs["y"])),
	}
	d.DrawString(text)
	return nil
}

// nodeAttrs returns the element attributes by local name, the inline style
// declarations included. Attributes take precedence over the style.
func nodeAttrs(n svgNode) map[string]string {
	m := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		if a.Name.Local == "style" {
			for _, decl := range strings.Split(a.Value, ";") {
				k, v, ok := strings.Cut(decl, ":")
				if !ok {
					continue
				}
				k = strings.TrimSpace(k)
				if _, set := m[k]; !set {
					m[k] = strings.TrimSpace(v)
				}
			}
			continue
		}
		m[a.Name.Local] = strings.TrimSpace(a.Value)
	}
	return m
}

// parseLength parses a numeric attribute, dropping a "px" unit, rounded to the nearest pixel.
// Invalid values are zero.
func parseLength(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// parseFill parses a fill value. It reports false for "none" and unknown values.
func parseFill(s string) (color.NRGBA, bool) {
	switch strings.ToLower(s) {
	case "", "none", "transparent":
		return color.NRGBA{}, false
	case "white":
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, true
	case "black":
		return color.NRGBA{A: 0xff}, true
	}
	c, err := ParseColor(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	return c, true
}

// decodeDataURI decodes a base64 "data:image/...;base64," URI.
func decodeDataURI(uri string) (image.Image, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: image reference is not an embedded base64 image", ErrUnsupportedSVG)
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: decode embedded image: %v", ErrUnsupportedSVG, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode embedded image: %v", ErrUnsupportedSVG, err)
	}
	return img, nil
}
