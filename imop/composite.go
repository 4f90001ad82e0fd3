// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// Porter and Duff presented in their paper 12 different composition operation,
// but the image/draw core package implements only the source-over-destination and source.
// This package is aimed to overcome the missing composite operations.
//
// The flashcard composer uses it to place illustrations over the card canvas
// (source-over) and to flatten rendered cards onto a background (destination-over).
package imop

import (
	"image"
	"image/color"

	"github.com/esimov/flashcards/utils"
)

const (
	Copy    = "copy"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a Composite with source-over selected.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Copy,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composition operations.
// Unsupported names leave the current operation unchanged.
func (op *Composite) Set(cop string) {
	if utils.Contains(op.ops, cop) {
		op.current = cop
	}
}

// Get returns the currently active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff fractions of the source and backdrop
// contributing to the result, given the source and backdrop alpha.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Copy:
		return 1, 0
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composes src over the dst region starting at pt, in place.
// Only the pixels covered by the translated src bounds are modified.
func (op *Composite) Draw(dst *image.NRGBA, src image.Image, pt image.Point) {
	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(sb.Min.X+x-pt.X, sb.Min.Y+y-pt.Y)).(color.NRGBA)

			as := float64(c.A) / 255
			ab := float64(dst.Pix[di+3]) / 255
			fa, fb := op.factors(as, ab)

			ao := as*fa + ab*fb
			if ao <= 0 {
				dst.Pix[di+0] = 0
				dst.Pix[di+1] = 0
				dst.Pix[di+2] = 0
				dst.Pix[di+3] = 0
				di += 4
				continue
			}
			mix := func(cs, cb uint8) uint8 {
				v := (as*fa*float64(cs) + ab*fb*float64(cb)) / ao
				return uint8(utils.Clamp(v+0.5, 0, 255))
			}
			dst.Pix[di+0] = mix(c.R, dst.Pix[di+0])
			dst.Pix[di+1] = mix(c.G, dst.Pix[di+1])
			dst.Pix[di+2] = mix(c.B, dst.Pix[di+2])
			dst.Pix[di+3] = uint8(utils.Clamp(ao*255+0.5, 0, 255))
			di += 4
		}
	}
}
