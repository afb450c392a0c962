// Package geometry converts authored millimeter geometry into device units and
// places elements on a page.
//
// Elements are authored top-down from the content area's top-left corner.
// Placement is expressed bottom-up: Rect.Bottom is content height minus the
// authored top and height, taken as a distance from the page's bottom edge.
// Frame.Top turns that back into the top-down page coordinate the drawing
// surface uses, so a fixed element's top edge lands at
// margin.top + margin.bottom + top.
package geometry

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wosatec/PDF-Generator/template"
)

// ReferenceWidthMM is the width of the reference page (A4) in millimeters.
const ReferenceWidthMM = 210.0

// FitContentPadding is added to the measured text width of FitContent
// elements, in device units.
const FitContentPadding = 3.0

// Converter maps millimeters to device units with a single scale factor.
type Converter struct {
	factor float64
}

// NewConverter derives the factor from the page width in device units.
func NewConverter(pageWidth float64) Converter {
	return Converter{factor: pageWidth / ReferenceWidthMM}
}

// Factor returns device units per millimeter.
func (c Converter) Factor() float64 { return c.factor }

// ToUnits converts millimeters to device units.
func (c Converter) ToUnits(mm float64) float64 { return mm * c.factor }

// ToMillimeters converts device units to millimeters.
func (c Converter) ToMillimeters(u float64) float64 {
	if c.factor == 0 {
		return 0
	}
	return u / c.factor
}

// Insets are page margins in device units.
type Insets struct {
	Top, Left, Right, Bottom float64
}

// Frame is a page of a given size with margins applied, in device units.
type Frame struct {
	PageWidth  float64
	PageHeight float64
	Margin     Insets
}

// NewFrame converts authored margins and builds the frame.
func NewFrame(pageWidth, pageHeight float64, m template.Margin, c Converter) Frame {
	return Frame{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Margin: Insets{
			Top:    c.ToUnits(m.Top),
			Left:   c.ToUnits(m.Left),
			Right:  c.ToUnits(m.Right),
			Bottom: c.ToUnits(m.Bottom),
		},
	}
}

// ContentWidth is the page width minus the left and right margins.
func (f Frame) ContentWidth() float64 {
	return f.PageWidth - f.Margin.Left - f.Margin.Right
}

// ContentHeight is the page height minus the top and bottom margins.
func (f Frame) ContentHeight() float64 {
	return f.PageHeight - f.Margin.Top - f.Margin.Bottom
}

// Top returns the top-down page coordinate of the top edge of a box whose
// bottom edge sits at bottom (bottom-up, from the page edge) and which spans
// height units.
func (f Frame) Top(bottom, height float64) float64 {
	return f.PageHeight - bottom - height
}

// Rect is a placed element in device units. Bottom is bottom-up from the
// page's bottom edge; Left is relative to the page edge.
type Rect struct {
	Left   float64
	Bottom float64
	Width  float64
	Height float64
}

// Place computes the effective rectangle of an authored box. A zero width or
// height takes the content width or height. Bottom is derived from the
// authored top and the authored height.
func Place(b template.Box, f Frame, c Converter) Rect {
	r := Rect{
		Left:   c.ToUnits(b.Position.Left) + f.Margin.Left,
		Bottom: f.ContentHeight() - c.ToUnits(b.Position.Top+b.Height),
		Width:  c.ToUnits(b.Width),
		Height: c.ToUnits(b.Height),
	}
	if r.Width == 0 {
		r.Width = f.ContentWidth()
	}
	if r.Height == 0 {
		r.Height = f.ContentHeight()
	}
	return r
}

// ImageSize returns the placed size of an image whose intrinsic size is
// srcW x srcH device units. With both authored dimensions zero the intrinsic
// size is used; with one zero it is derived from the other through the
// source aspect ratio.
func ImageSize(b template.Box, srcW, srcH float64, c Converter) (w, h float64) {
	w, h = c.ToUnits(b.Width), c.ToUnits(b.Height)
	switch {
	case w == 0 && h == 0:
		return srcW, srcH
	case w == 0:
		if srcH == 0 {
			return 0, h
		}
		return srcW * (h / srcH), h
	case h == 0:
		if srcW == 0 {
			return w, 0
		}
		return w, srcH * (w / srcW)
	}
	return w, h
}

// ClampImage scales w x h down proportionally so that it fits maxW and maxH.
// A zero maximum is ignored. The width clamp is applied first; the height
// clamp then applies to the result.
func ClampImage(w, h, maxW, maxH float64) (float64, float64) {
	if maxW > 0 && w > maxW {
		h *= maxW / w
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w *= maxH / h
		h = maxH
	}
	return w, h
}

// Truncate removes trailing runes from text until measure reports a width
// no greater than limit, or the text is empty. Whitespace exposed at the end
// by a cut is dropped along with it. Text that already fits is returned
// unchanged.
func Truncate(text string, limit float64, measure func(string) float64) string {
	for text != "" && measure(text) > limit {
		_, size := utf8.DecodeLastRuneInString(text)
		text = strings.TrimRightFunc(text[:len(text)-size], unicode.IsSpace)
	}
	return text
}
