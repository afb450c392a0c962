// Package resource holds the named colors and fonts of a template and turns
// image descriptors found in data documents into embeddable images.
//
// Registries are built once per run and only read afterwards.
package resource

import (
	"errors"
	"strings"

	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/template"
)

var (
	ErrImage = errors.New("resource: image")
	ErrFont  = errors.New("resource: font")
)

// Colors resolves color keys against the template's color table.
type Colors struct {
	named map[string]template.Color
}

// NewColors wraps the template color table.
func NewColors(named map[string]template.Color) *Colors {
	return &Colors{named: named}
}

// Foreground resolves a text, border or stroke color. Blank and unknown keys
// use "default"; without a "default" entry the result is opaque black.
func (c *Colors) Foreground(key string) render.Color {
	if col, ok := c.lookup(key); ok {
		return col
	}
	if col, ok := c.lookup(template.DefaultColor); ok {
		return col
	}
	return render.Black
}

// Background resolves a fill color. Blank and unknown keys use
// "default-background"; without that entry nothing is filled.
func (c *Colors) Background(key string) render.Color {
	if col, ok := c.lookup(key); ok {
		return col
	}
	if col, ok := c.lookup(template.DefaultBackground); ok {
		return col
	}
	return render.Color{}
}

func (c *Colors) lookup(key string) (render.Color, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return render.Color{}, false
	}
	col, ok := c.named[key]
	if !ok {
		return render.Color{}, false
	}
	return render.Color{R: col.R, G: col.G, B: col.B, Alpha: col.Opacity()}, true
}
