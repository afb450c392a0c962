package geometry

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/wosatec/PDF-Generator/template"
)

const (
	a4Width  = 595.28
	a4Height = 841.89
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func a4(margin float64) (Frame, Converter) {
	c := NewConverter(a4Width)
	m := template.Margin{Top: margin, Left: margin, Right: margin, Bottom: margin}
	return NewFrame(a4Width, a4Height, m, c), c
}

func TestConverterRoundTrip(t *testing.T) {
	c := NewConverter(a4Width)
	if !approx(c.ToUnits(ReferenceWidthMM), a4Width) {
		t.Errorf("ToUnits(210) = %v, want %v", c.ToUnits(ReferenceWidthMM), a4Width)
	}
	for _, mm := range []float64{0, 0.5, 10, 123.4} {
		if got := c.ToMillimeters(c.ToUnits(mm)); !approx(got, mm) {
			t.Errorf("round trip %v = %v", mm, got)
		}
	}
}

func TestPlaceFullWidthIgnoresContent(t *testing.T) {
	f, c := a4(10)
	box := template.Box{Position: template.Position{Top: 10, Left: 10}}

	r := Place(box, f, c)
	wantWidth := a4Width - 2*c.ToUnits(10)
	if !approx(r.Width, wantWidth) || !approx(r.Width, f.ContentWidth()) {
		t.Errorf("Width = %v, want %v", r.Width, wantWidth)
	}
	if !approx(r.Left, c.ToUnits(10)+c.ToUnits(10)) {
		t.Errorf("Left = %v, want position plus margin", r.Left)
	}
	if !approx(r.Bottom, f.ContentHeight()-c.ToUnits(10)) {
		t.Errorf("Bottom = %v, want content height minus top", r.Bottom)
	}
	if !approx(r.Height, f.ContentHeight()) {
		t.Errorf("Height = %v, want content height", r.Height)
	}
	// Top edge lands below both margins plus the authored top.
	if got := f.Top(r.Bottom, 0); !approx(got, c.ToUnits(10)+c.ToUnits(10)+c.ToUnits(10)) {
		t.Errorf("Top = %v", got)
	}
}

func TestPlaceDeclaredSize(t *testing.T) {
	f, c := a4(5)
	box := template.Box{Position: template.Position{Top: 20, Left: 0}, Width: 50, Height: 8}

	r := Place(box, f, c)
	if !approx(r.Width, c.ToUnits(50)) || !approx(r.Height, c.ToUnits(8)) {
		t.Errorf("size = %vx%v", r.Width, r.Height)
	}
	if !approx(r.Bottom, f.ContentHeight()-c.ToUnits(28)) {
		t.Errorf("Bottom = %v", r.Bottom)
	}
	if got := f.Top(r.Bottom, r.Height); !approx(got, c.ToUnits(5)+c.ToUnits(5)+c.ToUnits(20)) {
		t.Errorf("Top = %v", got)
	}
}

func TestTopCountsBottomMargin(t *testing.T) {
	c := NewConverter(a4Width)
	f := NewFrame(a4Width, a4Height, template.Margin{Top: 10, Left: 10, Right: 10, Bottom: 20}, c)
	box := template.Box{Position: template.Position{Top: 50}, Height: 1}

	r := Place(box, f, c)
	if got, want := f.Top(r.Bottom, r.Height), c.ToUnits(10+20+50); !approx(got, want) {
		t.Errorf("Top = %v, want %v", got, want)
	}
	// a line is drawn along the bottom edge of its box
	if got, want := f.Top(r.Bottom, 0), c.ToUnits(10+20+50+1); !approx(got, want) {
		t.Errorf("line y = %v, want %v", got, want)
	}
}

func TestImageSizePreservesAspect(t *testing.T) {
	c := NewConverter(a4Width)
	srcW, srcH := 300.0, 200.0

	w, h := ImageSize(template.Box{Height: 30}, srcW, srcH, c)
	if !approx(h, c.ToUnits(30)) {
		t.Errorf("height = %v", h)
	}
	if !approx(w/h, srcW/srcH) {
		t.Errorf("aspect = %v, want %v", w/h, srcW/srcH)
	}

	w, h = ImageSize(template.Box{Width: 45}, srcW, srcH, c)
	if !approx(w/h, srcW/srcH) {
		t.Errorf("aspect from width = %v", w/h)
	}

	w, h = ImageSize(template.Box{}, srcW, srcH, c)
	if w != srcW || h != srcH {
		t.Errorf("intrinsic = %vx%v", w, h)
	}

	w, h = ImageSize(template.Box{Width: 10, Height: 10}, srcW, srcH, c)
	if !approx(w, h) {
		t.Errorf("declared size = %vx%v", w, h)
	}
}

func TestClampImage(t *testing.T) {
	tests := []struct {
		name         string
		w, h         float64
		maxW, maxH   float64
		wantW, wantH float64
	}{
		{"unclamped", 100, 50, 0, 0, 100, 50},
		{"within", 100, 50, 200, 200, 100, 50},
		{"width", 200, 100, 100, 0, 100, 50},
		{"height", 100, 200, 0, 100, 50, 100},
		{"both", 400, 400, 200, 100, 100, 100},
	}
	for _, tc := range tests {
		w, h := ClampImage(tc.w, tc.h, tc.maxW, tc.maxH)
		if !approx(w, tc.wantW) || !approx(h, tc.wantH) {
			t.Errorf("%s: got %vx%v, want %vx%v", tc.name, w, h, tc.wantW, tc.wantH)
		}
	}
}

// perRune measures every rune as 5 units.
func perRune(s string) float64 { return 5 * float64(utf8.RuneCountInString(s)) }

func TestTruncate(t *testing.T) {
	if got := Truncate("fits", 100, perRune); got != "fits" {
		t.Errorf("fitting text changed: %q", got)
	}
	once := Truncate("Hello World", 30, perRune)
	if once != "Hello" {
		t.Errorf("Truncate = %q, want %q", once, "Hello")
	}
	if again := Truncate(once, 30, perRune); again != once {
		t.Errorf("not idempotent: %q then %q", once, again)
	}
	if got := Truncate("wide", 4, perRune); got != "" {
		t.Errorf("Truncate below one rune = %q, want empty", got)
	}
	if got := Truncate("äöü€", 10, perRune); got != "äö" {
		t.Errorf("multibyte = %q", got)
	}
	if got := Truncate("anything", -1, perRune); got != "" {
		t.Errorf("negative limit = %q", got)
	}
}

func TestFitContentPadding(t *testing.T) {
	measured := perRune("Hello")
	if got := measured + FitContentPadding; got != 28 {
		t.Errorf("fit content width = %v, want 28", got)
	}
}
