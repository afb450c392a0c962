// Package pdf implements render.Backend on top of gofpdf.
//
// The document is set up in points with automatic page breaks disabled:
// every page is added explicitly, either by the caller or by table flow.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/wosatec/PDF-Generator/render"
)

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Option configures a Backend.
type Option func(*config)

type config struct {
	width, height float64
	log           logrus.FieldLogger
}

// WithPageSize sets a custom page size in points.
func WithPageSize(width, height float64) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithLogger sets the logger used for drawing diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) {
		c.log = log
	}
}

// Backend draws onto a gofpdf document.
type Backend struct {
	pdf    *gofpdf.Fpdf
	log    logrus.FieldLogger
	w, h   float64
	tr     func(string) string
	fonts  map[string]bool
	images map[string][2]float64

	margins  render.Insets
	flowY    float64
	fresh    bool // no flow content on the last page yet
	dropLast bool
}

// New returns a backend with no pages. If no options are given the page
// size is A4 portrait.
func New(opts ...Option) *Backend {
	cfg := &config{width: A4Width, height: A4Height}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.log == nil {
		cfg.log = logrus.StandardLogger()
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: cfg.width, Ht: cfg.height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetMargins(0, 0, 0)

	return &Backend{
		pdf:    pdf,
		log:    cfg.log,
		w:      cfg.width,
		h:      cfg.height,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		fonts:  map[string]bool{},
		images: map[string][2]float64{},
	}
}

// Fpdf exposes the underlying document.
func (b *Backend) Fpdf() *gofpdf.Fpdf { return b.pdf }

func (b *Backend) PageSize() (float64, float64) { return b.w, b.h }

func (b *Backend) PageCount() int { return b.pdf.PageCount() }

func (b *Backend) SetMargins(m render.Insets) {
	b.margins = m
	if b.fresh {
		b.flowY = m.Top
	}
}

func (b *Backend) AddPage() {
	b.pdf.SetPage(b.pdf.PageCount())
	b.pdf.AddPage()
	b.flowY = b.margins.Top
	b.fresh = true
}

// RegisterFont embeds a TrueType face under all four styles. Core faces are
// built into gofpdf and need no registration.
func (b *Backend) RegisterFont(f *render.Font) error {
	if f == nil || f.Core || b.fonts[f.Family] {
		return nil
	}
	for _, style := range []string{"", "B", "I", "BI"} {
		b.pdf.AddUTF8FontFromBytes(f.Family, style, f.Data)
	}
	if b.pdf.Err() {
		return fmt.Errorf("pdf: registering font %s: %w", f.Key, b.pdf.Error())
	}
	b.fonts[f.Family] = true
	return nil
}

func (b *Backend) RegisterImage(img *render.Image) (float64, float64, error) {
	if size, ok := b.images[img.Name]; ok {
		return size[0], size[1], nil
	}
	info := b.pdf.RegisterImageOptionsReader(img.Name, imageOptions(img), bytes.NewReader(img.Data))
	if b.pdf.Err() {
		err := b.pdf.Error()
		b.pdf.ClearError()
		return 0, 0, fmt.Errorf("pdf: registering image: %w", err)
	}
	if info == nil {
		return 0, 0, fmt.Errorf("pdf: registering image %s failed", img.Name)
	}
	size := [2]float64{info.Width(), info.Height()}
	b.images[img.Name] = size
	return size[0], size[1], nil
}

func (b *Backend) MeasureText(style render.TextStyle, text string) float64 {
	b.pdf.SetFont(fontFamily(style), style.FontStyle(), style.Size)
	return b.pdf.GetStringWidth(b.encode(style, text))
}

// onPage runs draw with page n current and returns to the last page
// afterwards, so that page appends stay in order.
func (b *Backend) onPage(n int, draw func()) error {
	last := b.pdf.PageCount()
	if n < 1 || n > last {
		return fmt.Errorf("pdf: page %d out of range [1, %d]", n, last)
	}
	b.pdf.SetPage(n)
	draw()
	b.pdf.SetPage(last)
	b.pdf.SetAlpha(1, "Normal")
	if b.pdf.Err() {
		err := b.pdf.Error()
		b.pdf.ClearError()
		return fmt.Errorf("pdf: page %d: %w", n, err)
	}
	return nil
}

func (b *Backend) DrawText(t *render.Text) error {
	return b.onPage(t.Page, func() {
		lines := b.layout(t.Runs, t.Width)
		if !t.Background.Transparent() {
			b.fill(t.Background, t.X, t.Y, t.Width, float64(len(lines))*t.LineHeight)
		}
		b.writeLines(lines, t.X, t.Y, t.Width, t.LineHeight, t.Align, t.Color)
	})
}

func (b *Backend) DrawImage(p *render.ImagePlacement) error {
	if _, _, err := b.RegisterImage(p.Image); err != nil {
		return err
	}
	return b.onPage(p.Page, func() {
		b.pdf.ImageOptions(p.Image.Name, p.X, p.Y, p.Width, p.Height, false, imageOptions(p.Image), 0, "")
	})
}

func (b *Backend) DrawLine(s *render.Stroke) error {
	return b.onPage(s.Page, func() {
		b.stroke(s.Color, s.Width, s.X1, s.Y, s.X2, s.Y)
	})
}

func (b *Backend) DropLastPage() error {
	if b.pdf.PageCount() < 2 {
		return fmt.Errorf("pdf: cannot drop the only page")
	}
	b.dropLast = true
	return nil
}

// setFont selects the face and writes the selection to the current page even
// when gofpdf already considers it active, since pages may be revisited.
func (b *Backend) setFont(style render.TextStyle) {
	b.pdf.SetFont(fontFamily(style), style.FontStyle(), style.Size)
	if b.pdf.PageCount() > 0 {
		b.pdf.SetFontSize(style.Size)
	}
}

func fontFamily(style render.TextStyle) string {
	if style.Font == nil {
		return "Helvetica"
	}
	return style.Font.Family
}

func imageOptions(img *render.Image) gofpdf.ImageOptions {
	return gofpdf.ImageOptions{ImageType: strings.ToUpper(img.Format), ReadDpi: false}
}

// encode converts UTF-8 to the code page of core fonts.
func (b *Backend) encode(style render.TextStyle, s string) string {
	if style.Font == nil || style.Font.Core {
		return b.tr(s)
	}
	return s
}

func (b *Backend) fill(c render.Color, x, y, w, h float64) {
	if c.Transparent() || w <= 0 || h <= 0 {
		return
	}
	b.pdf.SetAlpha(c.Alpha, "Normal")
	b.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	b.pdf.Rect(x, y, w, h, "F")
	b.pdf.SetAlpha(1, "Normal")
}

func (b *Backend) stroke(c render.Color, width, x1, y1, x2, y2 float64) {
	if c.Transparent() || width <= 0 {
		return
	}
	b.pdf.SetAlpha(c.Alpha, "Normal")
	b.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	b.pdf.SetLineWidth(width)
	b.pdf.Line(x1, y1, x2, y2)
	b.pdf.SetAlpha(1, "Normal")
}
