// Package record implements render.Backend in memory. It keeps every command
// it receives so that callers can inspect a composed document without
// producing a PDF, and writes a plain text summary as its output.
package record

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"unicode/utf8"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/wosatec/PDF-Generator/render"
)

// GlyphWidth is the advance of every rune as a fraction of the font size.
const GlyphWidth = 0.5

// TableCall is a recorded table. StartPage is the page flow content began
// on, or the explicit page for fixed tables.
type TableCall struct {
	Table     *render.Table
	StartPage int
}

// Backend records drawing commands.
type Backend struct {
	width, height float64

	Fonts   []*render.Font
	Margins []render.Insets
	Texts   []*render.Text
	Images  []*render.ImagePlacement
	Strokes []*render.Stroke
	Tables  []TableCall

	pages   int
	dropped bool
	sizes   map[string][2]float64
}

// New returns a recorder with the given page size in device units.
func New(width, height float64) *Backend {
	return &Backend{width: width, height: height, sizes: map[string][2]float64{}}
}

func (b *Backend) PageSize() (float64, float64) { return b.width, b.height }

func (b *Backend) RegisterFont(f *render.Font) error {
	b.Fonts = append(b.Fonts, f)
	return nil
}

// RegisterImage reports the pixel dimensions of img as its size.
func (b *Backend) RegisterImage(img *render.Image) (float64, float64, error) {
	if s, ok := b.sizes[img.Name]; ok {
		return s[0], s[1], nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return 0, 0, fmt.Errorf("record: image %s: %w", img.Name, err)
	}
	s := [2]float64{float64(cfg.Width), float64(cfg.Height)}
	b.sizes[img.Name] = s
	return s[0], s[1], nil
}

// MeasureText treats every rune as GlyphWidth times the font size wide.
func (b *Backend) MeasureText(style render.TextStyle, text string) float64 {
	return float64(utf8.RuneCountInString(text)) * style.Size * GlyphWidth
}

func (b *Backend) SetMargins(m render.Insets) { b.Margins = append(b.Margins, m) }

func (b *Backend) AddPage() { b.pages++ }

// PageCount includes a dropped page until Output.
func (b *Backend) PageCount() int { return b.pages }

func (b *Backend) checkPage(n int) error {
	if n < 1 || n > b.pages {
		return fmt.Errorf("record: page %d out of range [1, %d]", n, b.pages)
	}
	return nil
}

func (b *Backend) DrawText(t *render.Text) error {
	if err := b.checkPage(t.Page); err != nil {
		return err
	}
	b.Texts = append(b.Texts, t)
	return nil
}

func (b *Backend) DrawImage(p *render.ImagePlacement) error {
	if err := b.checkPage(p.Page); err != nil {
		return err
	}
	b.Images = append(b.Images, p)
	return nil
}

func (b *Backend) DrawLine(s *render.Stroke) error {
	if err := b.checkPage(s.Page); err != nil {
		return err
	}
	b.Strokes = append(b.Strokes, s)
	return nil
}

// DrawTable records t without laying it out, so flow tables never break.
func (b *Backend) DrawTable(t *render.Table) error {
	page := t.Page
	if page == 0 {
		if b.pages == 0 {
			b.AddPage()
		}
		page = b.pages
	}
	if err := b.checkPage(page); err != nil {
		return err
	}
	b.Tables = append(b.Tables, TableCall{Table: t, StartPage: page})
	return nil
}

func (b *Backend) DropLastPage() error {
	if b.pages < 2 {
		return fmt.Errorf("record: cannot drop the only page")
	}
	b.dropped = true
	return nil
}

// Dropped reports whether the last page was dropped.
func (b *Backend) Dropped() bool { return b.dropped }

// Pages is the number of pages the output contains.
func (b *Backend) Pages() int {
	if b.dropped {
		return b.pages - 1
	}
	return b.pages
}

// TextsOn returns the texts drawn on page n in order.
func (b *Backend) TextsOn(n int) []*render.Text {
	var out []*render.Text
	for _, t := range b.Texts {
		if t.Page == n {
			out = append(out, t)
		}
	}
	return out
}

// Output writes one line per page followed by its commands.
func (b *Backend) Output(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "pages: %d\n", b.Pages())
	for p := 1; p <= b.Pages(); p++ {
		fmt.Fprintf(&buf, "page %d\n", p)
		for _, t := range b.Texts {
			if t.Page == p {
				fmt.Fprintf(&buf, "  text  (%.2f, %.2f) w=%.2f %q\n", t.X, t.Y, t.Width, t.Plain())
			}
		}
		for _, im := range b.Images {
			if im.Page == p {
				fmt.Fprintf(&buf, "  image (%.2f, %.2f) %.2fx%.2f %s\n", im.X, im.Y, im.Width, im.Height, im.Image.Name)
			}
		}
		for _, s := range b.Strokes {
			if s.Page == p {
				fmt.Fprintf(&buf, "  line  (%.2f-%.2f, %.2f) w=%.2f\n", s.X1, s.X2, s.Y, s.Width)
			}
		}
		for _, tc := range b.Tables {
			if tc.StartPage == p {
				rows := 0
				for _, s := range tc.Table.Sections {
					rows += len(s.Rows)
				}
				fmt.Fprintf(&buf, "  table sections=%d rows=%d\n", len(tc.Table.Sections), rows)
			}
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

var _ render.Backend = (*Backend)(nil)
