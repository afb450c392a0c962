// Package render defines the drawing surface that composed documents are
// emitted to, and the commands issued against it.
//
// All coordinates are device units with a top-left origin, as used by the
// PDF backend. Fixed-position commands name their 1-based physical page
// explicitly; tables are flow content and are laid out by the backend from
// its current flow position, breaking onto new pages as needed.
package render

import (
	"io"
	"strings"
)

// Backend is implemented by drawing surfaces.
type Backend interface {
	// PageSize returns the page width and height in device units.
	PageSize() (w, h float64)

	// RegisterFont makes f available to later commands.
	RegisterFont(f *Font) error

	// RegisterImage makes img available and returns its intrinsic size in
	// device units. Registering the same image name twice is a no-op.
	RegisterImage(img *Image) (w, h float64, err error)

	// MeasureText returns the width of a single line of text.
	MeasureText(style TextStyle, text string) float64

	// SetMargins sets the page margins used by flow content on the current
	// and following pages.
	SetMargins(m Insets)

	// AddPage appends a page and moves the flow position to its top.
	AddPage()

	// PageCount returns the number of pages created so far.
	PageCount() int

	DrawText(t *Text) error
	DrawImage(p *ImagePlacement) error
	DrawLine(s *Stroke) error

	// DrawTable lays a table out as flow content, or, when t.Page is set,
	// at the top of that page's content area without breaking.
	DrawTable(t *Table) error

	// DropLastPage removes the last page from the output.
	DropLastPage() error

	// Output writes the finished document.
	Output(w io.Writer) error
}

// Color is an RGB color with opacity in [0, 1]. A zero Alpha draws nothing.
type Color struct {
	R, G, B uint8
	Alpha   float64
}

// Black is opaque black.
var Black = Color{Alpha: 1}

// Transparent reports whether drawing with c has no visible effect.
func (c Color) Transparent() bool { return c.Alpha <= 0 }

// Insets are edge distances in device units.
type Insets struct {
	Top, Left, Right, Bottom float64
}

// Font is a registered typeface. Core faces are built into the backend and
// carry no data.
type Font struct {
	Key    string // registry key
	Family string // family name used by the backend
	Name   string // descriptive name read from the font file
	Data   []byte
	Core   bool
}

// Image is an encoded picture ready for embedding. Format is one of "png",
// "jpg" or "gif".
type Image struct {
	Name   string
	Format string
	Data   []byte
}

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the single-letter alignment code used by the PDF backend.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	}
	return "L"
}

// TextStyle selects a face and size.
type TextStyle struct {
	Font   *Font
	Bold   bool
	Italic bool
	Size   float64 // points
}

// FontStyle returns the gofpdf style string for s.
func (s TextStyle) FontStyle() string {
	var b strings.Builder
	if s.Bold {
		b.WriteByte('B')
	}
	if s.Italic {
		b.WriteByte('I')
	}
	return b.String()
}

// Run is a span of text set in a single style.
type Run struct {
	Text  string
	Style TextStyle
}

// Text is a fixed-position paragraph. Its top edge sits at Y; lines wrap at
// Width and are LineHeight apart.
type Text struct {
	Page       int
	X, Y       float64
	Width      float64
	LineHeight float64
	Runs       []Run
	Align      Align
	Color      Color
	Background Color
}

// Plain returns the concatenated text of all runs.
func (t *Text) Plain() string {
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// ImagePlacement draws a registered image into a box.
type ImagePlacement struct {
	Page          int
	Image         *Image
	X, Y          float64
	Width, Height float64
}

// Stroke is a horizontal line from X1 to X2 at Y.
type Stroke struct {
	Page   int
	X1, X2 float64
	Y      float64
	Width  float64
	Color  Color
}

// Table is a sequence of table sections drawn one below the other inside a
// common wrapper. The leading spacer and every section's header row repeat at
// the top of each page the table continues on.
type Table struct {
	Page         int // 0 for flow content
	X, Width     float64
	MarginTop    float64
	MarginBottom float64
	Spacer       float64
	SectionGap   float64
	Sections     []*TableSection
}

// TableSection is one grid of rows with shared column widths.
type TableSection struct {
	Columns []float64 // relative widths
	Header  *TableRow
	Rows    []*TableRow
}

// TableRow is a row of cells plus optional key/value lines appended under it.
// A row and its extra lines are never split across pages.
type TableRow struct {
	Cells      []Cell
	MinHeight  float64
	Style      CellStyle
	Extra      []ExtraLine
	ExtraStyle CellStyle
	ExtraCols  []float64 // relative widths of the key and value columns
}

// Cell holds either text or an image. An empty cell has neither.
type Cell struct {
	Text  string
	Image *Image
}

// ExtraLine is a key/value line rendered under a data row.
type ExtraLine struct {
	Key, Value string
}

// CellStyle is the visual format of a row's cells.
type CellStyle struct {
	Text        TextStyle
	Align       Align
	Color       Color
	Background  Color
	Border      Borders
	BorderWidth float64
	Padding     Insets
}

// Borders holds one color per cell edge.
type Borders struct {
	Top, Left, Right, Bottom Color
}
