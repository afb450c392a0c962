// Package template defines the declarative document template: named colors
// and fonts, the repeatable pages with their visual elements, and the
// header/footer/draft overlays.
//
// A template is split across one document-level file and one or more page
// files. Both are JSON (or YAML):
//
//	{
//	  "colors": {"default": [0, 0, 0], "accent": [200, 30, 30, 128]},
//	  "fonts": {"default": "fonts/Inter-Regular.ttf"},
//	  "footer": {"startsAtPage": 2, "elements": [ ... ]}
//	}
//
//	{
//	  "contentKey": "invoices",
//	  "margin": {"top": 10, "left": 10, "right": 10, "bottom": 10},
//	  "elements": [
//	    {"type": 2, "position": {"top": 10, "left": 10}, "contentKey": "title"}
//	  ]
//	}
//
// All lengths are millimeters. A width or height of 0 means "derive from
// context".
package template

// Template is the fully loaded document definition.
// It is built once by Load and not modified afterwards.
type Template struct {
	Colors map[string]Color  `json:"colors,omitempty"`
	Fonts  map[string]string `json:"fonts,omitempty"`
	Header *Overlay          `json:"header,omitempty"`
	Footer *Overlay          `json:"footer,omitempty"`
	Draft  *Overlay          `json:"draft,omitempty"`
	Pages  []*Page           `json:"pages,omitempty"` // merged from page files
}

// Page is one repeatable unit of layout. ContentKey selects the sequence of
// per-page records in the data document; every record produces at least one
// physical page.
type Page struct {
	ContentKey string   `json:"contentKey"`
	Margin     Margin   `json:"margin"`
	Elements   Elements `json:"elements"`
}

// Overlay is a header, footer or draft layer drawn over a range of physical
// pages after the body has been composed. StartsAtPage is 1-based and ignored
// for drafts.
type Overlay struct {
	StartsAtPage int      `json:"startsAtPage,omitempty"`
	Elements     Elements `json:"elements"`
}

// Margin defines the four edge insets of a page or table.
type Margin struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Position is the top-left anchor of an element, measured from the page's
// content area.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Padding is the inner spacing of a table cell.
type Padding struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// DefaultPadding is applied to row formats that do not specify one.
func DefaultPadding() Padding {
	return Padding{Top: 0.5, Left: 0.5, Right: 0.5, Bottom: 0.5}
}

// BorderColors names a color per cell edge.
type BorderColors struct {
	Top    string `json:"top"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
}

// Well-known registry keys.
const (
	DefaultFont       = "default"
	DefaultIconFont   = "default-icon"
	DefaultColor      = "default"
	DefaultBackground = "default-background"
)

// TextFormat describes how text is set.
type TextFormat struct {
	Size       float64   `json:"size"`
	Font       string    `json:"font"`
	FontBold   bool      `json:"fontBold"`
	FontItalic bool      `json:"fontItalic"`
	Color      string    `json:"color"`
	Background string    `json:"background"`
	TextAlign  TextAlign `json:"textAlign"`
}

// DefaultTextFormat returns the format used for any field a template omits.
func DefaultTextFormat() TextFormat {
	return TextFormat{
		Size:       10,
		Font:       DefaultFont,
		Color:      DefaultColor,
		Background: DefaultBackground,
		TextAlign:  AlignLeft,
	}
}

// RowFormat extends TextFormat with cell borders and padding.
type RowFormat struct {
	TextFormat
	BorderColors    BorderColors `json:"borderColors"`
	BorderThickness float64      `json:"borderThickness"` // points
	Padding         Padding      `json:"padding"`
}

// DefaultRowFormat returns the format used for table rows a template omits.
func DefaultRowFormat() RowFormat {
	return RowFormat{
		TextFormat: DefaultTextFormat(),
		Padding:    DefaultPadding(),
	}
}
