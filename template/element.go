package template

import (
	"encoding/json"
	"fmt"
)

// Element is a positioned visual element. The set of implementations is
// closed: *TextLine, *TextBlock, *Image, *Table, *Line and *AreaBreak.
// Callers dispatch with a type switch and treat any other value as
// ErrUnknownElementType.
type Element interface {
	Type() ElementType
	Bounds() Box
	element()
}

// Box carries the geometry shared by all elements, in millimeters.
type Box struct {
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// Bounds returns the element's authored geometry.
func (b Box) Bounds() Box { return b }

func (Box) element() {}

// TextLine renders a sequence of short tokens inline, joined by a space.
// Single-rune tokens in the private use area above U+F000 are set in the
// icon font.
type TextLine struct {
	Box
	ContentKey     string     `json:"contentKey"`
	FirstTokenBold bool       `json:"firstTokenBold"`
	ExpandMode     ExpandMode `json:"expandMode"`
	Format         TextFormat `json:"format"`
	Truncate       bool       `json:"truncate"`
}

func (*TextLine) Type() ElementType { return TypeTextLine }

// TextBlock renders a sequence of lines joined by newlines.
type TextBlock struct {
	Box
	ContentKey string     `json:"contentKey"`
	ExpandMode ExpandMode `json:"expandMode"`
	Format     TextFormat `json:"format"`
	Truncate   bool       `json:"truncate"`
}

func (*TextBlock) Type() ElementType { return TypeTextBlock }

// Image places a picture described by an image descriptor in the data.
// MaxWidth and MaxHeight clamp the placed size; 0 leaves it unclamped.
type Image struct {
	Box
	ContentKey string  `json:"contentKey"`
	MaxWidth   float64 `json:"maxWidth"`
	MaxHeight  float64 `json:"maxHeight"`
}

func (*Image) Type() ElementType { return TypeImage }

// Column is one table column: a relative width and the minimum content
// height of its cells.
type Column struct {
	Width   float64       `json:"width"`
	Content ColumnContent `json:"content"`
}

// ColumnContent holds per-column cell sizing.
type ColumnContent struct {
	Height float64 `json:"height"`
}

// Table renders rows bound from ContentKey under a header bound from
// HeaderKey. When ListKey is set the table is repeated once per group found
// there, and the groups are stacked in a borderless wrapper.
type Table struct {
	Box
	ListKey        string     `json:"listKey"`
	ContentKey     string     `json:"contentKey"`
	HeaderKey      string     `json:"headerKey"`
	HeaderFormat   RowFormat  `json:"headerFormat"`
	RowFormat      RowFormat  `json:"rowFormat"`
	ExtraRowFormat RowFormat  `json:"extraRowFormat"`
	Margin         Margin     `json:"margin"`
	Columns        []Column   `json:"columns"`
	ExtraRows      [][]Column `json:"extraRows"`
}

func (*Table) Type() ElementType { return TypeTable }

// WidthList returns the relative column widths in declaration order.
func (t *Table) WidthList() []float64 {
	out := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Width
	}
	return out
}

// RowHeight is the tallest declared column content height, in millimeters.
func (t *Table) RowHeight() float64 {
	var h float64
	for _, c := range t.Columns {
		if c.Content.Height > h {
			h = c.Content.Height
		}
	}
	return h
}

// ExtraRowsWidthList flattens the widths of all extra row definitions.
func (t *Table) ExtraRowsWidthList() []float64 {
	var out []float64
	for _, row := range t.ExtraRows {
		for _, c := range row {
			out = append(out, c.Width)
		}
	}
	return out
}

// Line draws a horizontal stroke whose thickness is the element height.
type Line struct {
	Box
	Color string `json:"color"`
}

func (*Line) Type() ElementType { return TypeLine }

// AreaBreak forces a page break.
type AreaBreak struct {
	Box
}

func (*AreaBreak) Type() ElementType { return TypeAreaBreak }

// newElement returns an empty variant for t with every default applied, so
// that decoding only overrides what the source spells out.
func newElement(t ElementType) (Element, error) {
	switch t {
	case TypeTextLine:
		return &TextLine{ExpandMode: ExpandFull, Format: DefaultTextFormat()}, nil
	case TypeTextBlock:
		return &TextBlock{ExpandMode: ExpandFull, Format: DefaultTextFormat()}, nil
	case TypeImage:
		return &Image{}, nil
	case TypeTable:
		return &Table{
			HeaderFormat:   DefaultRowFormat(),
			RowFormat:      DefaultRowFormat(),
			ExtraRowFormat: DefaultRowFormat(),
		}, nil
	case TypeLine:
		return &Line{Color: DefaultColor}, nil
	case TypeAreaBreak:
		return &AreaBreak{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownElementType, int(t))
}

// Elements is an ordered element list decoded from a JSON array whose entries
// carry an integer "type" discriminator.
type Elements []Element

// UnmarshalJSON reads each entry's "type" before decoding the rest of the
// entry into the matching variant.
func (es *Elements) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Elements, 0, len(raws))
	for i, raw := range raws {
		var probe struct {
			Type *int `json:"type"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if probe.Type == nil {
			return fmt.Errorf("element %d: %w: missing type", i, ErrUnknownElementType)
		}

		el, err := newElement(ElementType(*probe.Type))
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, el); err != nil {
			return fmt.Errorf("element %d (%s): %w", i, el.Type(), err)
		}
		out = append(out, el)
	}
	*es = out
	return nil
}

// MarshalJSON writes each element with its "type" discriminator.
func (es Elements) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(es))
	for _, el := range es {
		body, err := json.Marshal(el)
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		fields["type"] = json.RawMessage(fmt.Sprint(int(el.Type())))
		body, err = json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	return json.Marshal(out)
}
