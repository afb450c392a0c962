package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ElementType is the integer discriminator of a visual element.
type ElementType int

const (
	TypeTextLine  ElementType = 1
	TypeTextBlock ElementType = 2
	TypeImage     ElementType = 3
	TypeTable     ElementType = 4
	TypeLine      ElementType = 5
	TypeAreaBreak ElementType = 6
)

func (t ElementType) String() string {
	switch t {
	case TypeTextLine:
		return "TextLine"
	case TypeTextBlock:
		return "TextBlock"
	case TypeImage:
		return "Image"
	case TypeTable:
		return "Table"
	case TypeLine:
		return "Line"
	case TypeAreaBreak:
		return "AreaBreak"
	}
	return "ElementType(" + strconv.Itoa(int(t)) + ")"
}

// ExpandMode decides the width of a text element declared with width 0.
type ExpandMode int

const (
	// ExpandFull stretches the element to the page content width.
	ExpandFull ExpandMode = 1
	// ExpandFitContent sizes the element to its measured text.
	ExpandFitContent ExpandMode = 2
)

func (m ExpandMode) String() string {
	switch m {
	case ExpandFull:
		return "Full"
	case ExpandFitContent:
		return "FitContent"
	}
	return "ExpandMode(" + strconv.Itoa(int(m)) + ")"
}

// UnmarshalJSON accepts 1, 2, "full" or "fitContent".
func (m *ExpandMode) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "expandMode", map[string]int{"full": 1, "fitcontent": 2})
	if err != nil {
		return err
	}
	*m = ExpandMode(v)
	return nil
}

// TextAlign is the horizontal alignment of text within its box.
type TextAlign int

const (
	AlignLeft   TextAlign = 1
	AlignCenter TextAlign = 2
	AlignRight  TextAlign = 3
)

func (a TextAlign) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	}
	return "TextAlign(" + strconv.Itoa(int(a)) + ")"
}

// UnmarshalJSON accepts 1..3 or "left", "center", "right".
func (a *TextAlign) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "textAlign", map[string]int{"left": 1, "center": 2, "right": 3})
	if err != nil {
		return err
	}
	*a = TextAlign(v)
	return nil
}

// decodeEnum reads either an integer contained in names' values or one of the
// names (case-insensitive).
func decodeEnum(data []byte, field string, names map[string]int) (int, error) {
	valid := func(n int) bool {
		for _, v := range names {
			if v == n {
				return true
			}
		}
		return false
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !valid(n) {
			return 0, fmt.Errorf("%w: %s %d", ErrUnsupportedValue, field, n)
		}
		return n, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("%w: %s %s", ErrUnsupportedValue, field, string(data))
	}
	n, ok := names[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnsupportedValue, field, s)
	}
	return n, nil
}
