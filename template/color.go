package template

import (
	"encoding/json"
	"fmt"
)

// Color is an authored RGB color with an alpha byte. It is written as
// [r, g, b] (opaque) or [r, g, b, a] with every component in 0..255.
type Color struct {
	R, G, B, A uint8
}

// Opacity returns alpha as a fraction in [0, 1].
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

func (c *Color) UnmarshalJSON(data []byte) error {
	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: color %s", ErrUnsupportedValue, string(data))
	}
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("%w: color needs 3 or 4 components, got %d", ErrUnsupportedValue, len(parts))
	}
	for _, p := range parts {
		if p < 0 || p > 255 {
			return fmt.Errorf("%w: color component %d out of range", ErrUnsupportedValue, p)
		}
	}
	*c = Color{R: uint8(parts[0]), G: uint8(parts[1]), B: uint8(parts[2]), A: 255}
	if len(parts) == 4 {
		c.A = uint8(parts[3])
	}
	return nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	if c.A == 255 {
		return json.Marshal([]int{int(c.R), int(c.G), int(c.B)})
	}
	return json.Marshal([]int{int(c.R), int(c.G), int(c.B), int(c.A)})
}
