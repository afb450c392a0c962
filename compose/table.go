package compose

import (
	"fmt"
	"strings"

	"github.com/wosatec/PDF-Generator/geometry"
	"github.com/wosatec/PDF-Generator/query"
	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/resource"
	"github.com/wosatec/PDF-Generator/template"
)

// ExtraRowsKey is the reserved row key whose entries are drawn as key/value
// lines under the row instead of as a column.
const ExtraRowsKey = "extraRows"

// GroupGap separates the tables of a grouped table, in millimeters.
const GroupGap = 3.0

// table draws a flat table, or one table per group when ListKey is set.
// Grouped tables are only drawn for more than one group. A page of 0 lets
// the table flow from the current position.
func (c *Composer) table(el *template.Table, data *query.Value, page int) error {
	r := geometry.Place(el.Box, c.frame, c.conv)
	t := &render.Table{
		Page:         page,
		X:            c.frame.Margin.Left + (c.frame.ContentWidth()-r.Width)/2,
		Width:        r.Width,
		MarginTop:    c.conv.ToUnits(el.Margin.Top),
		MarginBottom: c.conv.ToUnits(el.Margin.Bottom),
		Spacer:       c.conv.ToUnits(el.Position.Top),
	}

	if strings.TrimSpace(el.ListKey) == "" {
		sec, err := c.tableSection(el, data)
		if err != nil {
			return err
		}
		t.Sections = []*render.TableSection{sec}
		return c.backend.DrawTable(t)
	}

	groups, err := query.FindNodeArray(data, el.ListKey)
	if err != nil {
		return err
	}
	if len(groups) < 2 {
		c.log.WithField("path", el.ListKey).Debug("Grouped table needs more than one group, skipped.")
		return nil
	}
	t.SectionGap = c.conv.ToUnits(GroupGap)
	for _, g := range groups {
		sec, err := c.tableSection(el, g)
		if err != nil {
			return err
		}
		t.Sections = append(t.Sections, sec)
	}
	return c.backend.DrawTable(t)
}

// tableSection builds the header and rows bound under data.
func (c *Composer) tableSection(el *template.Table, data *query.Value) (*render.TableSection, error) {
	sec := &render.TableSection{Columns: el.WidthList()}

	var cells int
	if strings.TrimSpace(el.HeaderKey) != "" {
		headers, err := query.FindStringArray(data, el.HeaderKey)
		if err != nil {
			return nil, err
		}
		sec.Header = &render.TableRow{Style: c.cellStyle(el.HeaderFormat)}
		for _, h := range headers {
			sec.Header.Cells = append(sec.Header.Cells, render.Cell{Text: h})
		}
		cells = len(headers)
	}

	records, err := query.FindNodeArray(data, el.ContentKey)
	if err != nil {
		return nil, err
	}
	rowStyle := c.cellStyle(el.RowFormat)
	extraStyle := c.extraStyle(el)
	for _, rec := range records {
		if rec.IsNull() {
			continue
		}
		fields, err := query.AsObject(rec)
		if err != nil {
			return nil, fmt.Errorf("compose: table row under %q: %w", el.ContentKey, err)
		}
		row := &render.TableRow{
			MinHeight:  c.conv.ToUnits(el.RowHeight()),
			Style:      rowStyle,
			ExtraStyle: extraStyle,
			ExtraCols:  el.ExtraRowsWidthList(),
		}
		if err := c.fillRow(row, fields); err != nil {
			return nil, err
		}
		cells = max(cells, len(row.Cells))
		sec.Rows = append(sec.Rows, row)
	}

	if len(sec.Columns) == 0 {
		for i := 0; i < cells; i++ {
			sec.Columns = append(sec.Columns, 1)
		}
	}
	return sec, nil
}

// fillRow turns the fields of a record into cells, in source order.
func (c *Composer) fillRow(row *render.TableRow, fields *query.Value) error {
	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		if key == ExtraRowsKey {
			pairs, err := query.AsStringMap(v)
			if err != nil {
				return fmt.Errorf("compose: %s: %w", ExtraRowsKey, err)
			}
			for _, p := range pairs {
				row.Extra = append(row.Extra, render.ExtraLine{Key: p.Key, Value: p.Value})
			}
			continue
		}
		cell, err := c.cell(key, v)
		if err != nil {
			return err
		}
		row.Cells = append(row.Cells, cell)
	}
	return nil
}

func (c *Composer) cell(key string, v *query.Value) (render.Cell, error) {
	switch v.Kind() {
	case query.Null:
		return render.Cell{}, nil
	case query.String:
		s, _ := v.Str()
		return render.Cell{Text: s}, nil
	case query.Array:
		lines, err := query.AsStrings(v)
		if err != nil {
			return render.Cell{}, fmt.Errorf("%w: %s: %w", ErrUnsupportedCell, key, err)
		}
		return render.Cell{Text: strings.Join(lines, "\n")}, nil
	case query.Object:
		desc, err := resource.AsImageDescriptor(v)
		if err != nil {
			return render.Cell{}, err
		}
		img, err := c.images.Resolve(desc)
		if err != nil {
			return render.Cell{}, err
		}
		return render.Cell{Image: img}, nil
	}
	return render.Cell{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedCell, key, v.Kind())
}

func (c *Composer) cellStyle(f template.RowFormat) render.CellStyle {
	return render.CellStyle{
		Text:       c.textStyle(f.TextFormat),
		Align:      align(f.TextAlign),
		Color:      c.colors.Foreground(f.Color),
		Background: c.colors.Background(f.Background),
		Border: render.Borders{
			Top:    c.colors.Foreground(f.BorderColors.Top),
			Left:   c.colors.Foreground(f.BorderColors.Left),
			Right:  c.colors.Foreground(f.BorderColors.Right),
			Bottom: c.colors.Foreground(f.BorderColors.Bottom),
		},
		BorderWidth: f.BorderThickness,
		Padding:     c.padding(f.Padding),
	}
}

// extraStyle sets extra lines in the default face at the row size, colored
// by the extra row format.
func (c *Composer) extraStyle(el *template.Table) render.CellStyle {
	f := el.ExtraRowFormat
	return render.CellStyle{
		Text:       render.TextStyle{Font: c.fonts.Face(template.DefaultFont), Size: el.RowFormat.Size},
		Color:      c.colors.Foreground(f.Color),
		Background: c.colors.Background(f.Background),
		Padding:    c.padding(f.Padding),
	}
}

func (c *Composer) padding(p template.Padding) render.Insets {
	return render.Insets{
		Top:    c.conv.ToUnits(p.Top),
		Left:   c.conv.ToUnits(p.Left),
		Right:  c.conv.ToUnits(p.Right),
		Bottom: c.conv.ToUnits(p.Bottom),
	}
}
