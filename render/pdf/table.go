package pdf

import (
	"fmt"
	"math"

	"github.com/wosatec/PDF-Generator/render"
)

// image cells leave this much room inside the declared row height
const imageCellInset = 4

// tableState is the position of a table being drawn.
type tableState struct {
	t      *render.Table
	y      float64
	bottom float64
	fixed  bool
	empty  bool // nothing drawn above y on the current page
}

// DrawTable draws the sections of t one below the other. In flow mode a row
// that does not fit the remaining page starts a new page, on which the
// spacer and the current section's header row are repeated first.
func (b *Backend) DrawTable(t *render.Table) error {
	if len(t.Sections) == 0 {
		return nil
	}
	if b.pdf.PageCount() == 0 {
		b.AddPage()
	}

	st := &tableState{t: t, bottom: b.h - b.margins.Bottom, empty: b.fresh}
	last := b.pdf.PageCount()
	if t.Page > 0 {
		if t.Page > last {
			return fmt.Errorf("pdf: table page %d out of range [1, %d]", t.Page, last)
		}
		b.pdf.SetPage(t.Page)
		st.fixed = true
		st.empty = true
		st.y = b.margins.Top
	} else {
		st.y = b.flowY
	}
	st.y += t.MarginTop + t.Spacer

	for i, sec := range t.Sections {
		if i > 0 {
			st.y += t.SectionGap
		}
		b.drawSection(st, sec)
	}

	if st.fixed {
		b.pdf.SetPage(last)
	} else {
		b.flowY = st.y + t.MarginBottom
		b.fresh = false
	}
	b.pdf.SetAlpha(1, "Normal")
	if b.pdf.Err() {
		err := b.pdf.Error()
		b.pdf.ClearError()
		return fmt.Errorf("pdf: table: %w", err)
	}
	return nil
}

func (b *Backend) drawSection(st *tableState, sec *render.TableSection) {
	widths := calculateWidths(sec.Columns, st.t.Width)
	if len(widths) == 0 {
		return
	}

	var headerH float64
	if sec.Header != nil {
		headerH = b.calculateRowHeight(sec.Header, widths)
	}

	// The header stays with the first row.
	first := headerH
	if len(sec.Rows) > 0 {
		first += b.blockHeight(sec.Rows[0], widths)
	}
	if b.overflows(st, first) {
		b.breakTable(st)
	}
	b.drawHeader(st, sec, widths, headerH)

	for _, row := range sec.Rows {
		h := b.blockHeight(row, widths)
		if b.overflows(st, h) {
			b.breakTable(st)
			b.drawHeader(st, sec, widths, headerH)
		}
		b.renderRow(row, widths, st.t.X, st.y)
		st.y += h
		st.empty = false
	}
}

// overflows reports whether h more units would pass the bottom margin of a
// page that already holds content. Content taller than a whole page is drawn
// where it starts.
func (b *Backend) overflows(st *tableState, h float64) bool {
	return !st.fixed && !st.empty && st.y+h > st.bottom
}

func (b *Backend) drawHeader(st *tableState, sec *render.TableSection, widths []float64, h float64) {
	if sec.Header == nil {
		return
	}
	b.renderCells(sec.Header, widths, st.t.X, st.y, h)
	st.y += h
	st.empty = false
}

func (b *Backend) breakTable(st *tableState) {
	b.log.WithField("page", b.pdf.PageCount()+1).Debug("Table continues on a new page.")
	b.AddPage()
	st.y = b.margins.Top + st.t.Spacer
	st.empty = true
}

// calculateWidths scales relative column widths to total.
func calculateWidths(rel []float64, total float64) []float64 {
	if len(rel) == 0 {
		return nil
	}
	var sum float64
	for _, w := range rel {
		if w > 0 {
			sum += w
		}
	}
	widths := make([]float64, len(rel))
	for i, w := range rel {
		switch {
		case sum == 0:
			widths[i] = total / float64(len(rel))
		case w > 0:
			widths[i] = total * w / sum
		}
	}
	return widths
}

// blockHeight is the height of a row together with its extra lines.
func (b *Backend) blockHeight(r *render.TableRow, widths []float64) float64 {
	h := b.calculateRowHeight(r, widths)
	for _, e := range r.Extra {
		h += b.extraLineHeight(r, e, sum(widths))
	}
	return h
}

// calculateRowHeight is the tallest cell of the row, at least MinHeight.
func (b *Backend) calculateRowHeight(r *render.TableRow, widths []float64) float64 {
	maxH := r.MinHeight
	pad := r.Style.Padding
	for i, w := range widths {
		if i >= len(r.Cells) {
			break
		}
		cell := r.Cells[i]
		contentW := math.Max(w-pad.Left-pad.Right, 1)

		var h float64
		if cell.Image != nil {
			_, h = b.cellImageSize(cell.Image, contentW, r.MinHeight)
		} else {
			runs := []render.Run{{Text: cell.Text, Style: r.Style.Text}}
			h = b.textHeight(runs, contentW, r.Style.Text.Size)
		}
		if h += pad.Top + pad.Bottom; h > maxH {
			maxH = h
		}
	}
	return maxH
}

// cellImageSize fits an image into the cell's content width and, when the
// row declares a height, into that height less an inset.
func (b *Backend) cellImageSize(img *render.Image, contentW, rowH float64) (float64, float64) {
	w, h, err := b.RegisterImage(img)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := contentW / w
	if rowH > imageCellInset {
		scale = math.Min(scale, (rowH-imageCellInset)/h)
	}
	return w * scale, h * scale
}

func (b *Backend) extraColumns(r *render.TableRow, total float64) (float64, float64) {
	cols := calculateWidths(r.ExtraCols, total)
	if len(cols) < 2 {
		return total / 2, total / 2
	}
	return cols[0], total - cols[0]
}

func (b *Backend) extraLineHeight(r *render.TableRow, e render.ExtraLine, total float64) float64 {
	keyW, valW := b.extraColumns(r, total)
	pad := r.ExtraStyle.Padding
	size := r.ExtraStyle.Text.Size
	kh := b.textHeight([]render.Run{{Text: e.Key, Style: r.ExtraStyle.Text}}, math.Max(keyW-pad.Left-pad.Right, 1), size)
	vh := b.textHeight([]render.Run{{Text: e.Value, Style: r.ExtraStyle.Text}}, math.Max(valW-pad.Left-pad.Right, 1), size)
	return math.Max(kh, vh) + pad.Top + pad.Bottom
}

// renderRow draws a data row and the extra lines beneath it.
func (b *Backend) renderRow(r *render.TableRow, widths []float64, x, y float64) {
	h := b.calculateRowHeight(r, widths)
	b.renderCells(r, widths, x, y, h)
	y += h

	total := sum(widths)
	keyW, valW := b.extraColumns(r, total)
	st := r.ExtraStyle
	for _, e := range r.Extra {
		lh := b.extraLineHeight(r, e, total)
		b.fill(st.Background, x, y, total, lh)
		b.cellText(e.Key, st, x, y, keyW, lh)
		b.cellText(e.Value, st, x+keyW, y, valW, lh)
		y += lh
	}
}

// renderCells draws one line of cells with backgrounds, content and borders.
func (b *Backend) renderCells(r *render.TableRow, widths []float64, x, y, h float64) {
	st := r.Style
	for i, w := range widths {
		var cell render.Cell
		if i < len(r.Cells) {
			cell = r.Cells[i]
		}

		b.fill(st.Background, x, y, w, h)
		if cell.Image != nil {
			contentW := math.Max(w-st.Padding.Left-st.Padding.Right, 1)
			iw, ih := b.cellImageSize(cell.Image, contentW, r.MinHeight)
			if iw > 0 && ih > 0 {
				b.pdf.ImageOptions(cell.Image.Name, x+(w-iw)/2, y+(h-ih)/2, iw, ih, false,
					imageOptions(cell.Image), 0, "")
			}
		} else {
			b.cellText(cell.Text, st, x, y, w, h)
		}
		b.borders(st, x, y, w, h)
		x += w
	}
}

// cellText draws text vertically centred in a cell.
func (b *Backend) cellText(text string, st render.CellStyle, x, y, w, h float64) {
	if text == "" {
		return
	}
	contentW := math.Max(w-st.Padding.Left-st.Padding.Right, 1)
	lines := b.layout([]render.Run{{Text: text, Style: st.Text}}, contentW)
	lh := st.Text.Size
	inner := h - st.Padding.Top - st.Padding.Bottom
	ty := y + st.Padding.Top + (inner-float64(len(lines))*lh)/2
	b.writeLines(lines, x+st.Padding.Left, ty, contentW, lh, st.Align, st.Color)
}

func (b *Backend) borders(st render.CellStyle, x, y, w, h float64) {
	if st.BorderWidth <= 0 {
		return
	}
	b.stroke(st.Border.Top, st.BorderWidth, x, y, x+w, y)
	b.stroke(st.Border.Bottom, st.BorderWidth, x, y+h, x+w, y+h)
	b.stroke(st.Border.Left, st.BorderWidth, x, y, x, y+h)
	b.stroke(st.Border.Right, st.BorderWidth, x+w, y, x+w, y+h)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
