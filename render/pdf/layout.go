package pdf

import (
	"strings"
	"unicode/utf8"

	"github.com/wosatec/PDF-Generator/render"
)

// piece is a word (with any trailing space) set in one style.
type piece struct {
	text  string
	style render.TextStyle
	w     float64
}

type line []piece

// width is the line's extent without trailing whitespace.
func (b *Backend) lineWidth(l line) float64 {
	var w float64
	for i, p := range l {
		if i == len(l)-1 {
			w += b.MeasureText(p.style, strings.TrimRight(p.text, " "))
			break
		}
		w += p.w
	}
	return w
}

// layout breaks runs into lines no wider than width. Newlines force a break;
// words wider than a whole line are split between runes.
func (b *Backend) layout(runs []render.Run, width float64) []line {
	var (
		lines []line
		cur   line
		curW  float64
	)
	flush := func() {
		lines = append(lines, cur)
		cur, curW = nil, 0
	}

	for _, run := range runs {
		for i, part := range strings.Split(run.Text, "\n") {
			if i > 0 {
				flush()
			}
			for _, word := range strings.SplitAfter(part, " ") {
				if word == "" {
					continue
				}
				w := b.MeasureText(run.Style, word)
				bare := b.MeasureText(run.Style, strings.TrimRight(word, " "))
				if len(cur) > 0 && curW+bare > width {
					flush()
				}
				for len(cur) == 0 && bare > width && utf8.RuneCountInString(word) > 1 {
					head, tail := b.splitWord(run.Style, word, width)
					cur = append(cur, piece{text: head, style: run.Style, w: b.MeasureText(run.Style, head)})
					flush()
					word = tail
					w = b.MeasureText(run.Style, word)
					bare = b.MeasureText(run.Style, strings.TrimRight(word, " "))
				}
				cur = append(cur, piece{text: word, style: run.Style, w: w})
				curW += w
			}
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitWord returns the longest prefix of word (at least one rune) that fits
// width, and the rest.
func (b *Backend) splitWord(style render.TextStyle, word string, width float64) (string, string) {
	cut := 0
	for i := range word {
		if i == 0 {
			continue
		}
		if b.MeasureText(style, word[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return word[:cut], word[cut:]
}

// writeLines draws laid out lines from the top-left corner (x, y).
func (b *Backend) writeLines(lines []line, x, y, width, lineHeight float64, align render.Align, c render.Color) {
	if c.Transparent() {
		return
	}
	b.pdf.SetAlpha(c.Alpha, "Normal")
	b.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	for i, l := range lines {
		cx := x
		switch align {
		case render.AlignCenter:
			cx += (width - b.lineWidth(l)) / 2
		case render.AlignRight:
			cx += width - b.lineWidth(l)
		}
		ly := y + float64(i)*lineHeight
		for _, p := range l {
			b.setFont(p.style)
			b.pdf.SetXY(cx, ly)
			b.pdf.CellFormat(p.w, lineHeight, b.encode(p.style, p.text), "", 0, "L", false, 0, "")
			cx += p.w
		}
	}
	b.pdf.SetAlpha(1, "Normal")
}

// textHeight is the height of text laid out at width.
func (b *Backend) textHeight(runs []render.Run, width, lineHeight float64) float64 {
	return float64(len(b.layout(runs, width))) * lineHeight
}
