package compose

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/wosatec/PDF-Generator/geometry"
	"github.com/wosatec/PDF-Generator/query"
	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/template"
)

// LineSpacing is the line height as a multiple of the font size.
const LineSpacing = 1.25

// single runes above this code point are icon glyphs
const iconRangeStart = 0xF000

func (c *Composer) textStyle(f template.TextFormat) render.TextStyle {
	return render.TextStyle{
		Font:   c.fonts.Face(f.Font),
		Bold:   f.FontBold,
		Italic: f.FontItalic,
		Size:   f.Size,
	}
}

func align(a template.TextAlign) render.Align {
	switch a {
	case template.AlignCenter:
		return render.AlignCenter
	case template.AlignRight:
		return render.AlignRight
	}
	return render.AlignLeft
}

// isIcon reports whether token is a single private use glyph.
func isIcon(token string) bool {
	r, size := utf8.DecodeRuneInString(token)
	return size > 0 && size == len(token) && r > iconRangeStart
}

func (c *Composer) textBlock(el *template.TextBlock, data *query.Value, page int) error {
	lines, err := query.FindStringArray(data, el.ContentKey)
	if err != nil {
		return err
	}
	text := norm.NFC.String(strings.Join(lines, "\n"))

	style := c.textStyle(el.Format)
	width := c.textWidth(el.Box, el.ExpandMode, []render.Run{{Text: text, Style: style}})
	if el.Truncate {
		text = geometry.Truncate(text, width, func(s string) float64 {
			return c.widestLine([]render.Run{{Text: s, Style: style}})
		})
	}
	return c.drawText(el.Box, el.Format, width, []render.Run{{Text: text, Style: style}}, page)
}

func (c *Composer) textLine(el *template.TextLine, data *query.Value, page int) error {
	tokens, err := query.FindStringArray(data, el.ContentKey)
	if err != nil {
		return err
	}
	for i, tok := range tokens {
		tokens[i] = norm.NFC.String(tok)
	}

	style := c.textStyle(el.Format)
	width := c.textWidth(el.Box, el.ExpandMode, c.tokenRuns(tokens, style, el.FirstTokenBold))
	if el.Truncate {
		joined := strings.Join(tokens, " ")
		cut := geometry.Truncate(joined, width, func(s string) float64 {
			return c.widestLine(c.tokenRuns(cutTokens(tokens, len(s)), style, el.FirstTokenBold))
		})
		tokens = cutTokens(tokens, len(cut))
	}
	return c.drawText(el.Box, el.Format, width, c.tokenRuns(tokens, style, el.FirstTokenBold), page)
}

// tokenRuns sets tokens apart by single spaces. Icon tokens use the icon
// face; the first token may be emphasized.
func (c *Composer) tokenRuns(tokens []string, style render.TextStyle, firstBold bool) []render.Run {
	runs := make([]render.Run, 0, 2*len(tokens))
	for i, tok := range tokens {
		s := style
		if isIcon(tok) {
			s.Font = c.fonts.Icon()
		}
		if i == 0 && firstBold {
			s.Bold = true
		} else if i > 0 {
			runs = append(runs, render.Run{Text: " ", Style: style})
		}
		runs = append(runs, render.Run{Text: tok, Style: s})
	}
	return runs
}

// cutTokens keeps the first n bytes of the space-joined tokens.
func cutTokens(tokens []string, n int) []string {
	var out []string
	for _, tok := range tokens {
		if n <= 0 {
			break
		}
		if len(tok) > n {
			out = append(out, tok[:n])
			break
		}
		out = append(out, tok)
		n -= len(tok) + 1
	}
	return out
}

// textWidth is the authored width, the content width, or for FitContent
// elements without a width the widest line plus padding. Truncation measures
// against the same width, so a zero width never empties the text.
func (c *Composer) textWidth(box template.Box, mode template.ExpandMode, runs []render.Run) float64 {
	if box.Width == 0 && mode == template.ExpandFitContent {
		return c.widestLine(runs) + geometry.FitContentPadding
	}
	return geometry.Place(box, c.frame, c.conv).Width
}

// widestLine measures runs as unwrapped lines split at newlines.
func (c *Composer) widestLine(runs []render.Run) float64 {
	var widest, cur float64
	for _, r := range runs {
		for i, part := range strings.Split(r.Text, "\n") {
			if i > 0 {
				cur = 0
			}
			cur += c.backend.MeasureText(r.Style, part)
			widest = max(widest, cur)
		}
	}
	return widest
}

func (c *Composer) drawText(box template.Box, f template.TextFormat, width float64, runs []render.Run, page int) error {
	r := geometry.Place(box, c.frame, c.conv)
	return c.backend.DrawText(&render.Text{
		Page:       page,
		X:          r.Left,
		Y:          c.top(box),
		Width:      width,
		LineHeight: f.Size * LineSpacing,
		Runs:       runs,
		Align:      align(f.TextAlign),
		Color:      c.colors.Foreground(f.Color),
		Background: c.colors.Background(f.Background),
	})
}
