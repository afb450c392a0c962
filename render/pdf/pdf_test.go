package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/resource"
)

var helvetica = &render.Font{Key: "default", Family: "Helvetica", Name: "Helvetica", Core: true}

var pageObject = regexp.MustCompile(`/Type /Page\b`)

func newBackend(t *testing.T) (*Backend, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	b := New(WithLogger(logger))
	b.SetMargins(render.Insets{Top: 40, Left: 40, Right: 40, Bottom: 40})
	return b, hook
}

func output(t *testing.T, b *Backend) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := b.Output(&buf); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	return buf.Bytes()
}

func style(size float64) render.TextStyle {
	return render.TextStyle{Font: helvetica, Size: size}
}

func plain(page int, text string) *render.Text {
	return &render.Text{
		Page: page, X: 40, Y: 40, Width: 200, LineHeight: 12.5,
		Runs:  []render.Run{{Text: text, Style: style(10)}},
		Color: render.Black,
	}
}

func pngImage(t *testing.T, name string, w, h int) *render.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return &render.Image{Name: name, Format: "png", Data: buf.Bytes()}
}

func TestOutputMinimalDocument(t *testing.T) {
	b, _ := newBackend(t)
	b.AddPage()
	if err := b.DrawText(plain(1, "Hello, Wörld")); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	data := output(t, b)
	if n := len(pageObject.FindAll(data, -1)); n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestRegisterUTF8Font(t *testing.T) {
	f, err := resource.ParseFont("default", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := newBackend(t)
	if err := b.RegisterFont(f); err != nil {
		t.Fatalf("RegisterFont: %v", err)
	}
	// registering twice is a no-op
	if err := b.RegisterFont(f); err != nil {
		t.Fatalf("RegisterFont again: %v", err)
	}
	b.AddPage()
	text := plain(1, "Grüße aus Köln")
	text.Runs[0].Style = render.TextStyle{Font: f, Bold: true, Size: 12}
	if err := b.DrawText(text); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	output(t, b)
}

func TestMeasureText(t *testing.T) {
	b, _ := newBackend(t)
	short := b.MeasureText(style(10), "a")
	long := b.MeasureText(style(10), "aaaa")
	if short <= 0 || long <= short {
		t.Errorf("widths = %v, %v", short, long)
	}
	if big := b.MeasureText(style(20), "aaaa"); big <= long {
		t.Errorf("larger size should measure wider: %v <= %v", big, long)
	}
}

func TestLayoutWrapsWords(t *testing.T) {
	b, _ := newBackend(t)
	word := b.MeasureText(style(10), "word ")
	runs := []render.Run{{Text: "word word word word", Style: style(10)}}

	lines := b.layout(runs, word*2+1)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if got := b.layout([]render.Run{{Text: "a\nb", Style: style(10)}}, 500); len(got) != 2 {
		t.Errorf("newline lines = %d, want 2", len(got))
	}
	if got := b.layout(nil, 100); len(got) != 1 {
		t.Errorf("empty lines = %d, want 1", len(got))
	}

	// a word wider than the line is split between runes
	long := strings.Repeat("x", 40)
	for _, l := range b.layout([]render.Run{{Text: long, Style: style(10)}}, 50) {
		if w := b.lineWidth(l); w > 50 {
			t.Errorf("line width %v exceeds 50", w)
		}
	}
}

func TestDrawOnEarlierPage(t *testing.T) {
	b, _ := newBackend(t)
	b.AddPage()
	b.AddPage()
	if err := b.DrawText(plain(1, "first page overlay")); err != nil {
		t.Fatal(err)
	}
	if err := b.DrawLine(&render.Stroke{Page: 1, X1: 40, X2: 200, Y: 100, Width: 1, Color: render.Black}); err != nil {
		t.Fatal(err)
	}
	b.AddPage()
	if got := b.PageCount(); got != 3 {
		t.Errorf("PageCount = %d, want 3", got)
	}
	if err := b.DrawText(plain(4, "nowhere")); err == nil {
		t.Error("expected error for page out of range")
	}
	output(t, b)
}

func TestDrawImage(t *testing.T) {
	b, _ := newBackend(t)
	b.AddPage()
	img := pngImage(t, "img-1", 40, 20)
	w, h, err := b.RegisterImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if w <= 0 || h <= 0 || w <= h {
		t.Errorf("native size = %vx%v", w, h)
	}
	if err := b.DrawImage(&render.ImagePlacement{Page: 1, Image: img, X: 40, Y: 40, Width: w, Height: h}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := b.RegisterImage(&render.Image{Name: "broken", Format: "png", Data: []byte("nope")}); err == nil {
		t.Error("expected error for broken image")
	}
	// one failure does not poison the document
	output(t, b)
}

func TestDropLastPage(t *testing.T) {
	b, hook := newBackend(t)
	b.AddPage()
	if err := b.DropLastPage(); err == nil {
		t.Error("dropping the only page should fail")
	}
	for i := 0; i < 2; i++ {
		b.AddPage()
		if err := b.DrawText(plain(b.PageCount(), fmt.Sprintf("page %d", b.PageCount()))); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.DropLastPage(); err != nil {
		t.Fatal(err)
	}
	data := output(t, b)
	if n := len(pageObject.FindAll(data, -1)); n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}
	if hook.LastEntry() == nil {
		t.Error("expected a debug entry for the dropped page")
	}
}

func row(cells ...string) *render.TableRow {
	r := &render.TableRow{
		MinHeight: 20,
		Style: render.CellStyle{
			Text:        style(9),
			Color:       render.Black,
			Border:      render.Borders{Bottom: render.Black},
			BorderWidth: 0.5,
			Padding:     render.Insets{Top: 1, Left: 1, Right: 1, Bottom: 1},
		},
	}
	for _, c := range cells {
		r.Cells = append(r.Cells, render.Cell{Text: c})
	}
	return r
}

func TestTableBreaksAcrossPages(t *testing.T) {
	b, hook := newBackend(t)
	b.AddPage()
	sec := &render.TableSection{Columns: []float64{1, 2}, Header: row("Qty", "Item")}
	for i := 0; i < 60; i++ {
		sec.Rows = append(sec.Rows, row(fmt.Sprint(i), "Widget"))
	}
	if err := b.DrawTable(&render.Table{X: 40, Width: 400, Sections: []*render.TableSection{sec}}); err != nil {
		t.Fatalf("DrawTable: %v", err)
	}
	if got := b.PageCount(); got < 2 {
		t.Errorf("PageCount = %d, want a page break", got)
	}
	if len(hook.AllEntries()) == 0 {
		t.Error("expected page break to be logged")
	}
	if b.fresh || b.flowY <= b.margins.Top {
		t.Errorf("flow position not advanced: fresh=%v y=%v", b.fresh, b.flowY)
	}
	output(t, b)
}

func TestTableStartsOnNewPageWhenFirstRowDoesNotFit(t *testing.T) {
	b, hook := newBackend(t)
	b.AddPage()
	tall := func(text string) *render.TableRow {
		r := row(text)
		r.MinHeight = 100
		return r
	}

	first := &render.TableSection{Columns: []float64{1}}
	for i := 0; i < 7; i++ {
		first.Rows = append(first.Rows, tall(fmt.Sprint(i)))
	}
	if err := b.DrawTable(&render.Table{X: 40, Width: 400, Sections: []*render.TableSection{first}}); err != nil {
		t.Fatal(err)
	}
	if got := b.PageCount(); got != 1 {
		t.Fatalf("PageCount = %d, seven rows fit one page", got)
	}
	bottom := b.h - b.margins.Bottom
	if b.flowY+100 <= bottom {
		t.Fatalf("flow y = %v leaves room for another row", b.flowY)
	}

	second := &render.TableSection{Columns: []float64{1}, Rows: []*render.TableRow{tall("next")}}
	if err := b.DrawTable(&render.Table{X: 40, Width: 400, Sections: []*render.TableSection{second}}); err != nil {
		t.Fatal(err)
	}
	if got := b.PageCount(); got != 2 {
		t.Errorf("PageCount = %d, want the second table on a new page", got)
	}
	if want := b.margins.Top + 100; b.flowY != want {
		t.Errorf("flow y = %v, want %v", b.flowY, want)
	}
	if e := hook.LastEntry(); e == nil || e.Message != "Table continues on a new page." {
		t.Errorf("last log entry = %v", e)
	}
	output(t, b)
}

func TestTableTallerThanPageDoesNotLoop(t *testing.T) {
	b, _ := newBackend(t)
	b.AddPage()
	r := row("huge")
	r.MinHeight = 2 * b.h
	sec := &render.TableSection{Columns: []float64{1}, Rows: []*render.TableRow{r}}
	if err := b.DrawTable(&render.Table{X: 40, Width: 400, Sections: []*render.TableSection{sec}}); err != nil {
		t.Fatal(err)
	}
	if got := b.PageCount(); got != 1 {
		t.Errorf("PageCount = %d, a row on an empty page is drawn in place", got)
	}
}

func TestTableOnFixedPage(t *testing.T) {
	b, _ := newBackend(t)
	b.AddPage()
	b.AddPage()
	sec := &render.TableSection{Columns: []float64{1}, Rows: []*render.TableRow{row("draft")}}
	for i := 0; i < 60; i++ {
		sec.Rows = append(sec.Rows, row("x"))
	}
	if err := b.DrawTable(&render.Table{Page: 1, X: 40, Width: 100, Sections: []*render.TableSection{sec}}); err != nil {
		t.Fatal(err)
	}
	if got := b.PageCount(); got != 2 {
		t.Errorf("PageCount = %d, fixed tables never break", got)
	}
	if err := b.DrawTable(&render.Table{Page: 5, Sections: []*render.TableSection{sec}}); err == nil {
		t.Error("expected error for page out of range")
	}
}

func TestTableExtraLinesAndImages(t *testing.T) {
	b, _ := newBackend(t)
	b.AddPage()
	r := row("", "Widget")
	r.Cells[0] = render.Cell{Image: pngImage(t, "img-cell", 100, 50)}
	r.Extra = []render.ExtraLine{{Key: "Color", Value: "Blue"}, {Key: "Size", Value: "XL"}}
	r.ExtraStyle = render.CellStyle{Text: style(8), Color: render.Black}
	r.ExtraCols = []float64{1, 3}

	widths := calculateWidths([]float64{1, 1}, 200)
	base := b.calculateRowHeight(r, widths)
	if got := b.blockHeight(r, widths); got <= base {
		t.Errorf("block height %v should include extra lines over %v", got, base)
	}
	// image fits the declared row height less the inset
	if _, h := b.cellImageSize(r.Cells[0].Image, 98, r.MinHeight); h > r.MinHeight-imageCellInset+1e-9 {
		t.Errorf("image height = %v", h)
	}

	sec := &render.TableSection{Columns: []float64{1, 1}, Rows: []*render.TableRow{r}}
	if err := b.DrawTable(&render.Table{X: 40, Width: 200, Sections: []*render.TableSection{sec, sec}, SectionGap: 8.5}); err != nil {
		t.Fatal(err)
	}
	output(t, b)
}

func TestCalculateWidths(t *testing.T) {
	for _, tc := range []struct {
		rel  []float64
		want []float64
	}{
		{nil, nil},
		{[]float64{1, 1}, []float64{50, 50}},
		{[]float64{1, 3}, []float64{25, 75}},
		{[]float64{0, 0}, []float64{50, 50}},
	} {
		got := calculateWidths(tc.rel, 100)
		if fmt.Sprint(got) != fmt.Sprint(tc.want) {
			t.Errorf("calculateWidths(%v) = %v, want %v", tc.rel, got, tc.want)
		}
	}
}
