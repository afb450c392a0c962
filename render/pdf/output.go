package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
)

// Output writes the finished document to w. When the last page was dropped
// the document is rendered once and its remaining pages are imported as
// templates into a fresh document.
func (b *Backend) Output(w io.Writer) error {
	if b.pdf.PageCount() == 0 {
		b.AddPage()
	}
	b.pdf.SetPage(b.pdf.PageCount())
	if !b.dropLast {
		if err := b.pdf.Output(w); err != nil {
			return fmt.Errorf("pdf: writing document: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return fmt.Errorf("pdf: writing document: %w", err)
	}
	keep := b.pdf.PageCount() - 1
	out, err := b.importPages(buf.Bytes(), keep)
	if err != nil {
		return err
	}
	b.log.WithField("pages", keep).Debug("Dropped trailing page.")
	if err := out.Output(w); err != nil {
		return fmt.Errorf("pdf: writing document: %w", err)
	}
	return nil
}

// importPages copies pages 1..n of a rendered document into a new one.
func (b *Backend) importPages(data []byte, n int) (out *gofpdf.Fpdf, err error) {
	// gofpdi panics on input it cannot parse
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: importing pages: %v", r)
		}
	}()

	out = gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: b.w, Ht: b.h},
	})
	out.SetAutoPageBreak(false, 0)

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	for p := 1; p <= n; p++ {
		tpl := imp.ImportPageFromStream(out, &rs, p, "/MediaBox")
		out.AddPage()
		imp.UseImportedTemplate(out, tpl, 0, 0, b.w, b.h)
	}
	if out.Err() {
		return nil, fmt.Errorf("pdf: importing pages: %w", out.Error())
	}
	return out, nil
}
