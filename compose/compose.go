// Package compose binds a template to a data document and emits the result
// to a render.Backend.
//
// A Composer is used once. Its steps must be called in order:
//
//	c := compose.New(tpl, backend)
//	err := c.LoadFonts()
//	err = c.LoadData(root)
//	err = c.Compose()
//	err = c.Overlay(draft)
//	err = c.Finalize(w)
//
// Fatal problems (an unresolvable page binding, an unreadable font) fail the
// step. Problems building a single element are recorded as faults, logged,
// and the element is skipped.
package compose

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wosatec/PDF-Generator/geometry"
	"github.com/wosatec/PDF-Generator/query"
	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/resource"
	"github.com/wosatec/PDF-Generator/template"
)

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Composer) {
		c.log = log
	}
}

// WithPlaceholders sets the fallback images used for ID images without a
// payload.
func WithPlaceholders(p resource.Placeholders) Option {
	return func(c *Composer) {
		c.placeholders = p
	}
}

// Composer carries the state of one composition run.
type Composer struct {
	tpl     *template.Template
	backend render.Backend
	log     logrus.FieldLogger
	state   State

	placeholders resource.Placeholders
	fonts        *resource.Fonts
	colors       *resource.Colors
	images       *resource.Resolver
	root         *query.Value

	conv  geometry.Converter
	frame geometry.Frame

	faults []Fault
}

// New returns a composer for tpl in the TemplateLoaded state.
func New(tpl *template.Template, backend render.Backend, opts ...Option) *Composer {
	c := &Composer{
		tpl:          tpl,
		backend:      backend,
		log:          logrus.StandardLogger(),
		state:        TemplateLoaded,
		placeholders: resource.DefaultPlaceholders(),
		colors:       resource.NewColors(tpl.Colors),
	}
	for _, opt := range opts {
		opt(c)
	}
	w, h := backend.PageSize()
	c.conv = geometry.NewConverter(w)
	c.frame = geometry.NewFrame(w, h, template.Margin{}, c.conv)
	return c
}

// State returns the current stage.
func (c *Composer) State() State { return c.state }

// Faults returns the elements skipped so far.
func (c *Composer) Faults() []Fault { return c.faults }

// LoadFonts reads the template's fonts and registers them with the backend.
func (c *Composer) LoadFonts() error {
	if err := c.advance(FontsLoaded); err != nil {
		return err
	}
	fonts, err := resource.LoadFonts(c.tpl.Fonts)
	if err != nil {
		return err
	}
	for _, f := range fonts.All() {
		if err := c.backend.RegisterFont(f); err != nil {
			return err
		}
		c.log.WithFields(logrus.Fields{"font": f.Key, "name": f.Name}).Debug("Font registered.")
	}
	for _, key := range c.tpl.FontKeys() {
		if !fonts.Has(key) {
			c.log.WithField("font", key).Warn("Font is not declared, using the default font.")
		}
	}
	c.fonts = fonts
	return nil
}

// LoadData sets the data document and indexes its document contents.
func (c *Composer) LoadData(root *query.Value) error {
	if err := c.advance(DataLoaded); err != nil {
		return err
	}
	contents, err := resource.LoadDocumentContents(root)
	if err != nil {
		return fmt.Errorf("compose: loading %s: %w", resource.DocumentContentsKey, err)
	}
	c.root = root
	c.images = resource.NewResolver(contents, c.placeholders, c.log)
	return nil
}

// Compose lays out every template page. Each page is repeated once per
// record found under its content key, and every record ends with a page
// break.
func (c *Composer) Compose() error {
	if err := c.advance(Composing); err != nil {
		return err
	}
	c.backend.AddPage()
	for i, page := range c.tpl.Pages {
		if err := c.composePage(i+1, page); err != nil {
			return err
		}
	}
	c.log.WithFields(logrus.Fields{
		"pages":  c.backend.PageCount(),
		"faults": len(c.faults),
	}).Debug("Body composed.")
	return nil
}

func (c *Composer) composePage(n int, page *template.Page) error {
	records, err := query.FindNodeArray(c.root, page.ContentKey)
	if err != nil {
		return fmt.Errorf("compose: page %d: %w", n, err)
	}

	w, h := c.backend.PageSize()
	c.frame = geometry.NewFrame(w, h, page.Margin, c.conv)
	c.backend.SetMargins(render.Insets(c.frame.Margin))

	log := c.log.WithField("page", n)
	log.WithField("records", len(records)).Debug("Composing page.")
	for r, record := range records {
		for i, el := range page.Elements {
			c.build(el, record, 0, Fault{Page: n, Record: r, Element: i})
		}
		c.backend.AddPage()
	}
	return nil
}

// build emits one element and records a fault if that fails. A page of 0
// targets the last page.
func (c *Composer) build(el template.Element, data *query.Value, page int, f Fault) {
	target := page
	if target == 0 {
		target = c.backend.PageCount()
	}
	err := c.safeDispatch(el, data, page, target)
	if err == nil {
		return
	}
	f.Type = el.Type()
	f.Target = target
	f.Err = err
	c.faults = append(c.faults, f)
	c.log.WithFields(f.fields()).WithError(err).Error("Element skipped.")
}

func (c *Composer) safeDispatch(el template.Element, data *query.Value, page, target int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compose: panic: %v", r)
		}
	}()
	return c.dispatch(el, data, page, target)
}

// dispatch draws el on target. Page is set for overlays only; their tables
// are placed on that page instead of flowing and page breaks are ignored.
func (c *Composer) dispatch(el template.Element, data *query.Value, page, target int) error {
	switch el := el.(type) {
	case *template.TextLine:
		return c.textLine(el, data, target)
	case *template.TextBlock:
		return c.textBlock(el, data, target)
	case *template.Image:
		return c.image(el, data, target)
	case *template.Table:
		return c.table(el, data, page)
	case *template.Line:
		return c.line(el, target)
	case *template.AreaBreak:
		if page > 0 {
			c.log.WithField("target", target).Debug("Page break ignored in overlay.")
			return nil
		}
		c.backend.AddPage()
		return nil
	default:
		return fmt.Errorf("%w: %T", template.ErrUnknownElementType, el)
	}
}

// top is the top-down page coordinate of an element's top edge.
func (c *Composer) top(box template.Box) float64 {
	r := geometry.Place(box, c.frame, c.conv)
	return c.frame.Top(r.Bottom, c.conv.ToUnits(box.Height))
}

func (c *Composer) line(el *template.Line, page int) error {
	r := geometry.Place(el.Box, c.frame, c.conv)
	return c.backend.DrawLine(&render.Stroke{
		Page:  page,
		X1:    r.Left,
		X2:    r.Left + r.Width,
		Y:     c.frame.Top(r.Bottom, 0),
		Width: r.Height,
		Color: c.colors.Foreground(el.Color),
	})
}

// Overlay draws the header, footer and, when draft is set, the draft layer
// on every page of the body. Overlays bind against the whole data document.
func (c *Composer) Overlay(draft bool) error {
	if err := c.advance(Overlaying); err != nil {
		return err
	}
	last := c.Pages()
	if draft {
		if c.tpl.Draft == nil {
			c.log.Debug("Draft requested but the template has no draft layer.")
		} else {
			c.overlay("draft", c.tpl.Draft, 1, last)
		}
	}
	if c.tpl.Header != nil {
		c.overlay("header", c.tpl.Header, c.tpl.Header.StartsAtPage, last)
	}
	if c.tpl.Footer != nil {
		c.overlay("footer", c.tpl.Footer, c.tpl.Footer.StartsAtPage, last)
	}
	c.log.WithFields(logrus.Fields{"pages": last, "faults": len(c.faults)}).Info("Document composed.")
	return nil
}

func (c *Composer) overlay(name string, o *template.Overlay, from, to int) {
	if len(o.Elements) == 0 {
		return
	}
	from = max(from, 1)
	for p := from; p <= to; p++ {
		for i, el := range o.Elements {
			c.build(el, c.root, p, Fault{Overlay: name, Element: i})
		}
	}
	c.log.WithFields(logrus.Fields{"overlay": name, "from": from, "to": to}).Debug("Overlay applied.")
}

// Pages is the number of pages that survive finalization: every page but
// the one left open by the last page break.
func (c *Composer) Pages() int {
	n := c.backend.PageCount()
	if n > 1 {
		return n - 1
	}
	return n
}

// Finalize drops the trailing page left by the last page break and writes
// the document.
func (c *Composer) Finalize(w io.Writer) error {
	if err := c.advance(Finalized); err != nil {
		return err
	}
	if c.backend.PageCount() > c.Pages() {
		if err := c.backend.DropLastPage(); err != nil {
			return err
		}
	}
	return c.backend.Output(w)
}
