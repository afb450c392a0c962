package compose

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wosatec/PDF-Generator/template"
)

// Fault records an element that could not be built. The element is left
// out of the document and composition carries on with the next one.
type Fault struct {
	Overlay string // "header", "footer" or "draft"; empty for body pages
	Page    int    // 1-based template page, 0 for overlays
	Record  int    // index of the data record on the template page
	Element int    // index in the element list
	Type    template.ElementType
	Target  int // physical page the element was meant for
	Err     error
}

func (f *Fault) Error() string {
	where := fmt.Sprintf("page %d record %d", f.Page, f.Record)
	if f.Overlay != "" {
		where = f.Overlay
	}
	return fmt.Sprintf("compose: %s element %d (%s) on page %d: %v", where, f.Element, f.Type, f.Target, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

func (f *Fault) fields() logrus.Fields {
	fields := logrus.Fields{
		"element": f.Element,
		"type":    f.Type.String(),
		"target":  f.Target,
	}
	if f.Overlay != "" {
		fields["overlay"] = f.Overlay
	} else {
		fields["page"] = f.Page
		fields["record"] = f.Record
	}
	return fields
}
