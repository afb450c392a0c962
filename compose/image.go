package compose

import (
	"github.com/wosatec/PDF-Generator/geometry"
	"github.com/wosatec/PDF-Generator/query"
	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/resource"
	"github.com/wosatec/PDF-Generator/template"
)

// image places the picture described under the element's content key.
// Descriptors that resolve to nothing leave the element out.
func (c *Composer) image(el *template.Image, data *query.Value, page int) error {
	desc, err := query.FindData(data, el.ContentKey, resource.AsImageDescriptor)
	if err != nil {
		return err
	}
	img, err := c.images.Resolve(desc)
	if err != nil || img == nil {
		return err
	}
	srcW, srcH, err := c.backend.RegisterImage(img)
	if err != nil {
		return err
	}

	w, h := geometry.ImageSize(el.Box, srcW, srcH, c.conv)
	w, h = geometry.ClampImage(w, h, c.conv.ToUnits(el.MaxWidth), c.conv.ToUnits(el.MaxHeight))

	box := el.Box
	box.Width = c.conv.ToMillimeters(w)
	box.Height = c.conv.ToMillimeters(h)
	r := geometry.Place(box, c.frame, c.conv)
	return c.backend.DrawImage(&render.ImagePlacement{
		Page:   page,
		Image:  img,
		X:      r.Left,
		Y:      c.top(box),
		Width:  w,
		Height: h,
	})
}
