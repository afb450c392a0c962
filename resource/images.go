package resource

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/wosatec/PDF-Generator/query"
	"github.com/wosatec/PDF-Generator/render"
)

// ImageDescriptor is the data-side description of an image:
//
//	{"type": "base64", "content": "data:image/png;base64,iVBOR..."}
//	{"type": "id", "content": "<uuid>", "size": "small"}
//	{"type": "path", "content": "assets/logo.png"}
//	{"type": "qr", "content": "https://example.com"}
//
// Type and Size are matched case-insensitively.
type ImageDescriptor struct {
	Type    string
	Content string
	Size    string
}

// IsZero reports whether the descriptor came from a null node.
func (d ImageDescriptor) IsZero() bool { return d == ImageDescriptor{} }

// AsImageDescriptor binds an object or null node to a descriptor.
func AsImageDescriptor(v *query.Value) (ImageDescriptor, error) {
	if v.IsNull() {
		return ImageDescriptor{}, nil
	}
	if v.Kind() != query.Object {
		return ImageDescriptor{}, &query.BindError{Want: "image descriptor", Got: v.Kind()}
	}
	var d ImageDescriptor
	for key, dst := range map[string]*string{"type": &d.Type, "content": &d.Content, "size": &d.Size} {
		prop, ok := v.Get(key)
		if !ok {
			continue
		}
		s, err := query.AsOptionalString(prop)
		if err != nil {
			return ImageDescriptor{}, &query.BindError{Want: "string " + key, Got: prop.Kind()}
		}
		*dst = s
	}
	return d, nil
}

// Placeholders are the image files used when a document content record has
// no payload for the requested size.
type Placeholders struct {
	Small  string
	Medium string
}

// DefaultPlaceholders returns the conventional placeholder locations.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Small:  "./Resources/S_placeholder.png",
		Medium: "./Resources/M_placeholder.png",
	}
}

// generated placeholder edge lengths, in pixels
const (
	smallPlaceholderSide  = 64
	mediumPlaceholderSide = 256
)

// Resolver turns descriptors into embeddable images. Identical payloads
// resolve to the same *render.Image.
type Resolver struct {
	contents     DocumentContents
	placeholders Placeholders
	log          logrus.FieldLogger
	images       map[string]*render.Image
}

// NewResolver returns a resolver over the document content records of one
// data document.
func NewResolver(contents DocumentContents, placeholders Placeholders, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{
		contents:     contents,
		placeholders: placeholders,
		log:          log,
		images:       map[string]*render.Image{},
	}
}

// Resolve loads the image a descriptor points to. A nil image with a nil
// error means the descriptor is blank, unsupported or references an unknown
// record; callers skip the image in that case.
func (r *Resolver) Resolve(d ImageDescriptor) (*render.Image, error) {
	content := strings.TrimSpace(d.Content)
	if content == "" {
		return nil, nil
	}

	switch kind := strings.ToUpper(strings.TrimSpace(d.Type)); kind {
	case "BASE64":
		data, err := DecodeBase64(content)
		if err != nil {
			return nil, err
		}
		return r.image(data)

	case "ID":
		if strings.TrimSpace(d.Size) == "" {
			return nil, nil
		}
		return r.resolveID(content, d.Size)

	case "PATH":
		data, err := os.ReadFile(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImage, err)
		}
		return r.image(data)

	case "QR", "CODE128", "PDF417":
		data, err := encodeBarcode(kind, d.Content)
		if err != nil {
			return nil, err
		}
		return r.image(data)

	default:
		r.log.WithField("type", d.Type).Debug("Unsupported image type, skipping.")
		return nil, nil
	}
}

func (r *Resolver) resolveID(content, size string) (*render.Image, error) {
	id, err := uuid.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document content id %q: %v", ErrImage, content, err)
	}
	rec, ok := r.contents[id]
	if !ok {
		r.log.WithField("id", id.String()).Debug("Unknown document content, skipping image.")
		return nil, nil
	}

	var payload, fallback string
	var side int
	switch strings.ToUpper(strings.TrimSpace(size)) {
	case "SMALL":
		payload, fallback, side = rec.Base64Small, r.placeholders.Small, smallPlaceholderSide
	case "MEDIUM":
		payload, fallback, side = rec.Base64Medium, r.placeholders.Medium, mediumPlaceholderSide
	default:
		return nil, fmt.Errorf("%w: unsupported image size %q", ErrImage, size)
	}

	if strings.TrimSpace(payload) == "" {
		data, err := r.placeholder(fallback, side)
		if err != nil {
			return nil, err
		}
		return r.image(data)
	}
	data, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return r.image(data)
}

// placeholder reads the placeholder file, or draws a plain grey square when
// the file does not exist.
func (r *Resolver) placeholder(path string, side int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: placeholder: %v", ErrImage, err)
	}

	img := image.NewGray(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Gray{Y: 0xd9}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: placeholder: %v", ErrImage, err)
	}
	return buf.Bytes(), nil
}

// image normalises data to a format the backend embeds and names it by
// content hash.
func (r *Resolver) image(data []byte) (*render.Image, error) {
	name := fmt.Sprintf("img-%016x", xxhash.Sum64(data))
	if img, ok := r.images[name]; ok {
		return img, nil
	}
	format, out, err := normalize(data)
	if err != nil {
		return nil, err
	}
	img := &render.Image{Name: name, Format: format, Data: out}
	r.images[name] = img
	return img, nil
}

// DecodeBase64 decodes the part of s after its last comma, so data URIs and
// bare base64 are both accepted.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Join(strings.Fields(s), "")
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrImage, err)
	}
	return data, nil
}

// normalize passes PNG, JPEG and GIF through and re-encodes BMP, TIFF and
// WebP as PNG.
func normalize(data []byte) (string, []byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrImage, err)
	}
	switch format {
	case "png", "gif":
		return format, data, nil
	case "jpeg":
		return "jpg", data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("%w: decoding %s: %v", ErrImage, format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("%w: converting %s: %v", ErrImage, format, err)
	}
	return "png", buf.Bytes(), nil
}
