package resource

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/wosatec/PDF-Generator/render"
	"github.com/wosatec/PDF-Generator/template"
)

// coreFamilies maps font names that need no file to the backend's built-in
// families.
var coreFamilies = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Arial",
	"times":     "Times",
	"courier":   "Courier",
}

// Fonts resolves font keys to registered faces.
type Fonts struct {
	faces    map[string]*render.Font
	fallback *render.Font
}

// LoadFonts reads and validates every font file of the template's font
// table. Values naming a core family ("helvetica", "arial", "times",
// "courier") need no file.
func LoadFonts(table map[string]string) (*Fonts, error) {
	fs := &Fonts{
		faces:    make(map[string]*render.Font, len(table)),
		fallback: &render.Font{Key: template.DefaultFont, Family: "Helvetica", Name: "Helvetica", Core: true},
	}
	for key, src := range table {
		f, err := loadFont(key, src)
		if err != nil {
			return nil, err
		}
		fs.faces[key] = f
	}
	return fs, nil
}

func loadFont(key, src string) (*render.Font, error) {
	if family, ok := coreFamilies[strings.ToLower(strings.TrimSpace(src))]; ok {
		return &render.Font{Key: key, Family: family, Name: family, Core: true}, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFont, key, err)
	}
	return ParseFont(key, data)
}

// ParseFont validates TrueType/OpenType data and wraps it as a face
// registered under key.
func ParseFont(key string, data []byte) (*render.Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFont, key, err)
	}
	name, err := f.Name(nil, sfnt.NameIDFull)
	if err != nil || name == "" {
		name = key
	}
	return &render.Font{
		Key:    key,
		Family: "tpl-" + key,
		Name:   name,
		Data:   data,
	}, nil
}

// Face returns the face for key, falling back to "default" and then to the
// built-in Helvetica.
func (fs *Fonts) Face(key string) *render.Font {
	if f, ok := fs.faces[strings.TrimSpace(key)]; ok {
		return f
	}
	if f, ok := fs.faces[template.DefaultFont]; ok {
		return f
	}
	return fs.fallback
}

// Icon returns the face used for private use area glyphs: "default-icon" if
// registered, else the default face.
func (fs *Fonts) Icon() *render.Font {
	if f, ok := fs.faces[template.DefaultIconFont]; ok {
		return f
	}
	return fs.Face(template.DefaultFont)
}

// Has reports whether key is registered.
func (fs *Fonts) Has(key string) bool {
	_, ok := fs.faces[key]
	return ok
}

// All returns every face that needs registering with a backend, ordered by
// key, followed by the built-in fallback.
func (fs *Fonts) All() []*render.Font {
	keys := make([]string, 0, len(fs.faces))
	for k := range fs.faces {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*render.Font, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, fs.faces[k])
	}
	return append(out, fs.fallback)
}
